package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/pkg/mq"
)

func newEventsCmd(e *env, setup setupFunc) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "跟踪图书事件（Ctrl+C退出）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			src, err := e.openConsumer(cfg, log, keys)
			if err != nil {
				return err
			}
			defer src.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return src.Consume(ctx, func(_ context.Context, msg mq.Message) error {
				printEvent(out, msg)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&keys, "keys", "k", []string{"book.*"}, "绑定的routing key，支持通配符")
	return cmd
}

// printEvent 每条事件输出一行
// 无法解析的消息原样输出，不重新入队
func printEvent(w io.Writer, msg mq.Message) {
	var ev book.Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		fmt.Fprintf(w, "%s\t%s\n", msg.RoutingKey, msg.Body)
		return
	}

	fmt.Fprintf(w, "%s\t%s\tid=%d\tisbn=%s\ttitle=%q\n",
		ev.OccurredAt.Format(time.RFC3339), ev.Type, ev.BookID, ev.ISBN, ev.Title)
}
