package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/horizon-library/internal/domain/librarian"
	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
	"github.com/xiebiao/horizon-library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/horizon-library/pkg/logger"
	"github.com/xiebiao/horizon-library/pkg/mq"
)

// env 命令依赖的外部资源，测试时替换
type env struct {
	loadConfig   func(path string) (*config.Config, error)
	openService  func(cfg *config.Config, log *zap.Logger, cost int) (librarian.Service, func(), error)
	openConsumer func(cfg *config.Config, log *zap.Logger, keys []string) (eventSource, error)
}

// eventSource 事件来源（*mq.Consumer）
type eventSource interface {
	Consume(ctx context.Context, handler mq.Handler) error
	Close() error
}

func defaultEnv() *env {
	return &env{
		loadConfig:   config.LoadFile,
		openService:  openLibrarianService,
		openConsumer: openEventConsumer,
	}
}

func openLibrarianService(cfg *config.Config, log *zap.Logger, cost int) (librarian.Service, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return librarian.NewService(mysql.NewLibrarianRepository(db), cost), closeDB, nil
}

func openEventConsumer(cfg *config.Config, log *zap.Logger, keys []string) (eventSource, error) {
	c, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, "", keys, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newRootCmd(e *env) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "librarian-admin",
		Short:        "Horizon Library 馆员账号与事件运维工具",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	// setup 加载配置并创建CLI使用的logger（只输出warn以上，避免干扰命令输出）
	setup := func() (*config.Config, *zap.Logger, error) {
		cfg, err := e.loadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}
		log, err := logger.New(logger.Config{
			Level:  "warn",
			Format: cfg.Log.Format,
			Output: "stderr",
		})
		if err != nil {
			return nil, nil, err
		}
		return cfg, log, nil
	}

	root.AddCommand(
		newCreateCmd(e, setup),
		newPasswdCmd(e, setup),
		newEventsCmd(e, setup),
	)
	return root
}

type setupFunc func() (*config.Config, *zap.Logger, error)

// readPassword --password未指定时从标准输入读取一行
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
