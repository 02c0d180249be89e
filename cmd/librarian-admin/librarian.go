package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiebiao/horizon-library/internal/domain/librarian"
)

func newCreateCmd(e *env, setup setupFunc) *cobra.Command {
	var (
		username string
		password string
		cost     int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "创建馆员账号",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			svc, closeFn, err := e.openService(cfg, log, cost)
			if err != nil {
				return err
			}
			defer closeFn()

			l, err := svc.Create(cmd.Context(), username, pw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created librarian %q (id=%d)\n", l.Username, l.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "用户名（3-50个字符）")
	cmd.Flags().StringVarP(&password, "password", "p", "", "密码（8-72字节），为空时从标准输入读取")
	cmd.Flags().IntVar(&cost, "cost", librarian.DefaultBcryptCost, "bcrypt成本")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newPasswdCmd(e *env, setup setupFunc) *cobra.Command {
	var (
		username string
		password string
		cost     int
	)

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "重置馆员密码",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			svc, closeFn, err := e.openService(cfg, log, cost)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.ChangePassword(cmd.Context(), username, pw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %q\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "用户名")
	cmd.Flags().StringVarP(&password, "password", "p", "", "新密码，为空时从标准输入读取")
	cmd.Flags().IntVar(&cost, "cost", librarian.DefaultBcryptCost, "bcrypt成本")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
