package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Xausdorf/dapp-votes/internal/gateway/shell"
	"github.com/Xausdorf/dapp-votes/internal/provider"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Connect to a node and show its status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err = setLogging(cfg); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			interrupt(ctx.Done())
			cancel()
		}()

		return shell.New(provider.New(cfg.Endpoint), os.Stdout).Run(ctx)
	},
}
