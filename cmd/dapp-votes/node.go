package main

import (
	"context"
	"time"

	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/Xausdorf/dapp-votes/internal/gateway/jsonrpc"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Run the voting node",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err = setLogging(cfg); err != nil {
			return err
		}
		endpoint, err := cfg.EndpointURL()
		if err != nil {
			return err
		}

		ctx := context.Background()
		ledger, err := openLedger(ctx, cfg)
		if err != nil {
			log.Crit("failed to open ledger", "storage", cfg.Storage, "err", err)
			return err
		}
		defer ledger.Close()

		server := jsonrpc.NewServer(endpoint, usecase.NewVoting(ledger))

		var g run.Group
		{
			g.Add(func() error {
				return server.Start()
			}, func(error) {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(ctx); err != nil {
					log.Error("could not shut down json-rpc server", "err", err)
				}
			})
		}
		{
			cancel := make(chan struct{})
			g.Add(func() error {
				return interrupt(cancel)
			}, func(error) {
				close(cancel)
			})
		}

		return g.Run()
	},
}
