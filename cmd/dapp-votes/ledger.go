package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tarantool/go-tarantool/v2/datetime"
	_ "github.com/tarantool/go-tarantool/v2/uuid"

	"github.com/Xausdorf/dapp-votes/internal/config"
	"github.com/Xausdorf/dapp-votes/internal/repository/ldbadapter"
	"github.com/Xausdorf/dapp-votes/internal/repository/memory"
	"github.com/Xausdorf/dapp-votes/internal/repository/ttadapter"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

func openLedger(ctx context.Context, cfg config.Config) (usecase.Ledger, error) {
	storage, err := config.ParseStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	switch storage.Kind {
	case config.StorageLevelDB:
		ledger, err := ldbadapter.Open(storage.Path)
		if err != nil {
			return nil, err
		}
		return ledger, nil
	case config.StorageTarantool:
		ledger, err := ttadapter.Connect(ctx, ttadapter.Config{
			Address:       storage.Address,
			User:          cfg.Tarantool.User,
			Password:      cfg.Tarantool.Password,
			Timeout:       cfg.Tarantool.Timeout,
			Reconnect:     cfg.Tarantool.Reconnect,
			MaxReconnects: cfg.Tarantool.MaxReconnects,
		})
		if err != nil {
			return nil, err
		}
		log.Info("connected to tarantool", "address", storage.Address)
		return ledger, nil
	}
	return memory.NewLedger(), nil
}

// interrupt blocks until SIGINT, SIGTERM or cancel.
func interrupt(cancel <-chan struct{}) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		log.Info("shutting down", "signal", sig.String())
		return nil
	case <-cancel:
		return nil
	}
}
