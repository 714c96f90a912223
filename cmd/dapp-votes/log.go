package main

import (
	"os"

	logging "github.com/inconshreveable/log15"

	"github.com/Xausdorf/dapp-votes/internal/config"
	"github.com/Xausdorf/dapp-votes/internal/gateway/jsonrpc"
	"github.com/Xausdorf/dapp-votes/internal/gateway/shell"
	"github.com/Xausdorf/dapp-votes/internal/repository/ttadapter"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

var log logging.Logger = logging.New("module", "main")

func setLogging(cfg config.Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	handler := cfg.LogHandler(os.Stderr)

	log.SetHandler(logging.LvlFilterHandler(level, handler))
	usecase.SetLogging(level, handler)
	jsonrpc.SetLogging(level, handler)
	ttadapter.SetLogging(level, handler)
	shell.SetLogging(level, handler)
	return nil
}
