package usecase

import (
	"os"

	logging "github.com/inconshreveable/log15"
)

var log logging.Logger = logging.New("module", "usecase")

func init() {
	SetLogging(logging.LvlInfo, logging.StreamHandler(os.Stdout, logging.TerminalFormat()))
}

func SetLogging(level logging.Lvl, handler logging.Handler) {
	log.SetHandler(logging.LvlFilterHandler(level, handler))
}
