// Package shell is the terminal front end: a loading view until the node answers, then the
// confirmation view.
package shell

import (
	"context"
	"fmt"
	"io"

	logging "github.com/inconshreveable/log15"
)

const (
	LoadingView = "Loading..."
	Title       = "PP Voting App"
	Connected   = "Connected to local network successfully."
)

var log logging.Logger = logging.New("module", "shell")

func SetLogging(level logging.Lvl, handler logging.Handler) {
	log.SetHandler(logging.LvlFilterHandler(level, handler))
}

type Readier interface {
	Ready(ctx context.Context) (int64, error)
}

type Shell struct {
	provider Readier
	out      io.Writer
}

func New(provider Readier, out io.Writer) *Shell {
	return &Shell{provider: provider, out: out}
}

// Run renders the loading view and waits for the provider once. On failure the loading view
// stays until ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, LoadingView)

	block, err := s.provider.Ready(ctx)
	if err != nil {
		log.Error("Error connecting to network", "err", err)
		<-ctx.Done()
		return nil
	}
	log.Debug("provider ready", "block", block)

	fmt.Fprintln(s.out, Title)
	fmt.Fprintln(s.out, Connected)
	return nil
}
