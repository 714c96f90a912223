// Package ttadapter stores the ledger in Tarantool.
//
// Expected schema:
//
//	polls       primary: {id}
//	contestants primary: {poll_id, id}
//	ballots     primary: {poll_id, voter}
//	sequences   primary: {name}
//
// Atomic needs interactive transactions, i.e. memtx_use_mvcc_engine = true.
package ttadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/tarantool/go-tarantool/v2"

	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

const (
	pollSpace       = "polls"
	contestantSpace = "contestants"
	ballotSpace     = "ballots"
	sequenceSpace   = "sequences"

	primaryIndex = "primary"
	// selectLimit bounds list selects.
	selectLimit = 1 << 20

	txnTimeout = 5 * time.Second
)

// doer is implemented by both *tarantool.Connection and *tarantool.Stream.
type doer interface {
	Do(req tarantool.Request) *tarantool.Future
}

type Config struct {
	Address       string
	User          string
	Password      string
	Timeout       time.Duration
	Reconnect     time.Duration
	MaxReconnects uint
}

type Ledger struct {
	conn *tarantool.Connection
	do   doer
}

func Connect(ctx context.Context, cfg Config) (*Ledger, error) {
	dialer := tarantool.NetDialer{
		Address:  cfg.Address,
		User:     cfg.User,
		Password: cfg.Password,
	}
	opts := tarantool.Opts{
		Timeout:       cfg.Timeout,
		Reconnect:     cfg.Reconnect,
		MaxReconnects: cfg.MaxReconnects,
	}

	conn, err := tarantool.Connect(ctx, dialer, opts)
	if err != nil {
		return nil, fmt.Errorf("could not connect to tarantool: %w", err)
	}
	return NewLedger(conn), nil
}

func NewLedger(conn *tarantool.Connection) *Ledger {
	return &Ledger{conn: conn, do: conn}
}

func (l *Ledger) Polls() usecase.PollRepository {
	return &PollRepository{do: l.do}
}

func (l *Ledger) Contestants() usecase.ContestantRepository {
	return &ContestantRepository{do: l.do}
}

func (l *Ledger) Ballots() usecase.BallotRepository {
	return &BallotRepository{do: l.do}
}

func (l *Ledger) Sequences() usecase.SequenceRepository {
	return &SequenceRepository{do: l.do}
}

func (l *Ledger) Atomic(ctx context.Context, fn func(tx usecase.Ledger) error) error {
	if _, ok := l.do.(*tarantool.Stream); ok {
		return fn(l)
	}

	stream, err := l.conn.NewStream()
	if err != nil {
		return fmt.Errorf("could not open tarantool stream: %w", err)
	}
	if _, err = stream.Do(
		tarantool.NewBeginRequest().
			Context(ctx).
			TxnIsolation(tarantool.ReadCommittedLevel).
			Timeout(txnTimeout),
	).Get(); err != nil {
		return fmt.Errorf("could not begin tarantool transaction: %w", err)
	}

	if err = fn(&Ledger{conn: l.conn, do: stream}); err != nil {
		if _, rbErr := stream.Do(tarantool.NewRollbackRequest()).Get(); rbErr != nil {
			log.Error("could not rollback tarantool transaction", "err", rbErr)
		}
		return err
	}

	if _, err = stream.Do(tarantool.NewCommitRequest().Context(ctx)).Get(); err != nil {
		return fmt.Errorf("could not commit tarantool transaction: %w", err)
	}
	return nil
}

func (l *Ledger) Close() error {
	return l.conn.Close()
}
