// Package ldbadapter stores the ledger in goleveldb, either on disk or in memory.
package ldbadapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbIterator "github.com/syndtr/goleveldb/leveldb/iterator"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

// Core is the part of leveldb shared by *leveldb.DB and *leveldb.Transaction.
type Core interface {
	Has([]byte, *leveldbOpt.ReadOptions) (bool, error)
	Get([]byte, *leveldbOpt.ReadOptions) ([]byte, error)
	NewIterator(*leveldbUtil.Range, *leveldbOpt.ReadOptions) leveldbIterator.Iterator
	Put([]byte, []byte, *leveldbOpt.WriteOptions) error
	Delete([]byte, *leveldbOpt.WriteOptions) error
}

type Ledger struct {
	db   *leveldb.DB
	core Core
}

// Open opens the database at path. An empty path keeps the database in memory.
func Open(path string) (*Ledger, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open leveldb: %w", err)
	}
	return &Ledger{db: db, core: db}, nil
}

func (l *Ledger) Polls() usecase.PollRepository {
	return &PollRepository{core: l.core}
}

func (l *Ledger) Contestants() usecase.ContestantRepository {
	return &ContestantRepository{core: l.core}
}

func (l *Ledger) Ballots() usecase.BallotRepository {
	return &BallotRepository{core: l.core}
}

func (l *Ledger) Sequences() usecase.SequenceRepository {
	return &SequenceRepository{core: l.core}
}

func (l *Ledger) Atomic(_ context.Context, fn func(tx usecase.Ledger) error) error {
	if _, ok := l.core.(*leveldb.Transaction); ok {
		return fn(l)
	}

	ts, err := l.db.OpenTransaction()
	if err != nil {
		return fmt.Errorf("could not open leveldb transaction: %w", err)
	}
	if err = fn(&Ledger{db: l.db, core: ts}); err != nil {
		ts.Discard()
		return err
	}
	if err = ts.Commit(); err != nil {
		return fmt.Errorf("could not commit leveldb transaction: %w", err)
	}
	return nil
}

func (l *Ledger) Close() error {
	if _, ok := l.core.(*leveldb.Transaction); ok {
		return errors.New("could not close ledger from inside a transaction")
	}
	return l.db.Close()
}

func get(core Core, key []byte, v interface{}, notFound error) error {
	b, err := core.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("could not get %q from leveldb: %w", key, err)
	}
	if err = msgpack.Unmarshal(b, v); err != nil {
		return fmt.Errorf("could not decode %q: %w", key, err)
	}
	return nil
}

func put(core Core, key []byte, v interface{}) error {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode %q: %w", key, err)
	}
	if err = core.Put(key, b, nil); err != nil {
		return fmt.Errorf("could not put %q to leveldb: %w", key, err)
	}
	return nil
}

// walk calls fn with the value of every key under prefix, in key order.
func walk(core Core, prefix []byte, fn func(value []byte) error) error {
	iter := core.NewIterator(leveldbUtil.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		if err := fn(iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
