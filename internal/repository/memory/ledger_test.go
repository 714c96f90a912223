package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/dapp-votes/internal/repository/ledgertest"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

func TestLedger(t *testing.T) {
	ledgertest.Run(t, func(*testing.T) usecase.Ledger {
		return NewLedger()
	})
}

func TestLedgerConcurrentAtomic(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Atomic(ctx, func(tx usecase.Ledger) error {
				_, err := tx.Sequences().Next(ctx, usecase.BlockSequence)
				return err
			})
		}()
	}
	wg.Wait()

	current, err := l.Sequences().Current(ctx, usecase.BlockSequence)
	require.NoError(t, err)
	require.Equal(t, int64(50), current)
}
