package ttadapter

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tarantool/go-tarantool/v2"

	"github.com/Xausdorf/dapp-votes/internal/repository/ledgertest"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

// The suite needs a disposable tarantool with the schema described in the package doc.
// It is skipped unless TT_TEST_ADDRESS is set.
func TestLedgerConformance(t *testing.T) {
	address := os.Getenv("TT_TEST_ADDRESS")
	if address == "" {
		t.Skip("TT_TEST_ADDRESS is not set")
	}

	ledgertest.Run(t, func(t *testing.T) usecase.Ledger {
		ctx := context.Background()
		l, err := Connect(ctx, Config{
			Address:  address,
			User:     os.Getenv("TT_TEST_USER"),
			Password: os.Getenv("TT_TEST_PASSWORD"),
			Timeout:  time.Second,
		})
		require.NoError(t, err)

		for _, space := range []string{pollSpace, contestantSpace, ballotSpace, sequenceSpace} {
			_, err = l.conn.Do(tarantool.NewEvalRequest("box.space." + space + ":truncate()")).Get()
			require.NoError(t, err)
		}
		t.Cleanup(func() { l.Close() })
		return l
	})
}
