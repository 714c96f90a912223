package ldbadapter

import (
	"testing"

	"github.com/Xausdorf/dapp-votes/internal/repository/ledgertest"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

func TestLedgerConformance(t *testing.T) {
	ledgertest.Run(t, func(t *testing.T) usecase.Ledger {
		return newTestLedger(t)
	})
}
