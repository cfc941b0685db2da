package treasury

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tns/internal/registry/models"
	dErrors "tns/pkg/domain-errors"
)

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves value between accounts", func(t *testing.T) {
		ledger := NewMemoryLedger()
		ledger.Deposit("alice", models.CurrencyUSDC, 100)

		require.NoError(t, ledger.Transfer(ctx, "alice", "bob", 40, models.CurrencyUSDC))
		assert.Equal(t, uint64(60), ledger.Balance("alice", models.CurrencyUSDC))
		assert.Equal(t, uint64(40), ledger.Balance("bob", models.CurrencyUSDC))
	})

	t.Run("refuses uncovered transfer", func(t *testing.T) {
		ledger := NewMemoryLedger()
		ledger.Deposit("alice", models.CurrencyUSDC, 10)

		err := ledger.Transfer(ctx, "alice", "bob", 11, models.CurrencyUSDC)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInsufficientFunds))
		assert.Equal(t, uint64(10), ledger.Balance("alice", models.CurrencyUSDC))
		assert.Zero(t, ledger.Balance("bob", models.CurrencyUSDC))
	})

	t.Run("currencies are independent", func(t *testing.T) {
		ledger := NewMemoryLedger()
		ledger.Deposit("alice", models.CurrencyNative, 100)

		err := ledger.Transfer(ctx, "alice", "bob", 1, models.CurrencyUSDC)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInsufficientFunds))
	})

	t.Run("zero amount is a no-op", func(t *testing.T) {
		ledger := NewMemoryLedger()
		require.NoError(t, ledger.Transfer(ctx, "alice", "bob", 0, models.CurrencyUSDC))
	})
}

func TestTransferConcurrent(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	ledger.Deposit("vault", models.CurrencyNative, 1000)

	// 100 racers each try to withdraw 20; only 50 can be covered.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.Transfer(ctx, "vault", "sink", 20, models.CurrencyNative)
		}()
	}
	wg.Wait()

	assert.Zero(t, ledger.Balance("vault", models.CurrencyNative))
	assert.Equal(t, uint64(1000), ledger.Balance("sink", models.CurrencyNative))
}
