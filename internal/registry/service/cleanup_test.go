package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tns/internal/registry/models"
	dErrors "tns/pkg/domain-errors"
)

const keeper = "keeper"

func TestCancel(t *testing.T) {
	ctx := context.Background()
	pastCancel := models.Year + models.GracePeriod + models.CancelPeriod + time.Second

	t.Run("pays back the deposit plus the keeper reward", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)
		// Top up so the reward debit clears its floor.
		_, err := f.protocol.CreditReserve(ctx, 20_000_000)
		require.NoError(t, err)

		f.clock.advance(pastCancel)
		result, err := f.svc.Cancel(ctx, CancelRequest{Keeper: keeper, Symbol: "ABC"})
		require.NoError(t, err)

		assert.Equal(t, uint64(2_000_000), result.DepositRefunded)
		assert.Equal(t, uint64(10_000_000), result.RewardPaid)
		assert.False(t, result.RewardSkipped)
		assert.Equal(t, testAlice, result.PreviousOwner)
		assert.Equal(t, uint64(12_000_000), f.treasury.total(keeper, models.CurrencyNative))

		got, err := f.symbols.Get(ctx, "ABC")
		require.NoError(t, err)
		assert.Nil(t, got, "record is destroyed")
	})

	t.Run("freed key can be registered again", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)
		f.clock.advance(pastCancel)
		_, err := f.svc.Cancel(ctx, CancelRequest{Keeper: keeper, Symbol: "ABC"})
		require.NoError(t, err)

		f.oracle.SetPrice(testFeed, 200, 0, f.clock.now)
		_, err = f.svc.Register(ctx, RegisterRequest{
			Payer:    testBob,
			Symbol:   "ABC",
			Mint:     "mint-abc",
			Years:    1,
			Currency: models.CurrencyUSDC,
		})
		require.NoError(t, err)
	})

	t.Run("reward is skipped, not failed, on an underfunded reserve", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)
		// Reserve holds exactly reward+deposit; after the deposit refund the
		// remaining 10M is not strictly above floor+reward.

		f.clock.advance(pastCancel)
		result, err := f.svc.Cancel(ctx, CancelRequest{Keeper: keeper, Symbol: "ABC"})
		require.NoError(t, err)

		assert.Equal(t, uint64(2_000_000), result.DepositRefunded)
		assert.Zero(t, result.RewardPaid)
		assert.True(t, result.RewardSkipped)

		got, err := f.symbols.Get(ctx, "ABC")
		require.NoError(t, err)
		assert.Nil(t, got, "the cleanup itself still succeeds")
	})

	t.Run("deposit refund clears a reserve holding exactly the deposit", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.KeeperRewardNative = 0
		f := newFixture(t, cfg)
		f.register(t)

		// Registration escrowed only the 2M deposit, so the reserve equals
		// the amount owed back. The refund must still go through.
		balance, err := f.protocol.ReserveBalance(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2_000_000), balance)

		f.clock.advance(pastCancel)
		result, err := f.svc.Cancel(ctx, CancelRequest{Keeper: keeper, Symbol: "ABC"})
		require.NoError(t, err)

		assert.Equal(t, uint64(2_000_000), result.DepositRefunded)
		assert.Equal(t, uint64(2_000_000), f.treasury.total(keeper, models.CurrencyNative))

		balance, err = f.protocol.ReserveBalance(ctx)
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("too early to cancel", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)

		f.clock.advance(models.Year + models.GracePeriod + models.CancelPeriod)
		_, err := f.svc.Cancel(ctx, CancelRequest{Keeper: keeper, Symbol: "ABC"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotYetCancelable))
	})

	t.Run("unknown symbol", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		_, err := f.svc.Cancel(ctx, CancelRequest{Keeper: keeper, Symbol: "NOPE"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeSymbolNotFound))
	})
}

func TestDriftClose(t *testing.T) {
	ctx := context.Background()

	t.Run("diverged metadata forfeits the registration immediately", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)
		_, err := f.protocol.CreditReserve(ctx, 20_000_000)
		require.NoError(t, err)

		// The token metadata changes out from under an active record.
		f.inspector.tokens["mint-abc"].meta.Symbol = "PIVOT"

		result, err := f.svc.DriftClose(ctx, DriftCloseRequest{Keeper: keeper, Symbol: "ABC"})
		require.NoError(t, err)
		assert.Equal(t, "PIVOT", result.MetadataSymbol)
		assert.Equal(t, uint64(2_000_000), result.DepositRefunded)
		assert.Equal(t, uint64(10_000_000), result.RewardPaid)

		got, err := f.symbols.Get(ctx, "ABC")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("no drift means no close, even when cancelable", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)

		f.clock.advance(models.Year + models.GracePeriod + models.CancelPeriod + time.Second)
		_, err := f.svc.DriftClose(ctx, DriftCloseRequest{Keeper: keeper, Symbol: "ABC"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNoDriftDetected))
	})
}
