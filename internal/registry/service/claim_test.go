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

func TestClaim(t *testing.T) {
	ctx := context.Background()

	claimReq := func() ClaimRequest {
		return ClaimRequest{
			Claimant: testBob,
			Symbol:   "ABC",
			Mint:     "mint-new",
			Years:    2,
			Currency: models.CurrencyUSDC,
		}
	}

	t.Run("takes over a lapsed symbol", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.AnnualIncreaseBPS = 0
		f := newFixture(t, cfg)
		registered := f.register(t)
		f.inspector.addToken("mint-new", "ABC", testBob)

		f.clock.advance(models.Year + models.GracePeriod + time.Second)
		result, err := f.svc.Claim(ctx, claimReq())
		require.NoError(t, err)

		assert.Equal(t, testBob, result.Record.Owner)
		assert.Equal(t, "mint-new", result.Record.Mint.String())
		assert.Equal(t, testAlice, result.PreviousOwner)
		assert.Equal(t, "mint-abc", result.PreviousMint.String())
		assert.Equal(t, registered.Record.RegisteredAt, result.Record.RegisteredAt, "registration timestamp survives the claim")
		assert.Equal(t, f.clock.now.Add(2*models.Year), result.Record.ExpiresAt)
		// Fresh two-year quote, no carried-over discount: 2*$10 minus 5%.
		assert.Equal(t, uint64(19_000_000), result.Payment.FeePaid)
		assert.Zero(t, result.Payment.KeeperFunding, "the original registration funded the reserve")
	})

	t.Run("rejected while active", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)
		f.inspector.addToken("mint-new", "ABC", testBob)

		_, err := f.svc.Claim(ctx, claimReq())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeSymbolNotExpired))
	})

	t.Run("rejected during grace", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)
		f.inspector.addToken("mint-new", "ABC", testBob)

		f.clock.advance(models.Year + models.GracePeriod)
		_, err := f.svc.Claim(ctx, claimReq())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeSymbolNotExpired))
	})

	t.Run("metadata must carry the claimed symbol", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)
		f.inspector.addToken("mint-new", "OTHER", testBob)

		f.clock.advance(models.Year + models.GracePeriod + time.Second)
		_, err := f.svc.Claim(ctx, claimReq())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMetadataMismatch))
	})

	t.Run("unknown symbol", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.inspector.addToken("mint-new", "ABC", testBob)
		_, err := f.svc.Claim(ctx, claimReq())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeSymbolNotFound))
	})
}
