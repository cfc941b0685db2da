package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tns/internal/registry/models"
	dErrors "tns/pkg/domain-errors"
)

func baseConfig(launch time.Time) *models.ProtocolConfig {
	return &models.ProtocolConfig{
		BasePriceUSDMicro: 10_000_000, // $10.00
		AnnualIncreaseBPS: 700,
		UpdateFeeBPS:      5000,
		LaunchAt:          launch,
	}
}

func TestYearlyPriceUSDMicro(t *testing.T) {
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := baseConfig(launch)

	t.Run("no growth before the first full year", func(t *testing.T) {
		price, err := YearlyPriceUSDMicro(cfg, launch.Add(models.Year-time.Second))
		require.NoError(t, err)
		assert.Equal(t, uint64(10_000_000), price)
	})

	t.Run("compounds seven percent per elapsed year", func(t *testing.T) {
		// $10.00 * 1.07^3 with truncation at each step: 10.70, 11.449, 12.25043.
		price, err := YearlyPriceUSDMicro(cfg, launch.Add(3*models.Year+time.Hour))
		require.NoError(t, err)
		assert.Equal(t, uint64(12_250_430), price)
	})

	t.Run("monotonic in time", func(t *testing.T) {
		var prev uint64
		for y := 0; y < 20; y++ {
			price, err := YearlyPriceUSDMicro(cfg, launch.Add(time.Duration(y)*models.Year))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, price, prev)
			prev = price
		}
	})

	t.Run("compounding clamps at fifty years", func(t *testing.T) {
		atClamp, err := YearlyPriceUSDMicro(cfg, launch.Add(50*models.Year))
		require.NoError(t, err)
		far, err := YearlyPriceUSDMicro(cfg, launch.Add(200*models.Year))
		require.NoError(t, err)
		assert.Equal(t, atClamp, far)
	})
}

func TestQuoteYears(t *testing.T) {
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := baseConfig(launch)
	cfg.AnnualIncreaseBPS = 0

	t.Run("one year has no discount", func(t *testing.T) {
		quote, err := QuoteYears(cfg, launch, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(10_000_000), quote.TotalUSDMicro)
		assert.Equal(t, uint16(0), quote.DiscountBPS)
	})

	t.Run("five years at fourteen percent off", func(t *testing.T) {
		// 5 * $10 * (1 - 0.14) = $43.00
		quote, err := QuoteYears(cfg, launch, 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(43_000_000), quote.TotalUSDMicro)
		assert.Equal(t, uint16(1400), quote.DiscountBPS)
	})

	t.Run("discounted terms always beat the linear price", func(t *testing.T) {
		for years := uint8(2); years <= 10; years++ {
			quote, err := QuoteYears(cfg, launch, years)
			require.NoError(t, err)
			assert.Less(t, quote.TotalUSDMicro, uint64(years)*quote.YearlyUSDMicro, "years=%d", years)
		}
	})

	t.Run("rejects year counts outside the term limits", func(t *testing.T) {
		for _, years := range []uint8{0, 11, 255} {
			_, err := QuoteYears(cfg, launch, years)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidYears), "years=%d", years)
		}
	})
}

func TestUpdateFeeUSDMicro(t *testing.T) {
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := baseConfig(launch)
	cfg.AnnualIncreaseBPS = 0

	fee, err := UpdateFeeUSDMicro(cfg, launch)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), fee, "half of the $10 yearly price")
}

func TestExpiryFor(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("registration extends from now", func(t *testing.T) {
		expiry, err := ExpiryFor(now, now, 2)
		require.NoError(t, err)
		assert.Equal(t, now.Add(2*models.Year), expiry)
	})

	t.Run("renewal extends from the current expiry", func(t *testing.T) {
		base := now.Add(3 * models.Year)
		expiry, err := ExpiryFor(base, now, 4)
		require.NoError(t, err)
		assert.Equal(t, base.Add(4*models.Year), expiry)
	})

	t.Run("total term may not exceed ten years from now", func(t *testing.T) {
		base := now.Add(5 * models.Year)
		_, err := ExpiryFor(base, now, 6)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeExceedsMaxDuration))

		expiry, err := ExpiryFor(base, now, 5)
		require.NoError(t, err)
		assert.Equal(t, now.Add(10*models.Year), expiry)
	})
}

func TestMulDiv(t *testing.T) {
	t.Run("exact widened arithmetic", func(t *testing.T) {
		// (2^63)*6 overflows 64-bit multiplication but the quotient fits.
		got, err := mulDiv(1<<63, 6, 4)
		require.NoError(t, err)
		assert.Equal(t, uint64(3)<<62, got)
	})

	t.Run("zero denominator", func(t *testing.T) {
		_, err := mulDiv(1, 1, 0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDivisionByZero))
	})

	t.Run("quotient overflow", func(t *testing.T) {
		_, err := mulDiv(1<<63, 4, 1)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMathOverflow))
	})
}
