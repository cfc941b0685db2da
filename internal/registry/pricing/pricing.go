// Package pricing implements the registry's fee engine: the time-compounded
// yearly price, multi-year quotes with term discounts, and conversion of USD
// quotes into the supported payment currencies.
//
// All arithmetic is integer fixed-point. USD amounts are micro-units
// ($1 = 1_000_000); asset amounts are the asset's smallest units. Widened
// 128-bit steps go through mulDiv so overflow and zero denominators surface
// as errors instead of wrapping or panicking.
package pricing

import (
	"math/bits"
	"time"

	"tns/internal/registry/models"
	dErrors "tns/pkg/domain-errors"
)

const (
	// USDMicroPerUSD is the fixed-point scale for USD amounts.
	USDMicroPerUSD = 1_000_000

	// NativeUnitsPerWhole is the base-unit scale of the native asset (9 decimals).
	NativeUnitsPerWhole = 1_000_000_000

	// TokenUnitsPerWhole is the base-unit scale of the stablecoins and the
	// protocol token (6 decimals).
	TokenUnitsPerWhole = 1_000_000

	// nativeDecimalGap adjusts pool math for the 9-vs-6 decimal difference
	// between the native asset and the protocol token.
	nativeDecimalGap = NativeUnitsPerWhole / TokenUnitsPerWhole

	// TokenDiscountBPS is the flat discount for paying in the protocol token.
	TokenDiscountBPS = 2500

	// MaxPlatformFeeBPS caps the referrer cut at 10%.
	MaxPlatformFeeBPS = 1000

	// MaxPriceStaleness bounds how old an oracle reading may be.
	MaxPriceStaleness = time.Hour

	// growthYearCap bounds compounding so a pathological launch timestamp
	// cannot overflow the price.
	growthYearCap = 50

	bpsDenominator = 10_000
)

// multiYearDiscountBPS[n-1] is the discount for an n-year term.
var multiYearDiscountBPS = [models.MaxRegistrationYears]uint16{
	0, 500, 800, 1100, 1400, 1600, 1800, 2000, 2200, 2500,
}

// DiscountBPSForYears returns the term discount for a year count, or an
// InvalidYears error outside 1..10.
func DiscountBPSForYears(years uint8) (uint16, error) {
	if years < 1 || years > models.MaxRegistrationYears {
		return 0, dErrors.Newf(dErrors.CodeInvalidYears, "years must be between 1 and %d", models.MaxRegistrationYears)
	}
	return multiYearDiscountBPS[years-1], nil
}

// YearlyPriceUSDMicro computes the current per-year base price: the config's
// base price compounded by the annual growth rate once per whole elapsed year
// since launch. Truncation happens at each compounding step.
func YearlyPriceUSDMicro(cfg *models.ProtocolConfig, now time.Time) (uint64, error) {
	elapsed := now.Sub(cfg.LaunchAt)
	years := int64(elapsed / models.Year)
	if years <= 0 {
		return cfg.BasePriceUSDMicro, nil
	}
	if years > growthYearCap {
		years = growthYearCap
	}

	price := cfg.BasePriceUSDMicro
	for i := int64(0); i < years; i++ {
		next, err := mulDiv(price, bpsDenominator+uint64(cfg.AnnualIncreaseBPS), bpsDenominator)
		if err != nil {
			return 0, err
		}
		price = next
	}
	return price, nil
}

// QuoteYears prices an n-year term at the current price level: yearly price
// times n, less the multi-year discount.
func QuoteYears(cfg *models.ProtocolConfig, now time.Time, years uint8) (*models.Quote, error) {
	discountBPS, err := DiscountBPSForYears(years)
	if err != nil {
		return nil, err
	}
	yearly, err := YearlyPriceUSDMicro(cfg, now)
	if err != nil {
		return nil, err
	}

	hi, total := bits.Mul64(yearly, uint64(years))
	if hi != 0 {
		return nil, dErrors.New(dErrors.CodeMathOverflow, "quote exceeds representable range")
	}
	discount, err := mulDiv(total, uint64(discountBPS), bpsDenominator)
	if err != nil {
		return nil, err
	}

	return &models.Quote{
		Years:          years,
		YearlyUSDMicro: yearly,
		TotalUSDMicro:  total - discount,
		DiscountBPS:    discountBPS,
	}, nil
}

// UpdateFeeUSDMicro computes the mint-update fee: a basis-point fraction of
// the current yearly price.
func UpdateFeeUSDMicro(cfg *models.ProtocolConfig, now time.Time) (uint64, error) {
	yearly, err := YearlyPriceUSDMicro(cfg, now)
	if err != nil {
		return 0, err
	}
	return mulDiv(yearly, uint64(cfg.UpdateFeeBPS), bpsDenominator)
}

// ExpiryFor validates a term and computes the new expiry extending from base
// (now for registrations, the current expiry for renewals). The result must
// not exceed MaxRegistrationYears from now.
func ExpiryFor(base, now time.Time, years uint8) (time.Time, error) {
	if years < 1 || years > models.MaxRegistrationYears {
		return time.Time{}, dErrors.Newf(dErrors.CodeInvalidYears, "years must be between 1 and %d", models.MaxRegistrationYears)
	}
	expiresAt := base.Add(time.Duration(years) * models.Year)
	maxAllowed := now.Add(models.MaxRegistrationYears * models.Year)
	if expiresAt.After(maxAllowed) {
		return time.Time{}, dErrors.Newf(dErrors.CodeExceedsMaxDuration, "term would exceed the %d year maximum", models.MaxRegistrationYears)
	}
	return expiresAt, nil
}

// mulDiv computes a*b/den with a 128-bit intermediate, rejecting zero
// denominators and quotients that do not fit in 64 bits.
func mulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, dErrors.New(dErrors.CodeDivisionByZero, "division by zero")
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		return 0, dErrors.New(dErrors.CodeMathOverflow, "arithmetic overflow")
	}
	q, _ := bits.Div64(hi, lo, den)
	return q, nil
}
