package pricing

import (
	"time"

	"tns/internal/registry/models"
	dErrors "tns/pkg/domain-errors"
)

// PriceSnapshot is an oracle reading as supplied by the host. Price carries
// Exponent as a base-10 scale, so the USD value is Price * 10^Exponent.
type PriceSnapshot struct {
	Price       int64
	Exponent    int32
	PublishedAt time.Time
}

// USDMicroFromSnapshot validates a snapshot against the staleness bound and
// normalizes it to USD micro-units. Non-positive prices are rejected.
func USDMicroFromSnapshot(snap PriceSnapshot, now time.Time) (uint64, error) {
	if now.Sub(snap.PublishedAt) > MaxPriceStaleness {
		return 0, dErrors.New(dErrors.CodeStalePrice, "oracle price is stale")
	}
	if snap.Price <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidPrice, "oracle price must be positive")
	}

	// Rescale from the feed's exponent to micro-units (10^-6).
	targetExp := snap.Exponent + 6
	value := uint64(snap.Price)
	switch {
	case targetExp >= 0:
		for i := int32(0); i < targetExp; i++ {
			next := value * 10
			if next/10 != value {
				return 0, dErrors.New(dErrors.CodeMathOverflow, "oracle price overflows micro-units")
			}
			value = next
		}
	default:
		for i := targetExp; i < 0; i++ {
			value /= 10
		}
	}
	if value == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidPrice, "oracle price rounds to zero")
	}
	return value, nil
}

// PriceSource carries the normalized USD prices an operation needs for its
// chosen currency. TokenUSDMicro of zero means the protocol token trades at
// the $1 peg.
type PriceSource struct {
	NativeUSDMicro uint64
	TokenUSDMicro  uint64
}

// NativeAmountForUSD converts a USD quote to native base units at the given
// native/USD price.
func NativeAmountForUSD(usdMicro, nativePriceUSDMicro uint64) (uint64, error) {
	if nativePriceUSDMicro == 0 {
		return 0, dErrors.New(dErrors.CodeDivisionByZero, "native price is zero")
	}
	return mulDiv(usdMicro, NativeUnitsPerWhole, nativePriceUSDMicro)
}

// TokenPriceFromPool derives the protocol token's USD price from a liquidity
// pool's two reserves and the native/USD price:
//
//	token_price = native_reserve * native_price / token_reserve
//
// adjusted for the 9-vs-6 decimal gap between the assets.
func TokenPriceFromPool(nativeReserve, tokenReserve, nativePriceUSDMicro uint64) (uint64, error) {
	if nativeReserve == 0 || tokenReserve == 0 {
		return 0, dErrors.New(dErrors.CodeEmptyPool, "pool reserves are empty")
	}
	numerator, err := mulDiv(nativeReserve, nativePriceUSDMicro, tokenReserve)
	if err != nil {
		return 0, err
	}
	price := numerator / nativeDecimalGap
	if price == 0 {
		return 0, dErrors.New(dErrors.CodeEmptyPool, "pool price rounds to zero")
	}
	return price, nil
}

// TokenAmountForUSD converts a USD quote to protocol-token base units at the
// given token/USD price.
func TokenAmountForUSD(usdMicro, tokenPriceUSDMicro uint64) (uint64, error) {
	if tokenPriceUSDMicro == 0 {
		return 0, dErrors.New(dErrors.CodeDivisionByZero, "token price is zero")
	}
	return mulDiv(usdMicro, TokenUnitsPerWhole, tokenPriceUSDMicro)
}

// ApplyDiscountBPS subtracts a basis-point discount from an amount.
func ApplyDiscountBPS(amount uint64, bps uint16) (uint64, error) {
	discount, err := mulDiv(amount, uint64(bps), bpsDenominator)
	if err != nil {
		return 0, err
	}
	return amount - discount, nil
}

// ConvertUSD turns a USD quote into an amount of the chosen currency. Pegged
// stablecoins convert 1:1 (micro-USD to smallest unit). The protocol token
// converts at the pool-derived price when one is supplied, otherwise at the
// peg, and always receives the flat token discount.
func ConvertUSD(usdMicro uint64, currency models.Currency, src PriceSource) (uint64, error) {
	if !currency.IsValid() {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "unsupported currency %q", currency)
	}
	switch currency.Mode() {
	case models.ModeNative:
		return NativeAmountForUSD(usdMicro, src.NativeUSDMicro)
	case models.ModePegged:
		return usdMicro, nil
	default: // protocol token
		amount := usdMicro
		if src.TokenUSDMicro != 0 {
			converted, err := TokenAmountForUSD(usdMicro, src.TokenUSDMicro)
			if err != nil {
				return 0, err
			}
			amount = converted
		}
		return ApplyDiscountBPS(amount, TokenDiscountBPS)
	}
}

// SplitPlatformFee divides a total fee between the treasury and an optional
// referrer cut. treasury + platform always equals total.
func SplitPlatformFee(total uint64, platformFeeBPS uint16) (treasury, platform uint64, err error) {
	if platformFeeBPS > MaxPlatformFeeBPS {
		return 0, 0, dErrors.Newf(dErrors.CodePlatformFeeExceedsMax, "platform fee exceeds %d bps maximum", MaxPlatformFeeBPS)
	}
	if platformFeeBPS == 0 {
		return total, 0, nil
	}
	platform, err = mulDiv(total, uint64(platformFeeBPS), bpsDenominator)
	if err != nil {
		return 0, 0, err
	}
	return total - platform, platform, nil
}

// CheckSlippage enforces a caller-supplied maximum acceptable cost. A zero
// maximum disables the guard.
func CheckSlippage(actual, max uint64) error {
	if max != 0 && actual > max {
		return dErrors.Newf(dErrors.CodeSlippageExceeded, "cost %d exceeds maximum %d", actual, max)
	}
	return nil
}
