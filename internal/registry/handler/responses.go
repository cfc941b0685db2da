package handler

import (
	"time"

	"tns/internal/registry/models"
	"tns/internal/registry/service"
)

// SymbolResponse is the wire form of a symbol record.
type SymbolResponse struct {
	Symbol       string    `json:"symbol"`
	Mint         string    `json:"mint"`
	Owner        string    `json:"owner"`
	RegisteredAt time.Time `json:"registered_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	State        string    `json:"state,omitempty"`
}

func fromRecord(record *models.SymbolRecord) SymbolResponse {
	return SymbolResponse{
		Symbol:       record.Symbol.String(),
		Mint:         record.Mint.String(),
		Owner:        record.Owner.String(),
		RegisteredAt: record.RegisteredAt,
		ExpiresAt:    record.ExpiresAt,
	}
}

// PaymentResponse reports what an operation collected.
type PaymentResponse struct {
	Currency       string `json:"currency"`
	FeePaid        uint64 `json:"fee_paid"`
	PlatformFee    uint64 `json:"platform_fee,omitempty"`
	KeeperFunding  uint64 `json:"keeper_funding,omitempty"`
	DepositFunding uint64 `json:"deposit_funding,omitempty"`
}

func fromPayment(p models.Payment) PaymentResponse {
	return PaymentResponse{
		Currency:       string(p.Currency),
		FeePaid:        p.FeePaid,
		PlatformFee:    p.PlatformFee,
		KeeperFunding:  p.KeeperFunding,
		DepositFunding: p.DepositFunding,
	}
}

// RegisterResponse is returned by register, claim, and seed.
type RegisterResponse struct {
	Record          SymbolResponse  `json:"record"`
	MetadataMutable bool            `json:"metadata_mutable"`
	Payment         PaymentResponse `json:"payment"`
}

// RenewResponse is returned by renew.
type RenewResponse struct {
	Record       SymbolResponse  `json:"record"`
	OldExpiresAt time.Time       `json:"old_expires_at"`
	Payment      PaymentResponse `json:"payment"`
}

// ClaimResponse is returned by claim.
type ClaimResponse struct {
	Record        SymbolResponse  `json:"record"`
	PreviousOwner string          `json:"previous_owner"`
	PreviousMint  string          `json:"previous_mint"`
	Payment       PaymentResponse `json:"payment"`
}

// UpdateMintResponse is returned by the mint update.
type UpdateMintResponse struct {
	Record  SymbolResponse  `json:"record"`
	OldMint string          `json:"old_mint"`
	Payment PaymentResponse `json:"payment"`
}

// TransferResponse is returned by transfer and claim-ownership.
type TransferResponse struct {
	Record    SymbolResponse `json:"record"`
	OldOwner  string         `json:"old_owner"`
	ClaimPath string         `json:"claim_path,omitempty"`
}

// CloseResponse is returned by cancel, drift-close, and the admin close.
type CloseResponse struct {
	Symbol          string `json:"symbol"`
	PreviousOwner   string `json:"previous_owner"`
	PreviousMint    string `json:"previous_mint"`
	DepositRefunded uint64 `json:"deposit_refunded"`
	RewardPaid      uint64 `json:"reward_paid"`
	RewardSkipped   bool   `json:"reward_skipped"`
	MetadataSymbol  string `json:"metadata_symbol,omitempty"`
}

func fromClose(result *models.CloseResult) CloseResponse {
	return CloseResponse{
		Symbol:          result.Symbol.String(),
		PreviousOwner:   result.PreviousOwner.String(),
		PreviousMint:    result.PreviousMint.String(),
		DepositRefunded: result.DepositRefunded,
		RewardPaid:      result.RewardPaid,
		RewardSkipped:   result.RewardSkipped,
		MetadataSymbol:  result.MetadataSymbol,
	}
}

// QuoteResponse is returned by GET /registry/quote.
type QuoteResponse struct {
	Years          uint8  `json:"years"`
	Currency       string `json:"currency"`
	YearlyUSDMicro uint64 `json:"yearly_usd_micro"`
	TotalUSDMicro  uint64 `json:"total_usd_micro"`
	DiscountBPS    uint16 `json:"discount_bps"`
	Amount         uint64 `json:"amount"`
}

func fromQuote(q *service.PriceQuote) QuoteResponse {
	return QuoteResponse{
		Years:          q.Quote.Years,
		Currency:       string(q.Currency),
		YearlyUSDMicro: q.Quote.YearlyUSDMicro,
		TotalUSDMicro:  q.Quote.TotalUSDMicro,
		DiscountBPS:    q.Quote.DiscountBPS,
		Amount:         q.Amount,
	}
}

// ConfigResponse is the admin view of the protocol config.
type ConfigResponse struct {
	Version           uint64    `json:"version"`
	Admin             string    `json:"admin"`
	FeeCollector      string    `json:"fee_collector"`
	ReserveAccount    string    `json:"reserve_account"`
	BasePriceUSDMicro uint64    `json:"base_price_usd_micro"`
	AnnualIncreaseBPS uint16    `json:"annual_increase_bps"`
	UpdateFeeBPS      uint16    `json:"update_fee_bps"`
	NativeUSDFeed     string    `json:"native_usd_feed"`
	PoolTokenReserve  string    `json:"pool_token_reserve,omitempty"`
	PoolNativeReserve string    `json:"pool_native_reserve,omitempty"`
	KeeperReward      uint64    `json:"keeper_reward_native"`
	RecordDeposit     uint64    `json:"record_deposit_native"`
	ReserveFloor      uint64    `json:"reserve_floor_native"`
	LaunchAt          time.Time `json:"launch_at"`
	Paused            bool      `json:"paused"`
	Phase             uint8     `json:"phase"`
}

func fromConfig(cfg *models.ProtocolConfig) ConfigResponse {
	return ConfigResponse{
		Version:           cfg.Version,
		Admin:             cfg.Admin.String(),
		FeeCollector:      cfg.FeeCollector.String(),
		ReserveAccount:    cfg.ReserveAccount.String(),
		BasePriceUSDMicro: cfg.BasePriceUSDMicro,
		AnnualIncreaseBPS: cfg.AnnualIncreaseBPS,
		UpdateFeeBPS:      cfg.UpdateFeeBPS,
		NativeUSDFeed:     cfg.NativeUSDFeed.String(),
		PoolTokenReserve:  cfg.PoolTokenReserve.String(),
		PoolNativeReserve: cfg.PoolNativeReserve.String(),
		KeeperReward:      cfg.KeeperRewardNative,
		RecordDeposit:     cfg.RecordDepositNative,
		ReserveFloor:      cfg.ReserveFloorNative,
		LaunchAt:          cfg.LaunchAt,
		Paused:            cfg.Paused,
		Phase:             cfg.Phase,
	}
}
