package handler

import (
	"strings"

	"tns/internal/registry/models"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// paymentFields are the fee knobs shared by every paying request.
type paymentFields struct {
	Currency        string `json:"currency"`
	MaxCost         uint64 `json:"max_cost,omitempty"`
	PlatformFeeBPS  uint16 `json:"platform_fee_bps,omitempty"`
	PlatformAccount string `json:"platform_account,omitempty"`
}

func (p *paymentFields) validate() error {
	p.Currency = strings.TrimSpace(p.Currency)
	if p.Currency == "" {
		p.Currency = string(models.CurrencyNative)
	}
	if !models.Currency(p.Currency).IsValid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unsupported currency %q", p.Currency)
	}
	return nil
}

func (p *paymentFields) currency() models.Currency {
	return models.Currency(p.Currency)
}

// RegisterRequest is the body for POST /registry/symbols.
type RegisterRequest struct {
	Payer  string `json:"payer"`
	Symbol string `json:"symbol"`
	Mint   string `json:"mint"`
	Years  uint8  `json:"years"`
	paymentFields
}

func (r *RegisterRequest) Validate() error {
	r.Payer = strings.TrimSpace(r.Payer)
	if r.Payer == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "payer is required")
	}
	r.Mint = strings.TrimSpace(r.Mint)
	if r.Mint == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "mint is required")
	}
	return r.paymentFields.validate()
}

// RenewRequest is the body for POST /registry/symbols/{symbol}/renew.
type RenewRequest struct {
	Payer string `json:"payer"`
	Years uint8  `json:"years"`
	paymentFields
}

func (r *RenewRequest) Validate() error {
	r.Payer = strings.TrimSpace(r.Payer)
	if r.Payer == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "payer is required")
	}
	return r.paymentFields.validate()
}

// ClaimRequest is the body for POST /registry/symbols/{symbol}/claim.
type ClaimRequest struct {
	Claimant string `json:"claimant"`
	Mint     string `json:"mint"`
	Years    uint8  `json:"years"`
	paymentFields
}

func (r *ClaimRequest) Validate() error {
	r.Claimant = strings.TrimSpace(r.Claimant)
	if r.Claimant == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "claimant is required")
	}
	r.Mint = strings.TrimSpace(r.Mint)
	if r.Mint == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "mint is required")
	}
	return r.paymentFields.validate()
}

// UpdateMintRequest is the body for POST /registry/symbols/{symbol}/mint.
type UpdateMintRequest struct {
	Owner string `json:"owner"`
	Mint  string `json:"mint"`
	paymentFields
}

func (r *UpdateMintRequest) Validate() error {
	r.Owner = strings.TrimSpace(r.Owner)
	if r.Owner == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "owner is required")
	}
	r.Mint = strings.TrimSpace(r.Mint)
	if r.Mint == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "mint is required")
	}
	return r.paymentFields.validate()
}

// TransferRequest is the body for POST /registry/symbols/{symbol}/transfer.
type TransferRequest struct {
	Owner    string `json:"owner"`
	NewOwner string `json:"new_owner"`
}

func (r *TransferRequest) Validate() error {
	r.Owner = strings.TrimSpace(r.Owner)
	r.NewOwner = strings.TrimSpace(r.NewOwner)
	if r.Owner == "" || r.NewOwner == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "owner and new_owner are required")
	}
	return nil
}

// ClaimOwnershipRequest is the body for
// POST /registry/symbols/{symbol}/claim-ownership.
type ClaimOwnershipRequest struct {
	Claimant string `json:"claimant"`
}

func (r *ClaimOwnershipRequest) Validate() error {
	r.Claimant = strings.TrimSpace(r.Claimant)
	if r.Claimant == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "claimant is required")
	}
	return nil
}

// KeeperRequest is the body for the cleanup endpoints.
type KeeperRequest struct {
	Keeper string `json:"keeper"`
}

func (r *KeeperRequest) Validate() error {
	r.Keeper = strings.TrimSpace(r.Keeper)
	if r.Keeper == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "keeper is required")
	}
	return nil
}

// InitializeRequest is the body for POST /admin/initialize.
type InitializeRequest struct {
	Admin             string `json:"admin"`
	FeeCollector      string `json:"fee_collector"`
	ReserveAccount    string `json:"reserve_account"`
	BasePriceUSDMicro uint64 `json:"base_price_usd_micro"`
	AnnualIncreaseBPS uint16 `json:"annual_increase_bps"`
	UpdateFeeBPS      uint16 `json:"update_fee_bps"`
	NativeUSDFeed     string `json:"native_usd_feed"`

	KeeperRewardNative  uint64 `json:"keeper_reward_native"`
	RecordDepositNative uint64 `json:"record_deposit_native"`
	ReserveFloorNative  uint64 `json:"reserve_floor_native"`

	LaunchAtUnix int64 `json:"launch_at_unix,omitempty"`
}

func (r *InitializeRequest) Validate() error {
	for name, value := range map[string]*string{
		"admin":           &r.Admin,
		"fee_collector":   &r.FeeCollector,
		"reserve_account": &r.ReserveAccount,
		"native_usd_feed": &r.NativeUSDFeed,
	} {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			return dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", name)
		}
	}
	return nil
}

// UpdateConfigRequest is the body for PATCH /admin/config. Absent fields keep
// their current values.
type UpdateConfigRequest struct {
	Actor string `json:"actor"`

	NewAdmin     *string `json:"new_admin,omitempty"`
	FeeCollector *string `json:"fee_collector,omitempty"`
	Paused       *bool   `json:"paused,omitempty"`
	Phase        *uint8  `json:"phase,omitempty"`

	BasePriceUSDMicro *uint64 `json:"base_price_usd_micro,omitempty"`
	AnnualIncreaseBPS *uint16 `json:"annual_increase_bps,omitempty"`
	UpdateFeeBPS      *uint16 `json:"update_fee_bps,omitempty"`

	NativeUSDFeed     *string `json:"native_usd_feed,omitempty"`
	PoolTokenReserve  *string `json:"pool_token_reserve,omitempty"`
	PoolNativeReserve *string `json:"pool_native_reserve,omitempty"`

	KeeperRewardNative  *uint64 `json:"keeper_reward_native,omitempty"`
	RecordDepositNative *uint64 `json:"record_deposit_native,omitempty"`
	ReserveFloorNative  *uint64 `json:"reserve_floor_native,omitempty"`
}

func (r *UpdateConfigRequest) Validate() error {
	r.Actor = strings.TrimSpace(r.Actor)
	if r.Actor == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "actor is required")
	}
	return nil
}

// SeedSymbolRequest is the body for POST /admin/symbols.
type SeedSymbolRequest struct {
	Actor  string `json:"actor"`
	Symbol string `json:"symbol"`
	Mint   string `json:"mint"`
	Owner  string `json:"owner,omitempty"`
}

func (r *SeedSymbolRequest) Validate() error {
	r.Actor = strings.TrimSpace(r.Actor)
	if r.Actor == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "actor is required")
	}
	r.Mint = strings.TrimSpace(r.Mint)
	if r.Mint == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "mint is required")
	}
	return nil
}

func identityPtr(s *string) *id.Identity {
	if s == nil {
		return nil
	}
	v := id.Identity(strings.TrimSpace(*s))
	return &v
}

func feedPtr(s *string) *id.FeedRef {
	if s == nil {
		return nil
	}
	v := id.FeedRef(strings.TrimSpace(*s))
	return &v
}

func poolPtr(s *string) *id.PoolRef {
	if s == nil {
		return nil
	}
	v := id.PoolRef(strings.TrimSpace(*s))
	return &v
}
