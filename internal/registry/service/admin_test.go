package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tns/internal/registry/models"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

func initReq() InitializeRequest {
	return InitializeRequest{
		Admin:               testAdmin,
		FeeCollector:        testCollector,
		ReserveAccount:      testReserve,
		BasePriceUSDMicro:   10_000_000,
		AnnualIncreaseBPS:   700,
		UpdateFeeBPS:        5000,
		NativeUSDFeed:       testFeed,
		KeeperRewardNative:  10_000_000,
		RecordDepositNative: 2_000_000,
		ReserveFloorNative:  1_000_000,
	}
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstraps paused in genesis", func(t *testing.T) {
		f := newFixture(t, nil)
		cfg, err := f.svc.Initialize(ctx, initReq())
		require.NoError(t, err)

		assert.Equal(t, uint64(1), cfg.Version)
		assert.True(t, cfg.Paused)
		assert.Equal(t, models.PhaseGenesis, cfg.Phase)
		assert.Equal(t, f.clock.now, cfg.LaunchAt, "launch defaults to now")
	})

	t.Run("cannot initialize twice", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.svc.Initialize(ctx, initReq())
		require.NoError(t, err)
		_, err = f.svc.Initialize(ctx, initReq())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("required identities", func(t *testing.T) {
		f := newFixture(t, nil)
		req := initReq()
		req.Admin = ""
		_, err := f.svc.Initialize(ctx, req)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestUpdateConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("admin only", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		_, err := f.svc.UpdateConfig(ctx, UpdateConfigRequest{Actor: testAlice})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAdmin))
	})

	t.Run("phase only advances", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Phase = models.PhaseOpen
		f := newFixture(t, cfg)

		down := models.PhaseGenesis
		_, err := f.svc.UpdateConfig(ctx, UpdateConfigRequest{Actor: testAdmin, Phase: &down})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidPhase))

		up := models.PhaseFull
		updated, err := f.svc.UpdateConfig(ctx, UpdateConfigRequest{Actor: testAdmin, Phase: &up})
		require.NoError(t, err)
		assert.Equal(t, models.PhaseFull, updated.Phase)
		assert.Equal(t, uint64(2), updated.Version)
	})

	t.Run("admin rotation hands control over", func(t *testing.T) {
		f := newFixture(t, defaultConfig())

		newAdmin := testBob
		_, err := f.svc.UpdateConfig(ctx, UpdateConfigRequest{Actor: testAdmin, NewAdmin: &newAdmin})
		require.NoError(t, err)

		paused := true
		_, err = f.svc.UpdateConfig(ctx, UpdateConfigRequest{Actor: testAdmin, Paused: &paused})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAdmin), "the old admin is out")

		_, err = f.svc.UpdateConfig(ctx, UpdateConfigRequest{Actor: testBob, Paused: &paused})
		require.NoError(t, err)
	})

	t.Run("pool reserves travel together", func(t *testing.T) {
		f := newFixture(t, defaultConfig())

		tokenPool := id.PoolRef("pool-token")
		_, err := f.svc.UpdateConfig(ctx, UpdateConfigRequest{Actor: testAdmin, PoolTokenReserve: &tokenPool})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

		nativePool := id.PoolRef("pool-native")
		updated, err := f.svc.UpdateConfig(ctx, UpdateConfigRequest{
			Actor:             testAdmin,
			PoolTokenReserve:  &tokenPool,
			PoolNativeReserve: &nativePool,
		})
		require.NoError(t, err)
		assert.True(t, updated.HasTokenOracle())
	})

	t.Run("unpausing opens user operations", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Paused = true
		f := newFixture(t, cfg)
		f.inspector.addToken("mint-abc", "ABC", testAlice)

		unpaused := false
		_, err := f.svc.UpdateConfig(ctx, UpdateConfigRequest{Actor: testAdmin, Paused: &unpaused})
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, RegisterRequest{
			Payer:    testAlice,
			Symbol:   "ABC",
			Mint:     "mint-abc",
			Years:    1,
			Currency: models.CurrencyUSDC,
		})
		require.NoError(t, err)
	})
}

func TestSeedSymbol(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds a ten year record for the mint authority without payment", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Paused = true // seeding works while paused
		f := newFixture(t, cfg)
		f.inspector.addToken("mint-usdx", "USDX", testBob)

		result, err := f.svc.SeedSymbol(ctx, SeedSymbolRequest{
			Actor:  testAdmin,
			Symbol: "USDX",
			Mint:   "mint-usdx",
		})
		require.NoError(t, err)
		assert.Equal(t, testBob, result.Record.Owner)
		assert.Equal(t, f.clock.now.Add(10*models.Year), result.Record.ExpiresAt)
		assert.Empty(t, f.treasury.transfers, "seeding collects nothing")
	})

	t.Run("explicit owner wins over the mint authority", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.inspector.addToken("mint-usdx", "USDX", testBob)

		result, err := f.svc.SeedSymbol(ctx, SeedSymbolRequest{
			Actor:  testAdmin,
			Symbol: "USDX",
			Mint:   "mint-usdx",
			Owner:  testAlice,
		})
		require.NoError(t, err)
		assert.Equal(t, testAlice, result.Record.Owner)
	})

	t.Run("admin only", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		_, err := f.svc.SeedSymbol(ctx, SeedSymbolRequest{
			Actor:  testAlice,
			Symbol: "USDX",
			Mint:   "mint-usdx",
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAdmin))
	})

	t.Run("metadata must match", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.inspector.addToken("mint-usdx", "OTHER", testBob)
		_, err := f.svc.SeedSymbol(ctx, SeedSymbolRequest{
			Actor:  testAdmin,
			Symbol: "USDX",
			Mint:   "mint-usdx",
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMetadataMismatch))
	})
}

func TestAdminCloseSymbol(t *testing.T) {
	ctx := context.Background()

	t.Run("force closes an active record without paying anyone", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)
		before := len(f.treasury.transfers)

		result, err := f.svc.AdminCloseSymbol(ctx, testAdmin, "ABC")
		require.NoError(t, err)
		assert.Equal(t, testAlice, result.PreviousOwner)
		assert.Zero(t, result.RewardPaid)
		assert.Len(t, f.treasury.transfers, before)

		got, err := f.symbols.Get(ctx, "ABC")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("admin only", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t)
		_, err := f.svc.AdminCloseSymbol(ctx, testAlice, "ABC")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAdmin))
	})
}
