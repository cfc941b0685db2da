package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tns/internal/registry/classify"
	"tns/internal/registry/events"
	"tns/internal/registry/models"
	"tns/internal/registry/oracle"
	"tns/internal/registry/store/protocol"
	"tns/internal/registry/store/symbol"
	id "tns/pkg/domain"
)

// Test identities shared by the service tests.
const (
	testAdmin     = id.Identity("admin")
	testAlice     = id.Identity("alice")
	testBob       = id.Identity("bob")
	testCollector = id.Identity("fee-collector")
	testReserve   = id.Identity("reserve-account")
	testFeed      = id.FeedRef("native-usd-feed")
)

var testLaunch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// transfer is one movement the fake treasury recorded.
type transfer struct {
	from, to id.Identity
	amount   uint64
	currency models.Currency
}

type fakeTreasury struct {
	transfers []transfer
	failNext  error
}

func (f *fakeTreasury) Transfer(_ context.Context, from, to id.Identity, amount uint64, currency models.Currency) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.transfers = append(f.transfers, transfer{from: from, to: to, amount: amount, currency: currency})
	return nil
}

func (f *fakeTreasury) total(to id.Identity, currency models.Currency) uint64 {
	var sum uint64
	for _, tr := range f.transfers {
		if tr.to == to && tr.currency == currency {
			sum += tr.amount
		}
	}
	return sum
}

type tokenState struct {
	meta      models.TokenMetadata
	authority id.Identity
	supply    uint64
	balances  map[id.Identity]uint64
}

type fakeInspector struct {
	tokens map[id.TokenRef]*tokenState
}

func newFakeInspector() *fakeInspector {
	return &fakeInspector{tokens: make(map[id.TokenRef]*tokenState)}
}

func (f *fakeInspector) addToken(ref id.TokenRef, symbol string, authority id.Identity) *tokenState {
	state := &tokenState{
		meta:      models.TokenMetadata{Symbol: symbol, UpdateAuthority: authority},
		authority: authority,
		balances:  make(map[id.Identity]uint64),
	}
	f.tokens[ref] = state
	return state
}

func (f *fakeInspector) Metadata(_ context.Context, ref id.TokenRef) (models.TokenMetadata, error) {
	state, ok := f.tokens[ref]
	if !ok {
		return models.TokenMetadata{}, errNoToken(ref)
	}
	return state.meta, nil
}

func (f *fakeInspector) AuthorityAndSupply(_ context.Context, ref id.TokenRef) (id.Identity, uint64, error) {
	state, ok := f.tokens[ref]
	if !ok {
		return "", 0, errNoToken(ref)
	}
	return state.authority, state.supply, nil
}

func (f *fakeInspector) BalanceOf(_ context.Context, ref id.TokenRef, holder id.Identity) (uint64, error) {
	state, ok := f.tokens[ref]
	if !ok {
		return 0, errNoToken(ref)
	}
	return state.balances[holder], nil
}

type tokenErr id.TokenRef

func errNoToken(ref id.TokenRef) error { return tokenErr(ref) }

func (e tokenErr) Error() string { return "unknown token " + string(e) }

type fakePools struct {
	reserves map[id.PoolRef]uint64
}

func (f *fakePools) Reserve(_ context.Context, ref id.PoolRef) (uint64, error) {
	return f.reserves[ref], nil
}

// fixture bundles a service wired to fakes with every knob reachable.
type fixture struct {
	svc       *Service
	clock     *fixedClock
	symbols   *symbol.MemoryStore
	protocol  *protocol.MemoryStore
	classify  *classify.Source
	oracle    *oracle.StaticOracle
	pools     *fakePools
	treasury  *fakeTreasury
	inspector *fakeInspector
	published *events.MemoryPublisher
}

func defaultConfig() *models.ProtocolConfig {
	return &models.ProtocolConfig{
		Version:             1,
		Admin:               testAdmin,
		FeeCollector:        testCollector,
		ReserveAccount:      testReserve,
		BasePriceUSDMicro:   10_000_000, // $10.00
		AnnualIncreaseBPS:   700,
		UpdateFeeBPS:        5000,
		NativeUSDFeed:       testFeed,
		KeeperRewardNative:  10_000_000,
		RecordDepositNative: 2_000_000,
		ReserveFloorNative:  1_000_000,
		LaunchAt:            testLaunch,
		Phase:               models.PhaseFull,
	}
}

func newFixture(t *testing.T, cfg *models.ProtocolConfig) *fixture {
	t.Helper()

	f := &fixture{
		clock:     &fixedClock{now: testLaunch},
		symbols:   symbol.NewMemory(),
		protocol:  protocol.NewMemory(),
		classify:  classify.NewEmpty(),
		oracle:    oracle.NewStatic(),
		pools:     &fakePools{reserves: make(map[id.PoolRef]uint64)},
		treasury:  &fakeTreasury{},
		inspector: newFakeInspector(),
		published: events.NewMemoryPublisher(),
	}
	if cfg != nil {
		require.NoError(t, f.protocol.Put(context.Background(), cfg))
	}

	// $200.00 per native unit, freshly published.
	f.oracle.SetPrice(testFeed, 200, 0, f.clock.now)

	svc, err := New(
		f.symbols,
		f.protocol,
		f.classify,
		f.oracle,
		f.pools,
		f.treasury,
		f.inspector,
		WithClock(f.clock),
		WithEventPublisher(f.published),
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

// register creates ABC for alice with sensible defaults.
func (f *fixture) register(t *testing.T) *models.RegisterResult {
	t.Helper()
	f.inspector.addToken("mint-abc", "ABC", testAlice)
	result, err := f.svc.Register(context.Background(), RegisterRequest{
		Payer:    testAlice,
		Symbol:   "ABC",
		Mint:     "mint-abc",
		Years:    1,
		Currency: models.CurrencyUSDC,
	})
	require.NoError(t, err)
	return result
}

func (f *fixture) lastEvent(t *testing.T) events.Event {
	t.Helper()
	all := f.published.Events()
	require.NotEmpty(t, all)
	return all[len(all)-1]
}
