//go:build integration

package symbol_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tns/internal/registry/models"
	"tns/internal/registry/store/symbol"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
	"tns/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *symbol.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	_, err := s.postgres.DB.ExecContext(context.Background(), symbol.Schema)
	s.Require().NoError(err)
	s.store = symbol.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "symbol_records"))
}

func (s *PostgresStoreSuite) record(sym string) *models.SymbolRecord {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.SymbolRecord{
		Symbol:       id.Symbol(sym),
		Mint:         "mint-" + id.TokenRef(sym),
		Owner:        "owner-1",
		RegisteredAt: now,
		ExpiresAt:    now.Add(models.Year),
	}
}

func (s *PostgresStoreSuite) TestCreateAndGet() {
	ctx := context.Background()
	record := s.record("ABC")

	s.Require().NoError(s.store.Create(ctx, record))

	got, err := s.store.Get(ctx, record.Symbol)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(record.Symbol, got.Symbol)
	s.Equal(record.Mint, got.Mint)
	s.Equal(record.Owner, got.Owner)
	s.WithinDuration(record.ExpiresAt, got.ExpiresAt, time.Millisecond)
}

func (s *PostgresStoreSuite) TestGetUnknownReturnsNil() {
	got, err := s.store.Get(context.Background(), "NOPE")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *PostgresStoreSuite) TestDuplicateCreateConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.record("ABC")))

	err := s.store.Create(ctx, s.record("ABC"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSymbolExists))
}

func (s *PostgresStoreSuite) TestConcurrentCreateSingleWinner() {
	ctx := context.Background()
	const racers = 20

	var wg sync.WaitGroup
	var created atomic.Int32
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.store.Create(ctx, s.record("RACE")); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
}

func (s *PostgresStoreSuite) TestUpdate() {
	ctx := context.Background()
	record := s.record("ABC")
	s.Require().NoError(s.store.Create(ctx, record))

	record.Owner = "owner-2"
	record.ExpiresAt = record.ExpiresAt.Add(models.Year)
	s.Require().NoError(s.store.Update(ctx, record))

	got, err := s.store.Get(ctx, record.Symbol)
	s.Require().NoError(err)
	s.Equal(id.Identity("owner-2"), got.Owner)
	s.WithinDuration(record.ExpiresAt, got.ExpiresAt, time.Millisecond)
}

func (s *PostgresStoreSuite) TestUpdateMissing() {
	err := s.store.Update(context.Background(), s.record("GHOST"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSymbolNotFound))
}

func (s *PostgresStoreSuite) TestDeleteFreesSymbol() {
	ctx := context.Background()
	record := s.record("ABC")
	s.Require().NoError(s.store.Create(ctx, record))
	s.Require().NoError(s.store.Delete(ctx, record.Symbol))

	got, err := s.store.Get(ctx, record.Symbol)
	s.Require().NoError(err)
	s.Nil(got)

	s.Require().NoError(s.store.Create(ctx, s.record("ABC")))
}

func (s *PostgresStoreSuite) TestDeleteMissing() {
	err := s.store.Delete(context.Background(), "GHOST")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSymbolNotFound))
}

func (s *PostgresStoreSuite) TestListOrdersBySymbol() {
	ctx := context.Background()
	for _, sym := range []string{"ZEBRA", "ABC", "MID"} {
		s.Require().NoError(s.store.Create(ctx, s.record(sym)))
	}

	records, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal(id.Symbol("ABC"), records[0].Symbol)
	s.Equal(id.Symbol("MID"), records[1].Symbol)
	s.Equal(id.Symbol("ZEBRA"), records[2].Symbol)
}
