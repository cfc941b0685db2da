package symbol

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"tns/internal/registry/models"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

// PostgresStore persists symbol records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed symbol store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by the deployment's migration tooling; kept here so the
// store and its table definition travel together.
const Schema = `
CREATE TABLE IF NOT EXISTS symbol_records (
    symbol        TEXT PRIMARY KEY,
    mint          TEXT NOT NULL,
    owner_id      TEXT NOT NULL,
    registered_at TIMESTAMPTZ NOT NULL,
    expires_at    TIMESTAMPTZ NOT NULL,
    CHECK (expires_at > registered_at)
);
CREATE INDEX IF NOT EXISTS symbol_records_expires_at_idx ON symbol_records (expires_at);
`

func (s *PostgresStore) Get(ctx context.Context, symbol id.Symbol) (*models.SymbolRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT symbol, mint, owner_id, registered_at, expires_at
		 FROM symbol_records WHERE symbol = $1`,
		symbol.String(),
	)
	record := &models.SymbolRecord{}
	err := row.Scan(&record.Symbol, &record.Mint, &record.Owner, &record.RegisteredAt, &record.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get symbol record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Create(ctx context.Context, record *models.SymbolRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO symbol_records (symbol, mint, owner_id, registered_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.Symbol.String(), record.Mint.String(), record.Owner.String(),
		record.RegisteredAt, record.ExpiresAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return dErrors.Newf(dErrors.CodeSymbolExists, "symbol %q is already registered", record.Symbol)
	}
	if err != nil {
		return fmt.Errorf("create symbol record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, record *models.SymbolRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE symbol_records
		 SET mint = $2, owner_id = $3, registered_at = $4, expires_at = $5
		 WHERE symbol = $1`,
		record.Symbol.String(), record.Mint.String(), record.Owner.String(),
		record.RegisteredAt, record.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("update symbol record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update symbol record: %w", err)
	}
	if affected == 0 {
		return dErrors.Newf(dErrors.CodeSymbolNotFound, "symbol %q is not registered", record.Symbol)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, symbol id.Symbol) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM symbol_records WHERE symbol = $1`, symbol.String(),
	)
	if err != nil {
		return fmt.Errorf("delete symbol record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete symbol record: %w", err)
	}
	if affected == 0 {
		return dErrors.Newf(dErrors.CodeSymbolNotFound, "symbol %q is not registered", symbol)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.SymbolRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, mint, owner_id, registered_at, expires_at
		 FROM symbol_records ORDER BY symbol`,
	)
	if err != nil {
		return nil, fmt.Errorf("list symbol records: %w", err)
	}
	defer rows.Close()

	var out []*models.SymbolRecord
	for rows.Next() {
		record := &models.SymbolRecord{}
		if err := rows.Scan(&record.Symbol, &record.Mint, &record.Owner, &record.RegisteredAt, &record.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan symbol record: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list symbol records: %w", err)
	}
	return out, nil
}
