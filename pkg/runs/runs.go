// Package runs keeps a history of smoke reports in Postgres. Reports are
// stored after redaction; the API key is never written.
package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const schema = `CREATE TABLE IF NOT EXISTS smoke_runs (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	report     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Run struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Report    string    `db:"report"`
	CreatedAt time.Time `db:"created_at"`
}

type Repository interface {
	Save(ctx context.Context, id, kind string, report any) error
	Recent(ctx context.Context, kind string, limit int) ([]Run, error)
}

func NewPgRepository(db *sql.DB) *PgRepository {
	return &PgRepository{db: sqlx.NewDb(db, "pgx")}
}

type PgRepository struct {
	db *sqlx.DB
}

var _ Repository = (*PgRepository)(nil)

func (r *PgRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create smoke_runs table: %w", err)
	}

	return nil
}

func (r *PgRepository) Save(ctx context.Context, id, kind string, report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	query := r.db.Rebind(`INSERT INTO smoke_runs (id, kind, report) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, id, kind, data); err != nil {
		return fmt.Errorf("insert run %s: %w", id, err)
	}

	return nil
}

// Recent returns the latest runs, newest first. An empty kind matches every
// kind.
func (r *PgRepository) Recent(ctx context.Context, kind string, limit int) ([]Run, error) {
	var runs []Run

	query := r.db.Rebind(`SELECT id, kind, report::text AS report, created_at FROM smoke_runs
		WHERE (?::text = '' OR kind = ?)
		ORDER BY created_at DESC
		LIMIT ?`)

	if err := r.db.SelectContext(ctx, &runs, query, kind, kind, limit); err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}

	return runs, nil
}
