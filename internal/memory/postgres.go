package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPersister stores each user's record as a single JSONB row and
// replaces it wholesale on every save.
type PostgresPersister struct {
	pool *pgxpool.Pool
}

func NewPostgresPersister(ctx context.Context, databaseURL string) (*PostgresPersister, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresPersister{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS career_records (
			user_id TEXT PRIMARY KEY,
			record JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_career_records_updated ON career_records (updated_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (p *PostgresPersister) LoadAll(ctx context.Context) (map[string]*PersistentRecord, error) {
	rows, err := p.pool.Query(ctx, `SELECT user_id, record FROM career_records`)
	if err != nil {
		return nil, fmt.Errorf("query career records: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*PersistentRecord)
	for rows.Next() {
		var userID string
		var payload []byte
		if err := rows.Scan(&userID, &payload); err != nil {
			return nil, fmt.Errorf("scan career record: %w", err)
		}
		var rec PersistentRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode career record for %s: %w", userID, err)
		}
		records[userID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate career records: %w", err)
	}
	return records, nil
}

func (p *PostgresPersister) Save(ctx context.Context, rec *PersistentRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode career record: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO career_records (user_id, record, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET record = EXCLUDED.record, updated_at = EXCLUDED.updated_at`,
		rec.UserID,
		payload,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save career record: %w", err)
	}
	return nil
}

func (p *PostgresPersister) Close() error {
	p.pool.Close()
	return nil
}
