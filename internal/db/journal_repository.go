package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/tradecraft/internal/game/market"
)

// JournalTotals aggregates journal rows of one kind.
type JournalTotals struct {
	Committed int64
	Rejected  int64
	Amount    int64 // sum of amount over committed rows
}

// JournalRepository stores exchange outcomes in PostgreSQL.
// It implements market.Journal.
type JournalRepository struct {
	db *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

// Record inserts one journal entry.
func (r *JournalRepository) Record(ctx context.Context, e market.Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO exchange_journal
			(kind, source_id, target_id, subject, amount, success, message, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(e.Kind), e.Source, e.Target, e.Subject, int64(e.Amount), e.Success, e.Message, e.At,
	)
	if err != nil {
		return fmt.Errorf("inserting %s journal entry %s->%s: %w", e.Kind, e.Source, e.Target, err)
	}
	return nil
}

// RecordBatch bulk-inserts entries using COPY.
func (r *JournalRepository) RecordBatch(ctx context.Context, entries []market.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			string(e.Kind), e.Source, e.Target, e.Subject, int64(e.Amount), e.Success, e.Message, e.At,
		})
	}

	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"exchange_journal"},
		[]string{"kind", "source_id", "target_id", "subject", "amount", "success", "message", "recorded_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying %d journal entries: %w", len(entries), err)
	}
	return nil
}

// Totals returns per-kind counts of committed and rejected exchanges.
func (r *JournalRepository) Totals(ctx context.Context) (map[market.Kind]JournalTotals, error) {
	rows, err := r.db.Query(ctx, `
		SELECT kind,
		       COUNT(*) FILTER (WHERE success),
		       COUNT(*) FILTER (WHERE NOT success),
		       COALESCE(SUM(amount) FILTER (WHERE success), 0)::BIGINT
		FROM exchange_journal
		GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("querying journal totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[market.Kind]JournalTotals)
	for rows.Next() {
		var kind string
		var t JournalTotals
		if err := rows.Scan(&kind, &t.Committed, &t.Rejected, &t.Amount); err != nil {
			return nil, fmt.Errorf("scanning journal totals: %w", err)
		}
		totals[market.Kind(kind)] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal totals: %w", err)
	}
	return totals, nil
}

// Purge deletes all journal rows.
func (r *JournalRepository) Purge(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `TRUNCATE exchange_journal`); err != nil {
		return fmt.Errorf("truncating journal: %w", err)
	}
	return nil
}

var _ market.Journal = (*JournalRepository)(nil)
