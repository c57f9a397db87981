package repository

import (
	"context"
	"fmt"
	"strings"

	"rto-ops-api/internal/model"
)

// InsertReturnBatch writes one batch of normalized return rows as a single
// multi-row insert that skips natural-key conflicts. One statement per batch
// is a throughput requirement; row-by-row inserts would be correct but far
// too slow for report-sized files.
func (s *Store) InsertReturnBatch(ctx context.Context, table, keyColumn string, records []model.ReturnRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	columns := records[0].Columns()
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"

	var b strings.Builder
	b.WriteString(s.insertIgnore())
	b.WriteString(" ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(records)*len(columns))
	for i, rec := range records {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder)
		args = append(args, rec.Values()...)
	}

	result, err := s.db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s batch: %w", table, err)
	}

	// Ignored duplicates do not count toward RowsAffected on either backend,
	// so this is the number of rows actually inserted.
	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted count: %w", err)
	}
	return inserted, nil
}

// CountReturns reports the number of staged rows in one marketplace table.
func (s *Store) CountReturns(ctx context.Context, table string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
