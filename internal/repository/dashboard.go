package repository

import (
	"context"
	"fmt"

	"rto-ops-api/internal/model"
)

// ConditionSummary aggregates submissions per marketplace and condition.
func (s *Store) ConditionSummary(ctx context.Context) ([]model.MarketplaceSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT marketplace, item_condition, COUNT(*), COALESCE(SUM(quantity), 0)
		FROM rto_submissions
		GROUP BY marketplace, item_condition
		ORDER BY marketplace, item_condition`)
	if err != nil {
		return nil, fmt.Errorf("failed to query condition summary: %w", err)
	}
	defer rows.Close()

	var out []model.MarketplaceSummary
	for rows.Next() {
		var row model.MarketplaceSummary
		if err := rows.Scan(&row.Marketplace, &row.Condition, &row.Count, &row.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MonthlyBreakdown aggregates submissions per calendar month, newest first.
// months caps how far back the report goes; zero means all history.
func (s *Store) MonthlyBreakdown(ctx context.Context, months int) ([]model.MonthlyBreakdown, error) {
	query := fmt.Sprintf(
		`SELECT %s AS month, COUNT(*), COALESCE(SUM(quantity), 0),
			COALESCE(SUM(is_inventory_updated), 0)
		FROM rto_submissions
		GROUP BY month
		ORDER BY month DESC`, s.monthExpr())

	args := []any{}
	if months > 0 {
		query += " LIMIT ?"
		args = append(args, months)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly breakdown: %w", err)
	}
	defer rows.Close()

	var out []model.MonthlyBreakdown
	for rows.Next() {
		var row model.MonthlyBreakdown
		if err := rows.Scan(&row.Month, &row.Count, &row.Quantity, &row.Processed); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
