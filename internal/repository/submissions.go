package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rto-ops-api/internal/model"
)

// CreateSubmission inserts a new RTO submission and backfills its id.
func (s *Store) CreateSubmission(ctx context.Context, sub *model.RtoSubmission) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO rto_submissions
			(marketplace, pickup_partner, order_id, awb_number, sku_code, quantity,
			item_condition, claim_status, remarks, submitted_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.Marketplace, nullIfEmpty(sub.PickupPartner), nullIfEmpty(sub.OrderID),
		nullIfEmpty(sub.AwbNumber), sub.SkuCode, sub.Quantity,
		sub.ItemCondition, sub.ClaimStatus, nullIfEmpty(sub.Remarks),
		nullIfEmpty(sub.SubmittedBy), fmtTime(sub.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read submission id: %w", err)
	}
	sub.ID = id
	return nil
}

// ListSubmissions returns submissions newest first, narrowed by the filter.
func (s *Store) ListSubmissions(ctx context.Context, f SubmissionFilter) ([]model.RtoSubmission, error) {
	var conds []string
	var args []any

	if f.Marketplace != "" {
		conds = append(conds, "marketplace = ?")
		args = append(args, f.Marketplace)
	}
	if f.ItemCondition != "" {
		conds = append(conds, "item_condition = ?")
		args = append(args, f.ItemCondition)
	}
	if f.PendingInventory {
		conds = append(conds, "is_inventory_updated = 0")
	}

	query := `SELECT id, marketplace, pickup_partner, order_id, awb_number, sku_code,
			quantity, item_condition, claim_status, remarks, submitted_by, created_at,
			is_inventory_updated, inventory_updated_by, inventory_updated_at,
			is_claim_resolved, claim_resolved_by, claim_resolved_at
		FROM rto_submissions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if f.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []model.RtoSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// MarkClaimResolved records the claim outcome exactly once. The guard on the
// resolved flag keeps the transition one-way; a second call is a no-op error.
func (s *Store) MarkClaimResolved(ctx context.Context, id int64, status, actor string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE rto_submissions
		SET claim_status = ?, is_claim_resolved = 1, claim_resolved_by = ?, claim_resolved_at = ?
		WHERE id = ? AND is_claim_resolved = 0`,
		status, actor, fmtTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to resolve claim for submission %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("submission %d not found or claim already resolved", id)
	}
	return nil
}

// ListAdjustments returns the audit trail for one submission in insert order.
func (s *Store) ListAdjustments(ctx context.Context, submissionID int64) ([]model.InventoryAdjustment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, submission_id, sku_id, sku_code, slot_id, quantity, source,
			marketplace, awb_number, adjusted_by, adjusted_at
		FROM inventory_adjustments
		WHERE submission_id = ?
		ORDER BY id`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	defer rows.Close()

	var adjs []model.InventoryAdjustment
	for rows.Next() {
		var adj model.InventoryAdjustment
		var skuCode, marketplace, awb, by, at sql.NullString
		if err := rows.Scan(&adj.ID, &adj.SubmissionID, &adj.SkuID, &skuCode, &adj.SlotID,
			&adj.Quantity, &adj.Source, &marketplace, &awb, &by, &at); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		adj.SkuCode = skuCode.String
		adj.Marketplace = marketplace.String
		adj.AwbNumber = awb.String
		adj.AdjustedBy = by.String
		if ts := parseDBTime(at); ts != nil {
			adj.AdjustedAt = *ts
		}
		adjs = append(adjs, adj)
	}
	return adjs, rows.Err()
}

func scanSubmission(rows *sql.Rows) (*model.RtoSubmission, error) {
	var sub model.RtoSubmission
	var partner, orderID, awb, remarks, submittedBy sql.NullString
	var createdAt, invBy, invAt, claimBy, claimAt sql.NullString

	err := rows.Scan(&sub.ID, &sub.Marketplace, &partner, &orderID, &awb, &sub.SkuCode,
		&sub.Quantity, &sub.ItemCondition, &sub.ClaimStatus, &remarks, &submittedBy, &createdAt,
		&sub.IsInventoryUpdated, &invBy, &invAt,
		&sub.IsClaimResolved, &claimBy, &claimAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	sub.PickupPartner = partner.String
	sub.OrderID = orderID.String
	sub.AwbNumber = awb.String
	sub.Remarks = remarks.String
	sub.SubmittedBy = submittedBy.String
	if at := parseDBTime(createdAt); at != nil {
		sub.CreatedAt = *at
	}
	if invBy.Valid {
		sub.InventoryUpdatedBy = &invBy.String
	}
	sub.InventoryUpdatedAt = parseDBTime(invAt)
	if claimBy.Valid {
		sub.ClaimResolvedBy = &claimBy.String
	}
	sub.ClaimResolvedAt = parseDBTime(claimAt)
	return &sub, nil
}

// nullIfEmpty maps empty strings to NULL so optional columns stay clean.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
