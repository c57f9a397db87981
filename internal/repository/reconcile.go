package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rto-ops-api/internal/model"
)

// reconcileTx is the SQL implementation of ReconcileTx. It holds the one
// acquired handle for the whole reconciliation pass; callers use it the same
// way regardless of the underlying backend.
type reconcileTx struct {
	tx   *sql.Tx
	lock string
}

// BeginReconcile opens the all-or-nothing transaction scope for one
// reconciliation call.
func (s *Store) BeginReconcile(ctx context.Context) (ReconcileTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &reconcileTx{tx: tx, lock: s.rowLock()}, nil
}

func (t *reconcileTx) Commit() error   { return t.tx.Commit() }
func (t *reconcileTx) Rollback() error { return t.tx.Rollback() }

// QualifyingSubmissions re-fetches the still-eligible subset of the
// requested ids in stable id order. Ids that no longer qualify (already
// processed, wrong condition, deleted) are simply absent from the result.
func (t *reconcileTx) QualifyingSubmissions(ctx context.Context, ids []int64) ([]model.RtoSubmission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `SELECT id, marketplace, pickup_partner, order_id, awb_number, sku_code,
			quantity, item_condition, claim_status
		FROM rto_submissions
		WHERE item_condition = ? AND is_inventory_updated = 0 AND id IN (` + placeholders + `)
		ORDER BY id` + t.lock

	args := make([]any, 0, len(ids)+1)
	args = append(args, model.ConditionGood)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select qualifying submissions: %w", err)
	}
	defer rows.Close()

	var subs []model.RtoSubmission
	for rows.Next() {
		var sub model.RtoSubmission
		var partner, orderID, awb sql.NullString
		if err := rows.Scan(&sub.ID, &sub.Marketplace, &partner, &orderID, &awb,
			&sub.SkuCode, &sub.Quantity, &sub.ItemCondition, &sub.ClaimStatus); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		sub.PickupPartner = partner.String
		sub.OrderID = orderID.String
		sub.AwbNumber = awb.String
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (t *reconcileTx) FindSku(ctx context.Context, code string) (*model.SkuMaster, error) {
	var sku model.SkuMaster
	var name sql.NullString
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, code, name, is_combo FROM sku_master WHERE code = ?`, code).
		Scan(&sku.ID, &sku.Code, &name, &sku.IsCombo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up sku %q: %w", code, err)
	}
	sku.Name = name.String
	return &sku, nil
}

func (t *reconcileTx) FindComboByName(ctx context.Context, name string) (*model.Combo, error) {
	var combo model.Combo
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, name FROM combos WHERE name = ?`, name).
		Scan(&combo.ID, &combo.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up combo %q: %w", name, err)
	}
	return &combo, nil
}

func (t *reconcileTx) ComboChildren(ctx context.Context, comboID int64) ([]model.ComboItem, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT ci.id, ci.combo_id, ci.child_sku_id, sm.code, ci.quantity
		FROM combo_items ci
		JOIN sku_master sm ON sm.id = ci.child_sku_id
		WHERE ci.combo_id = ?
		ORDER BY ci.id`, comboID)
	if err != nil {
		return nil, fmt.Errorf("failed to select combo children: %w", err)
	}
	defer rows.Close()

	var items []model.ComboItem
	for rows.Next() {
		var item model.ComboItem
		if err := rows.Scan(&item.ID, &item.ComboID, &item.ChildSkuID, &item.ChildCode, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan combo item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// EarliestSlot picks the adjustment target: the slot with the earliest
// non-null expiry date, falling back to the first slot by creation order.
func (t *reconcileTx) EarliestSlot(ctx context.Context, skuID int64) (*model.InventorySlot, error) {
	var slot model.InventorySlot
	var batch, expiry, created sql.NullString
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, sku_id, quantity, batch_code, expiry_date, created_at
		FROM inventory_slots
		WHERE sku_id = ?
		ORDER BY (expiry_date IS NULL), expiry_date, id
		LIMIT 1`, skuID).
		Scan(&slot.ID, &slot.SkuID, &slot.Quantity, &batch, &expiry, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select inventory slot: %w", err)
	}
	if batch.Valid {
		slot.BatchCode = &batch.String
	}
	slot.ExpiryDate = parseDBTime(expiry)
	if at := parseDBTime(created); at != nil {
		slot.CreatedAt = *at
	}
	return &slot, nil
}

func (t *reconcileTx) AddSlotQuantity(ctx context.Context, slotID, qty int64) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE inventory_slots SET quantity = quantity + ? WHERE id = ?`, qty, slotID)
	if err != nil {
		return fmt.Errorf("failed to adjust slot %d: %w", slotID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("inventory slot %d vanished mid-transaction", slotID)
	}
	return nil
}

func (t *reconcileTx) TouchSkuInventory(ctx context.Context, skuID int64, at time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE sku_master SET inventory_updated_at = ? WHERE id = ?`, fmtTime(at), skuID)
	if err != nil {
		return fmt.Errorf("failed to touch sku %d: %w", skuID, err)
	}
	return nil
}

func (t *reconcileTx) InsertAdjustment(ctx context.Context, adj *model.InventoryAdjustment) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO inventory_adjustments
			(submission_id, sku_id, sku_code, slot_id, quantity, source,
			marketplace, awb_number, adjusted_by, adjusted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		adj.SubmissionID, adj.SkuID, adj.SkuCode, adj.SlotID, adj.Quantity,
		adj.Source, adj.Marketplace, adj.AwbNumber, adj.AdjustedBy, fmtTime(adj.AdjustedAt))
	if err != nil {
		return fmt.Errorf("failed to insert adjustment: %w", err)
	}
	return nil
}

// MarkInventoryUpdated flips the one-way processing flag. The flag is never
// cleared by this codebase.
func (t *reconcileTx) MarkInventoryUpdated(ctx context.Context, submissionID int64, actor string, at time.Time) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE rto_submissions
		SET is_inventory_updated = 1, inventory_updated_by = ?, inventory_updated_at = ?
		WHERE id = ? AND is_inventory_updated = 0`,
		actor, fmtTime(at), submissionID)
	if err != nil {
		return fmt.Errorf("failed to mark submission %d: %w", submissionID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("submission %d was processed concurrently", submissionID)
	}
	return nil
}

var _ ReconcileTx = (*reconcileTx)(nil)
