package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rto-ops-api/internal/model"
)

// CreateSku inserts a SKU master row and backfills its id.
func (s *Store) CreateSku(ctx context.Context, sku *model.SkuMaster) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO sku_master (code, name, is_combo) VALUES (?, ?, ?)`,
		sku.Code, nullIfEmpty(sku.Name), sku.IsCombo)
	if err != nil {
		return fmt.Errorf("failed to create sku %q: %w", sku.Code, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read sku id: %w", err)
	}
	sku.ID = id
	return nil
}

// CreateCombo inserts a combo definition and backfills its id. Children are
// added separately with AddComboItem.
func (s *Store) CreateCombo(ctx context.Context, combo *model.Combo) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO combos (name) VALUES (?)`, combo.Name)
	if err != nil {
		return fmt.Errorf("failed to create combo %q: %w", combo.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read combo id: %w", err)
	}
	combo.ID = id
	return nil
}

// AddComboItem attaches one child SKU with its per-combo quantity.
func (s *Store) AddComboItem(ctx context.Context, item *model.ComboItem) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO combo_items (combo_id, child_sku_id, quantity) VALUES (?, ?, ?)`,
		item.ComboID, item.ChildSkuID, item.Quantity)
	if err != nil {
		return fmt.Errorf("failed to add combo item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read combo item id: %w", err)
	}
	item.ID = id
	return nil
}

// GetSlot fetches one inventory slot by id. Nil when absent.
func (s *Store) GetSlot(ctx context.Context, id int64) (*model.InventorySlot, error) {
	var slot model.InventorySlot
	var batch, expiry, created sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, sku_id, quantity, batch_code, expiry_date, created_at
		FROM inventory_slots WHERE id = ?`, id).
		Scan(&slot.ID, &slot.SkuID, &slot.Quantity, &batch, &expiry, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %d: %w", id, err)
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

// CreateSlot inserts an inventory slot and backfills its id.
func (s *Store) CreateSlot(ctx context.Context, slot *model.InventorySlot) error {
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now()
	}

	var batch any
	if slot.BatchCode != nil {
		batch = *slot.BatchCode
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_slots (sku_id, quantity, batch_code, expiry_date, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		slot.SkuID, slot.Quantity, batch, fmtTimePtr(slot.ExpiryDate), fmtTime(slot.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create inventory slot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read slot id: %w", err)
	}
	slot.ID = id
	return nil
}
