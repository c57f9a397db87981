package model

import "time"

// SkuMaster is a canonical catalog entry. A combo-flagged SKU carries no
// direct inventory; its stock is derived from combo children.
type SkuMaster struct {
	ID                 int64      `json:"id"`
	Code               string     `json:"code"`
	Name               string     `json:"name"`
	IsCombo            bool       `json:"is_combo"`
	InventoryUpdatedAt *time.Time `json:"inventory_updated_at,omitempty"`
}

// Combo is a bundle catalog entry resolved by name.
type Combo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ComboItem associates a combo with one constituent child SKU and the
// per-combo multiplier quantity.
type ComboItem struct {
	ID         int64  `json:"id"`
	ComboID    int64  `json:"combo_id"`
	ChildSkuID int64  `json:"child_sku_id"`
	ChildCode  string `json:"child_code"`
	Quantity   int64  `json:"quantity"`
}

// InventorySlot is one physical/batch-level stock row for a non-combo SKU.
// A SKU may have several slots with different batches and expiries.
type InventorySlot struct {
	ID         int64      `json:"id"`
	SkuID      int64      `json:"sku_id"`
	Quantity   int64      `json:"quantity"`
	BatchCode  *string    `json:"batch_code,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
