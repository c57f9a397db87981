package model

import "time"

// Adjustment source labels written to the audit trail.
const (
	AdjustmentSourceRTO      = "RTO"
	AdjustmentSourceRTOCombo = "RTO Combo"
)

// InventoryAdjustment is one append-only audit row: a single quantity
// adjustment made against one resolved SKU for one submission. A combo
// submission produces one row per child SKU.
type InventoryAdjustment struct {
	ID           int64     `json:"id"`
	SubmissionID int64     `json:"submission_id"`
	SkuID        int64     `json:"sku_id"`
	SkuCode      string    `json:"sku_code"`
	SlotID       int64     `json:"slot_id"`
	Quantity     int64     `json:"quantity"`
	Source       string    `json:"source"`
	Marketplace  string    `json:"marketplace"`
	AwbNumber    string    `json:"awb_number"`
	AdjustedBy   string    `json:"adjusted_by"`
	AdjustedAt   time.Time `json:"adjusted_at"`
}
