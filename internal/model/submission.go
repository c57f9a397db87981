package model

import "time"

// Item conditions recorded on an RTO submission.
const (
	ConditionGood        = "Good"
	ConditionDamaged     = "Damaged"
	ConditionMissing     = "Missing"
	ConditionWrongReturn = "Wrong Return"
	ConditionUsed        = "Used"
)

// Claim statuses tracked independently of inventory processing.
const (
	ClaimNone     = "None"
	ClaimRaised   = "Raised"
	ClaimApproved = "Approved"
	ClaimRejected = "Rejected"
)

// RtoSubmission is a user-entered record of one returned unit or batch.
// The two processing flags are independent one-way transitions: once a
// submission is inventory-updated or claim-resolved it never goes back.
type RtoSubmission struct {
	ID            int64      `json:"id"`
	Marketplace   string     `json:"marketplace"`
	PickupPartner string     `json:"pickup_partner"`
	OrderID       string     `json:"order_id"`
	AwbNumber     string     `json:"awb_number"`
	SkuCode       string     `json:"sku_code"`
	Quantity      int64      `json:"quantity"`
	ItemCondition string     `json:"item_condition"`
	ClaimStatus   string     `json:"claim_status"`
	Remarks       string     `json:"remarks"`
	SubmittedBy   string     `json:"submitted_by"`
	CreatedAt     time.Time  `json:"created_at"`

	IsInventoryUpdated bool       `json:"is_inventory_updated"`
	InventoryUpdatedBy *string    `json:"inventory_updated_by,omitempty"`
	InventoryUpdatedAt *time.Time `json:"inventory_updated_at,omitempty"`

	IsClaimResolved bool       `json:"is_claim_resolved"`
	ClaimResolvedBy *string    `json:"claim_resolved_by,omitempty"`
	ClaimResolvedAt *time.Time `json:"claim_resolved_at,omitempty"`
}

// ValidCondition reports whether c is one of the recognized item conditions.
func ValidCondition(c string) bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionMissing, ConditionWrongReturn, ConditionUsed:
		return true
	}
	return false
}
