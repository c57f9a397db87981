package model

// Unresolved-SKU reason codes reported by the reconciliation engine.
const (
	ReasonEmptySku         = "empty_sku"
	ReasonNotFound         = "not_found"
	ReasonComboNoChildren  = "combo_no_children"
	ReasonNoInventorySlots = "no_inventory_slots"
)

// NotFoundSku is one unresolved entry in a reconciliation report.
type NotFoundSku struct {
	SubmissionID int64  `json:"submissionId"`
	SkuCode      string `json:"skuCode"`
	Quantity     int64  `json:"quantity"`
	Reason       string `json:"reason"`
}

// ReconcileResult is the outcome of one reconciliation call.
type ReconcileResult struct {
	TotalQualifying int           `json:"totalQualifying"`
	TotalUpdated    int           `json:"totalUpdated"`
	TotalNotFound   int           `json:"totalNotFound"`
	NotFoundSKUs    []NotFoundSku `json:"notFoundSKUs"`
}

// MarketplaceSummary is one dashboard row: submission counts for a
// marketplace split by item condition.
type MarketplaceSummary struct {
	Marketplace string `json:"marketplace"`
	Condition   string `json:"condition"`
	Count       int64  `json:"count"`
	Quantity    int64  `json:"quantity"`
}

// MonthlyBreakdown is one dashboard row: submissions per calendar month.
type MonthlyBreakdown struct {
	Month     string `json:"month"` // YYYY-MM
	Count     int64  `json:"count"`
	Quantity  int64  `json:"quantity"`
	Processed int64  `json:"processed"`
}
