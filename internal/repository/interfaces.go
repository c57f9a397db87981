package repository

import (
	"context"
	"time"

	"rto-ops-api/internal/model"
)

// ReturnsStore persists batches of normalized marketplace return rows.
type ReturnsStore interface {
	// InsertReturnBatch performs one bulk insert-ignoring-conflicts statement
	// for the whole batch and returns the count of rows actually inserted.
	// Duplicate natural keys are skipped silently; storage errors propagate.
	InsertReturnBatch(ctx context.Context, table, keyColumn string, records []model.ReturnRecord) (int64, error)
}

// ReconcileTx is the transaction scope for one reconciliation pass. All
// reads and writes happen on one acquired handle; the caller either commits
// everything or rolls everything back.
type ReconcileTx interface {
	// QualifyingSubmissions re-fetches the subset of the requested ids that
	// is still eligible (Good condition, not yet inventory-updated), in
	// stable id order. On MySQL the rows are locked for the transaction.
	QualifyingSubmissions(ctx context.Context, ids []int64) ([]model.RtoSubmission, error)

	FindSku(ctx context.Context, code string) (*model.SkuMaster, error)
	FindComboByName(ctx context.Context, name string) (*model.Combo, error)
	ComboChildren(ctx context.Context, comboID int64) ([]model.ComboItem, error)

	// EarliestSlot returns the slot with the earliest non-null expiry, or the
	// first slot by creation order when none have one. Nil when the SKU has
	// no slots at all.
	EarliestSlot(ctx context.Context, skuID int64) (*model.InventorySlot, error)

	AddSlotQuantity(ctx context.Context, slotID, qty int64) error
	TouchSkuInventory(ctx context.Context, skuID int64, at time.Time) error
	InsertAdjustment(ctx context.Context, adj *model.InventoryAdjustment) error
	MarkInventoryUpdated(ctx context.Context, submissionID int64, actor string, at time.Time) error

	Commit() error
	Rollback() error
}

// ReconcileStore opens reconciliation transaction scopes.
type ReconcileStore interface {
	BeginReconcile(ctx context.Context) (ReconcileTx, error)
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	Marketplace      string
	ItemCondition    string
	PendingInventory bool // only rows not yet inventory-updated
	Limit            int
	Offset           int
}

// SubmissionStore is the glue-level access to user-entered RTO submissions.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *model.RtoSubmission) error
	ListSubmissions(ctx context.Context, f SubmissionFilter) ([]model.RtoSubmission, error)

	// MarkClaimResolved flips the claim flag one way and records the actor.
	MarkClaimResolved(ctx context.Context, id int64, status, actor string, at time.Time) error

	// ListAdjustments returns the audit trail written for one submission.
	ListAdjustments(ctx context.Context, submissionID int64) ([]model.InventoryAdjustment, error)
}

// CatalogStore maintains SKU master data: simple SKUs, combos with their
// children, and inventory slots.
type CatalogStore interface {
	CreateSku(ctx context.Context, sku *model.SkuMaster) error
	CreateCombo(ctx context.Context, combo *model.Combo) error
	AddComboItem(ctx context.Context, item *model.ComboItem) error
	CreateSlot(ctx context.Context, slot *model.InventorySlot) error
	GetSlot(ctx context.Context, id int64) (*model.InventorySlot, error)
}

// DashboardStore serves the aggregate reporting queries.
type DashboardStore interface {
	ConditionSummary(ctx context.Context) ([]model.MarketplaceSummary, error)
	MonthlyBreakdown(ctx context.Context, months int) ([]model.MonthlyBreakdown, error)
}
