package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"rto-ops-api/internal/model"
)

// CatalogReader is the catalog subset the resolver needs. The reconcile
// transaction satisfies it, so resolution happens on the same handle as the
// writes it informs.
type CatalogReader interface {
	FindSku(ctx context.Context, code string) (*model.SkuMaster, error)
	FindComboByName(ctx context.Context, name string) (*model.Combo, error)
	ComboChildren(ctx context.Context, comboID int64) ([]model.ComboItem, error)
}

// ResolvedTarget is one concrete SKU an adjustment will land on. Quantity is
// the per-unit multiplier: pack size times combo child quantity.
type ResolvedTarget struct {
	SkuID    int64
	SkuCode  string
	Quantity int64
	Source   string
}

// Resolution is the outcome of resolving one submitted SKU code. Either
// Targets is non-empty, or Reason carries the unresolved code.
type Resolution struct {
	Targets []ResolvedTarget
	Reason  string
}

// Resolved reports whether the code mapped to at least one concrete SKU.
func (r Resolution) Resolved() bool { return len(r.Targets) > 0 }

// packSuffix matches a trailing pack-of-n marker like "-PK3".
var packSuffix = regexp.MustCompile(`(?i)-PK(\d+)$`)

// SkuResolver maps submitted SKU codes onto catalog SKUs, expanding pack
// suffixes and fanning combos out to their children.
type SkuResolver struct{}

func NewSkuResolver() *SkuResolver { return &SkuResolver{} }

// Resolve maps one submitted code. The pack suffix is stripped first, then
// the base code is tried as a plain SKU, then as a combo name. A combo-flagged
// SKU also falls through to combo lookup since it carries no direct stock.
func (r *SkuResolver) Resolve(ctx context.Context, catalog CatalogReader, rawCode string) (Resolution, error) {
	code := strings.TrimSpace(rawCode)
	if code == "" {
		return Resolution{Reason: model.ReasonEmptySku}, nil
	}

	base, packQty := splitPackSuffix(code)

	sku, err := catalog.FindSku(ctx, base)
	if err != nil {
		return Resolution{}, err
	}
	if sku != nil && !sku.IsCombo {
		return Resolution{Targets: []ResolvedTarget{{
			SkuID:    sku.ID,
			SkuCode:  sku.Code,
			Quantity: packQty,
			Source:   model.AdjustmentSourceRTO,
		}}}, nil
	}

	combo, err := catalog.FindComboByName(ctx, base)
	if err != nil {
		return Resolution{}, err
	}
	if combo == nil {
		return Resolution{Reason: model.ReasonNotFound}, nil
	}

	children, err := catalog.ComboChildren(ctx, combo.ID)
	if err != nil {
		return Resolution{}, err
	}
	if len(children) == 0 {
		return Resolution{Reason: model.ReasonComboNoChildren}, nil
	}

	targets := make([]ResolvedTarget, 0, len(children))
	for _, child := range children {
		targets = append(targets, ResolvedTarget{
			SkuID:    child.ChildSkuID,
			SkuCode:  child.ChildCode,
			Quantity: child.Quantity * packQty,
			Source:   model.AdjustmentSourceRTOCombo,
		})
	}
	return Resolution{Targets: targets}, nil
}

// splitPackSuffix strips a trailing -PK<n> marker and returns the base code
// with the pack multiplier. Codes without the marker multiply by one.
func splitPackSuffix(code string) (string, int64) {
	m := packSuffix.FindStringSubmatch(code)
	if m == nil {
		return code, 1
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n < 1 {
		return code, 1
	}
	return code[:len(code)-len(m[0])], n
}
