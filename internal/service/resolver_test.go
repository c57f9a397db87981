package service

import (
	"context"
	"testing"

	"rto-ops-api/internal/model"
)

// fakeCatalog is an in-memory CatalogReader.
type fakeCatalog struct {
	skus   map[string]*model.SkuMaster
	combos map[string]*model.Combo
	items  map[int64][]model.ComboItem
}

func (c *fakeCatalog) FindSku(ctx context.Context, code string) (*model.SkuMaster, error) {
	return c.skus[code], nil
}

func (c *fakeCatalog) FindComboByName(ctx context.Context, name string) (*model.Combo, error) {
	return c.combos[name], nil
}

func (c *fakeCatalog) ComboChildren(ctx context.Context, comboID int64) ([]model.ComboItem, error) {
	return c.items[comboID], nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		skus: map[string]*model.SkuMaster{
			"SKU-RED-M":   {ID: 1, Code: "SKU-RED-M"},
			"SKU-BLUE-L":  {ID: 2, Code: "SKU-BLUE-L"},
			"GIFT-BUNDLE": {ID: 3, Code: "GIFT-BUNDLE", IsCombo: true},
			"EMPTY-COMBO": {ID: 4, Code: "EMPTY-COMBO", IsCombo: true},
		},
		combos: map[string]*model.Combo{
			"GIFT-BUNDLE": {ID: 10, Name: "GIFT-BUNDLE"},
			"EMPTY-COMBO": {ID: 11, Name: "EMPTY-COMBO"},
		},
		items: map[int64][]model.ComboItem{
			10: {
				{ID: 1, ComboID: 10, ChildSkuID: 1, ChildCode: "SKU-RED-M", Quantity: 2},
				{ID: 2, ComboID: 10, ChildSkuID: 2, ChildCode: "SKU-BLUE-L", Quantity: 3},
			},
		},
	}
}

func TestResolvePlainSku(t *testing.T) {
	r := NewSkuResolver()
	res, err := r.Resolve(context.Background(), testCatalog(), "SKU-RED-M")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Resolved() || len(res.Targets) != 1 {
		t.Fatalf("resolution = %+v", res)
	}
	tg := res.Targets[0]
	if tg.SkuID != 1 || tg.Quantity != 1 || tg.Source != model.AdjustmentSourceRTO {
		t.Errorf("target = %+v", tg)
	}
}

func TestResolvePackSuffix(t *testing.T) {
	r := NewSkuResolver()
	for _, code := range []string{"SKU-RED-M-PK3", "SKU-RED-M-pk3", "  SKU-RED-M-PK3  "} {
		res, err := r.Resolve(context.Background(), testCatalog(), code)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", code, err)
		}
		if len(res.Targets) != 1 || res.Targets[0].Quantity != 3 {
			t.Errorf("Resolve(%q) = %+v, want single target with qty 3", code, res)
		}
	}
}

func TestResolveComboFanOut(t *testing.T) {
	r := NewSkuResolver()
	res, err := r.Resolve(context.Background(), testCatalog(), "GIFT-BUNDLE")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Targets) != 2 {
		t.Fatalf("targets = %+v, want 2", res.Targets)
	}
	if res.Targets[0].SkuID != 1 || res.Targets[0].Quantity != 2 {
		t.Errorf("child 1 = %+v", res.Targets[0])
	}
	if res.Targets[1].SkuID != 2 || res.Targets[1].Quantity != 3 {
		t.Errorf("child 2 = %+v", res.Targets[1])
	}
	for _, tg := range res.Targets {
		if tg.Source != model.AdjustmentSourceRTOCombo {
			t.Errorf("child source = %q, want %q", tg.Source, model.AdjustmentSourceRTOCombo)
		}
	}
}

func TestResolveComboWithPackSuffix(t *testing.T) {
	r := NewSkuResolver()
	res, err := r.Resolve(context.Background(), testCatalog(), "GIFT-BUNDLE-PK2")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Targets) != 2 {
		t.Fatalf("targets = %+v, want 2", res.Targets)
	}
	// Pack size multiplies each child quantity.
	if res.Targets[0].Quantity != 4 || res.Targets[1].Quantity != 6 {
		t.Errorf("quantities = %d, %d, want 4, 6", res.Targets[0].Quantity, res.Targets[1].Quantity)
	}
}

func TestResolveUnresolvedReasons(t *testing.T) {
	r := NewSkuResolver()
	tests := []struct {
		code   string
		reason string
	}{
		{"", model.ReasonEmptySku},
		{"   ", model.ReasonEmptySku},
		{"NO-SUCH-SKU", model.ReasonNotFound},
		{"EMPTY-COMBO", model.ReasonComboNoChildren},
	}
	for _, tt := range tests {
		res, err := r.Resolve(context.Background(), testCatalog(), tt.code)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.code, err)
		}
		if res.Resolved() {
			t.Errorf("Resolve(%q) resolved unexpectedly: %+v", tt.code, res)
			continue
		}
		if res.Reason != tt.reason {
			t.Errorf("Resolve(%q) reason = %q, want %q", tt.code, res.Reason, tt.reason)
		}
	}
}

func TestSplitPackSuffix(t *testing.T) {
	tests := []struct {
		in    string
		base  string
		packs int64
	}{
		{"SKU-A-PK5", "SKU-A", 5},
		{"SKU-A-pk12", "SKU-A", 12},
		{"SKU-A", "SKU-A", 1},
		{"SKU-PK", "SKU-PK", 1},
		{"SKU-A-PK0", "SKU-A-PK0", 1},
		{"PKG-BOX", "PKG-BOX", 1},
	}
	for _, tt := range tests {
		base, packs := splitPackSuffix(tt.in)
		if base != tt.base || packs != tt.packs {
			t.Errorf("splitPackSuffix(%q) = (%q, %d), want (%q, %d)", tt.in, base, packs, tt.base, tt.packs)
		}
	}
}
