package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"rto-ops-api/internal/model"
	"rto-ops-api/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateSku(t *testing.T, store *repository.Store, code string, isCombo bool) *model.SkuMaster {
	t.Helper()
	sku := &model.SkuMaster{Code: code, Name: code, IsCombo: isCombo}
	if err := store.CreateSku(context.Background(), sku); err != nil {
		t.Fatalf("CreateSku(%s): %v", code, err)
	}
	return sku
}

func mustCreateSlot(t *testing.T, store *repository.Store, skuID, qty int64, expiry *time.Time) *model.InventorySlot {
	t.Helper()
	slot := &model.InventorySlot{SkuID: skuID, Quantity: qty, ExpiryDate: expiry, CreatedAt: time.Now()}
	if err := store.CreateSlot(context.Background(), slot); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	return slot
}

func mustCreateSubmission(t *testing.T, store *repository.Store, skuCode string, qty int64, condition string) *model.RtoSubmission {
	t.Helper()
	sub := &model.RtoSubmission{
		Marketplace:   "meesho",
		AwbNumber:     "AWB-1",
		SkuCode:       skuCode,
		Quantity:      qty,
		ItemCondition: condition,
		ClaimStatus:   model.ClaimNone,
		CreatedAt:     time.Now(),
	}
	if err := store.CreateSubmission(context.Background(), sub); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	return sub
}

func slotQuantity(t *testing.T, store *repository.Store, slotID int64) int64 {
	t.Helper()
	slot, err := store.GetSlot(context.Background(), slotID)
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if slot == nil {
		t.Fatalf("slot %d disappeared", slotID)
	}
	return slot.Quantity
}

func adjustments(t *testing.T, store *repository.Store, submissionID int64) []model.InventoryAdjustment {
	t.Helper()
	adjs, err := store.ListAdjustments(context.Background(), submissionID)
	if err != nil {
		t.Fatalf("ListAdjustments: %v", err)
	}
	return adjs
}

func TestReconcileSimpleSku(t *testing.T) {
	store := newTestStore(t)
	svc := NewReconcileService(store)
	ctx := context.Background()

	sku := mustCreateSku(t, store, "SKU-RED-M", false)
	slot := mustCreateSlot(t, store, sku.ID, 10, nil)
	sub := mustCreateSubmission(t, store, "SKU-RED-M", 2, model.ConditionGood)

	result, err := svc.Reconcile(ctx, []int64{sub.ID}, "alice")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.TotalQualifying != 1 || result.TotalUpdated != 1 || result.TotalNotFound != 0 {
		t.Errorf("result = %+v", result)
	}
	if got := slotQuantity(t, store, slot.ID); got != 12 {
		t.Errorf("slot quantity = %d, want 12", got)
	}

	adjs := adjustments(t, store, sub.ID)
	if len(adjs) != 1 {
		t.Fatalf("adjustments = %d, want 1", len(adjs))
	}
	if adjs[0].Source != model.AdjustmentSourceRTO || adjs[0].Quantity != 2 || adjs[0].AdjustedBy != "alice" {
		t.Errorf("adjustment = %+v", adjs[0])
	}

	// The processed flag is one-way: a second pass finds nothing eligible.
	again, err := svc.Reconcile(ctx, []int64{sub.ID}, "alice")
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if again.TotalQualifying != 0 || again.TotalUpdated != 0 {
		t.Errorf("second pass = %+v, want no-op", again)
	}
	if got := slotQuantity(t, store, slot.ID); got != 12 {
		t.Errorf("slot quantity after second pass = %d, want 12", got)
	}
}

func TestReconcileComboFanOut(t *testing.T) {
	store := newTestStore(t)
	svc := NewReconcileService(store)
	ctx := context.Background()

	childA := mustCreateSku(t, store, "SKU-A", false)
	childB := mustCreateSku(t, store, "SKU-B", false)
	mustCreateSku(t, store, "GIFT-BUNDLE", true)

	combo := &model.Combo{Name: "GIFT-BUNDLE"}
	if err := store.CreateCombo(ctx, combo); err != nil {
		t.Fatalf("CreateCombo: %v", err)
	}
	for _, item := range []model.ComboItem{
		{ComboID: combo.ID, ChildSkuID: childA.ID, Quantity: 2},
		{ComboID: combo.ID, ChildSkuID: childB.ID, Quantity: 3},
	} {
		item := item
		if err := store.AddComboItem(ctx, &item); err != nil {
			t.Fatalf("AddComboItem: %v", err)
		}
	}

	slotA := mustCreateSlot(t, store, childA.ID, 0, nil)
	slotB := mustCreateSlot(t, store, childB.ID, 0, nil)
	sub := mustCreateSubmission(t, store, "GIFT-BUNDLE", 5, model.ConditionGood)

	result, err := svc.Reconcile(ctx, []int64{sub.ID}, "alice")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.TotalUpdated != 1 {
		t.Fatalf("result = %+v", result)
	}

	if got := slotQuantity(t, store, slotA.ID); got != 10 {
		t.Errorf("child A slot = %d, want 10", got)
	}
	if got := slotQuantity(t, store, slotB.ID); got != 15 {
		t.Errorf("child B slot = %d, want 15", got)
	}

	adjs := adjustments(t, store, sub.ID)
	if len(adjs) != 2 {
		t.Fatalf("adjustments = %d, want 2", len(adjs))
	}
	for _, adj := range adjs {
		if adj.Source != model.AdjustmentSourceRTOCombo {
			t.Errorf("adjustment source = %q, want %q", adj.Source, model.AdjustmentSourceRTOCombo)
		}
	}
}

func TestReconcilePackSuffix(t *testing.T) {
	store := newTestStore(t)
	svc := NewReconcileService(store)

	sku := mustCreateSku(t, store, "SKU-RED-M", false)
	slot := mustCreateSlot(t, store, sku.ID, 0, nil)
	sub := mustCreateSubmission(t, store, "SKU-RED-M-PK3", 2, model.ConditionGood)

	result, err := svc.Reconcile(context.Background(), []int64{sub.ID}, "alice")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.TotalUpdated != 1 {
		t.Fatalf("result = %+v", result)
	}
	if got := slotQuantity(t, store, slot.ID); got != 6 {
		t.Errorf("slot quantity = %d, want 6 (2 packs of 3)", got)
	}
}

func TestReconcilePicksEarliestExpiry(t *testing.T) {
	store := newTestStore(t)
	svc := NewReconcileService(store)

	sku := mustCreateSku(t, store, "SKU-RED-M", false)
	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	slotNoExpiry := mustCreateSlot(t, store, sku.ID, 0, nil)
	slotLater := mustCreateSlot(t, store, sku.ID, 0, &later)
	slotEarlier := mustCreateSlot(t, store, sku.ID, 0, &earlier)

	sub := mustCreateSubmission(t, store, "SKU-RED-M", 4, model.ConditionGood)
	if _, err := svc.Reconcile(context.Background(), []int64{sub.ID}, "alice"); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if got := slotQuantity(t, store, slotEarlier.ID); got != 4 {
		t.Errorf("earliest-expiry slot = %d, want 4", got)
	}
	if got := slotQuantity(t, store, slotLater.ID); got != 0 {
		t.Errorf("later-expiry slot = %d, want 0", got)
	}
	if got := slotQuantity(t, store, slotNoExpiry.ID); got != 0 {
		t.Errorf("no-expiry slot = %d, want 0", got)
	}
}

func TestReconcileUnresolvedReporting(t *testing.T) {
	store := newTestStore(t)
	svc := NewReconcileService(store)
	ctx := context.Background()

	// Combo with children but a child without slots.
	child := mustCreateSku(t, store, "SKU-A", false)
	mustCreateSku(t, store, "BARE-BUNDLE", true)
	combo := &model.Combo{Name: "BARE-BUNDLE"}
	if err := store.CreateCombo(ctx, combo); err != nil {
		t.Fatalf("CreateCombo: %v", err)
	}
	item := model.ComboItem{ComboID: combo.ID, ChildSkuID: child.ID, Quantity: 1}
	if err := store.AddComboItem(ctx, &item); err != nil {
		t.Fatalf("AddComboItem: %v", err)
	}

	subMissing := mustCreateSubmission(t, store, "NO-SUCH-SKU", 1, model.ConditionGood)
	subNoSlots := mustCreateSubmission(t, store, "BARE-BUNDLE", 1, model.ConditionGood)
	subDamaged := mustCreateSubmission(t, store, "NO-SUCH-SKU", 1, model.ConditionDamaged)

	result, err := svc.Reconcile(ctx, []int64{subMissing.ID, subNoSlots.ID, subDamaged.ID}, "alice")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	// Damaged submissions never qualify.
	if result.TotalQualifying != 2 || result.TotalUpdated != 0 || result.TotalNotFound != 2 {
		t.Fatalf("result = %+v", result)
	}

	reasons := map[int64]string{}
	for _, nf := range result.NotFoundSKUs {
		reasons[nf.SubmissionID] = nf.Reason
	}
	if reasons[subMissing.ID] != model.ReasonNotFound {
		t.Errorf("missing sku reason = %q, want %q", reasons[subMissing.ID], model.ReasonNotFound)
	}
	if reasons[subNoSlots.ID] != model.ReasonNoInventorySlots {
		t.Errorf("no-slots reason = %q, want %q", reasons[subNoSlots.ID], model.ReasonNoInventorySlots)
	}

	// Unresolved submissions stay eligible for a later pass.
	subs, err := store.ListSubmissions(ctx, repository.SubmissionFilter{PendingInventory: true})
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(subs) != 3 {
		t.Errorf("pending submissions = %d, want 3", len(subs))
	}
}

func TestReconcileNoSelection(t *testing.T) {
	store := newTestStore(t)
	svc := NewReconcileService(store)

	if _, err := svc.Reconcile(context.Background(), nil, "alice"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("nil ids: got %v, want ErrNoSelection", err)
	}
	if _, err := svc.Reconcile(context.Background(), []int64{0, -4}, "alice"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("invalid ids: got %v, want ErrNoSelection", err)
	}
}

// failingStore wraps the real store and makes adjustment inserts fail so the
// all-or-nothing guarantee can be observed from outside the transaction.
type failingStore struct {
	inner repository.ReconcileStore
}

func (s *failingStore) BeginReconcile(ctx context.Context) (repository.ReconcileTx, error) {
	tx, err := s.inner.BeginReconcile(ctx)
	if err != nil {
		return nil, err
	}
	return &failingTx{ReconcileTx: tx}, nil
}

type failingTx struct {
	repository.ReconcileTx
}

func (t *failingTx) InsertAdjustment(ctx context.Context, adj *model.InventoryAdjustment) error {
	return errors.New("disk full")
}

func TestReconcileRollsBackOnStorageError(t *testing.T) {
	store := newTestStore(t)
	svc := NewReconcileService(&failingStore{inner: store})
	ctx := context.Background()

	sku := mustCreateSku(t, store, "SKU-RED-M", false)
	slot := mustCreateSlot(t, store, sku.ID, 10, nil)
	sub := mustCreateSubmission(t, store, "SKU-RED-M", 2, model.ConditionGood)

	if _, err := svc.Reconcile(ctx, []int64{sub.ID}, "alice"); err == nil {
		t.Fatal("expected error from failing store")
	}

	// Nothing leaked out of the rolled-back transaction.
	if got := slotQuantity(t, store, slot.ID); got != 10 {
		t.Errorf("slot quantity = %d, want 10", got)
	}
	subs, err := store.ListSubmissions(ctx, repository.SubmissionFilter{PendingInventory: true})
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("pending submissions = %d, want 1", len(subs))
	}
	if adjs := adjustments(t, store, sub.ID); len(adjs) != 0 {
		t.Errorf("adjustments = %d, want 0", len(adjs))
	}
}
