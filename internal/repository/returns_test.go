package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"rto-ops-api/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func amazonBatch(n int, offset int) []model.ReturnRecord {
	records := make([]model.ReturnRecord, 0, n)
	orderDate := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		tracking := fmt.Sprintf("TRK-%05d", offset+i)
		sku := "SKU-RED-M"
		qty := int64(1)
		records = append(records, &model.AmazonReturn{
			TrackingID: &tracking,
			Sku:        &sku,
			Quantity:   &qty,
			OrderDate:  &orderDate,
		})
	}
	return records
}

func TestInsertReturnBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.InsertReturnBatch(ctx, "amazon_returns", "tracking_id", amazonBatch(10, 0))
	if err != nil {
		t.Fatalf("InsertReturnBatch: %v", err)
	}
	if inserted != 10 {
		t.Errorf("inserted = %d, want 10", inserted)
	}

	count, err := store.CountReturns(ctx, "amazon_returns")
	if err != nil {
		t.Fatalf("CountReturns: %v", err)
	}
	if count != 10 {
		t.Errorf("count = %d, want 10", count)
	}
}

func TestInsertReturnBatchIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertReturnBatch(ctx, "amazon_returns", "tracking_id", amazonBatch(10, 0)); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	// Same natural keys again: everything is skipped.
	inserted, err := store.InsertReturnBatch(ctx, "amazon_returns", "tracking_id", amazonBatch(10, 0))
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted != 0 {
		t.Errorf("re-insert = %d, want 0", inserted)
	}

	count, _ := store.CountReturns(ctx, "amazon_returns")
	if count != 10 {
		t.Errorf("count after re-insert = %d, want 10", count)
	}
}

func TestInsertReturnBatchPartialOverlap(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertReturnBatch(ctx, "amazon_returns", "tracking_id", amazonBatch(10, 0)); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	// 5 overlapping keys, 5 new ones.
	inserted, err := store.InsertReturnBatch(ctx, "amazon_returns", "tracking_id", amazonBatch(10, 5))
	if err != nil {
		t.Fatalf("overlap insert: %v", err)
	}
	if inserted != 5 {
		t.Errorf("overlap insert = %d, want 5", inserted)
	}

	count, _ := store.CountReturns(ctx, "amazon_returns")
	if count != 15 {
		t.Errorf("count = %d, want 15", count)
	}
}

func TestInsertReturnBatchEmpty(t *testing.T) {
	store := newTestStore(t)
	inserted, err := store.InsertReturnBatch(context.Background(), "amazon_returns", "tracking_id", nil)
	if err != nil {
		t.Fatalf("empty insert: %v", err)
	}
	if inserted != 0 {
		t.Errorf("empty insert = %d, want 0", inserted)
	}
}

func TestInsertReturnBatchMeesho(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	suborder := "SO-001"
	awb := "AWB-9"
	createdAt := time.Date(2025, 4, 2, 13, 45, 0, 0, time.UTC)
	rec := &model.MeeshoReturn{
		SubOrderID:      &suborder,
		AwbNumber:       &awb,
		ReturnCreatedAt: &createdAt,
	}

	inserted, err := store.InsertReturnBatch(ctx, "meesho_returns", "suborder_id", []model.ReturnRecord{rec})
	if err != nil {
		t.Fatalf("InsertReturnBatch: %v", err)
	}
	if inserted != 1 {
		t.Errorf("inserted = %d, want 1", inserted)
	}

	var got string
	err = store.db.QueryRow(`SELECT return_created_at FROM meesho_returns WHERE suborder_id = ?`, suborder).Scan(&got)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != "2025-04-02 13:45:00" {
		t.Errorf("return_created_at = %q, want full timestamp", got)
	}
}
