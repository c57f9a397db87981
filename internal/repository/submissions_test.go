package repository

import (
	"context"
	"testing"
	"time"

	"rto-ops-api/internal/model"
)

func seedSubmission(t *testing.T, store *Store, marketplace, skuCode, condition string, qty int64) *model.RtoSubmission {
	t.Helper()
	sub := &model.RtoSubmission{
		Marketplace:   marketplace,
		AwbNumber:     "AWB-1",
		SkuCode:       skuCode,
		Quantity:      qty,
		ItemCondition: condition,
		ClaimStatus:   model.ClaimNone,
		SubmittedBy:   "alice",
		CreatedAt:     time.Now(),
	}
	if err := store.CreateSubmission(context.Background(), sub); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	return sub
}

func TestCreateAndListSubmissions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedSubmission(t, store, "amazon", "SKU-A", model.ConditionGood, 1)
	seedSubmission(t, store, "meesho", "SKU-B", model.ConditionDamaged, 2)
	seedSubmission(t, store, "meesho", "SKU-C", model.ConditionGood, 3)

	all, err := store.ListSubmissions(ctx, SubmissionFilter{})
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d submissions, want 3", len(all))
	}
	// Newest first.
	if all[0].SkuCode != "SKU-C" {
		t.Errorf("first submission = %s, want SKU-C", all[0].SkuCode)
	}

	meesho, err := store.ListSubmissions(ctx, SubmissionFilter{Marketplace: "meesho"})
	if err != nil {
		t.Fatalf("ListSubmissions(meesho): %v", err)
	}
	if len(meesho) != 2 {
		t.Errorf("meesho submissions = %d, want 2", len(meesho))
	}

	good, err := store.ListSubmissions(ctx, SubmissionFilter{ItemCondition: model.ConditionGood})
	if err != nil {
		t.Fatalf("ListSubmissions(good): %v", err)
	}
	if len(good) != 2 {
		t.Errorf("good submissions = %d, want 2", len(good))
	}

	limited, err := store.ListSubmissions(ctx, SubmissionFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListSubmissions(paged): %v", err)
	}
	if len(limited) != 1 || limited[0].SkuCode != "SKU-B" {
		t.Errorf("paged result = %+v", limited)
	}
}

func TestMarkClaimResolvedOneWay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sub := seedSubmission(t, store, "amazon", "SKU-A", model.ConditionGood, 1)

	if err := store.MarkClaimResolved(ctx, sub.ID, model.ClaimApproved, "bob", time.Now()); err != nil {
		t.Fatalf("MarkClaimResolved: %v", err)
	}

	// Second resolution attempt is rejected.
	if err := store.MarkClaimResolved(ctx, sub.ID, model.ClaimRejected, "eve", time.Now()); err == nil {
		t.Error("second claim resolution did not error")
	}

	subs, err := store.ListSubmissions(ctx, SubmissionFilter{})
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	got := subs[0]
	if !got.IsClaimResolved || got.ClaimStatus != model.ClaimApproved {
		t.Errorf("submission = %+v, want approved and resolved", got)
	}
	if got.ClaimResolvedBy == nil || *got.ClaimResolvedBy != "bob" {
		t.Errorf("resolved by = %v, want bob", got.ClaimResolvedBy)
	}
	if got.ClaimResolvedAt == nil {
		t.Error("resolved at is nil")
	}
}

func TestMarkClaimResolvedMissing(t *testing.T) {
	store := newTestStore(t)
	if err := store.MarkClaimResolved(context.Background(), 999, model.ClaimApproved, "bob", time.Now()); err == nil {
		t.Error("resolving a missing submission did not error")
	}
}
