package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rto-ops-api/internal/model"
	"rto-ops-api/internal/repository"
)

// ErrNoSelection is returned when a reconcile call carries no usable ids.
var ErrNoSelection = errors.New("no submission ids selected")

// ReconcileService turns selected Good-condition submissions into inventory
// adjustments. One call is one transaction: either every eligible submission
// is applied and flagged, or nothing is.
type ReconcileService struct {
	store    repository.ReconcileStore
	resolver *SkuResolver
}

func NewReconcileService(store repository.ReconcileStore) *ReconcileService {
	return &ReconcileService{
		store:    store,
		resolver: NewSkuResolver(),
	}
}

// Reconcile processes the selected submission ids on behalf of actor.
// Submissions whose SKU cannot be resolved to stocked catalog entries are
// reported in the result, not treated as errors; storage failures roll the
// whole pass back.
func (s *ReconcileService) Reconcile(ctx context.Context, ids []int64, actor string) (*model.ReconcileResult, error) {
	valid := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoSelection
	}

	tx, err := s.store.BeginReconcile(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.reconcileInTx(ctx, tx, valid, actor)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reconciliation: %w", err)
	}

	log.Printf("[ReconcileService] actor=%s qualifying=%d updated=%d notFound=%d",
		actor, result.TotalQualifying, result.TotalUpdated, result.TotalNotFound)
	return result, nil
}

func (s *ReconcileService) reconcileInTx(ctx context.Context, tx repository.ReconcileTx, ids []int64, actor string) (*model.ReconcileResult, error) {
	subs, err := tx.QualifyingSubmissions(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &model.ReconcileResult{
		TotalQualifying: len(subs),
		NotFoundSKUs:    []model.NotFoundSku{},
	}
	now := time.Now()

	for _, sub := range subs {
		res, err := s.resolver.Resolve(ctx, tx, sub.SkuCode)
		if err != nil {
			return nil, err
		}
		if !res.Resolved() {
			result.NotFoundSKUs = append(result.NotFoundSKUs, model.NotFoundSku{
				SubmissionID: sub.ID,
				SkuCode:      sub.SkuCode,
				Quantity:     sub.Quantity,
				Reason:       res.Reason,
			})
			continue
		}

		// Every target needs a slot before anything is written for this
		// submission; a combo never gets partially restocked.
		slots := make([]*model.InventorySlot, len(res.Targets))
		missing := false
		for i, target := range res.Targets {
			slot, err := tx.EarliestSlot(ctx, target.SkuID)
			if err != nil {
				return nil, err
			}
			if slot == nil {
				missing = true
				break
			}
			slots[i] = slot
		}
		if missing {
			result.NotFoundSKUs = append(result.NotFoundSKUs, model.NotFoundSku{
				SubmissionID: sub.ID,
				SkuCode:      sub.SkuCode,
				Quantity:     sub.Quantity,
				Reason:       model.ReasonNoInventorySlots,
			})
			continue
		}

		for i, target := range res.Targets {
			qty := sub.Quantity * target.Quantity
			if err := tx.AddSlotQuantity(ctx, slots[i].ID, qty); err != nil {
				return nil, err
			}
			if err := tx.TouchSkuInventory(ctx, target.SkuID, now); err != nil {
				return nil, err
			}
			adj := &model.InventoryAdjustment{
				SubmissionID: sub.ID,
				SkuID:        target.SkuID,
				SkuCode:      target.SkuCode,
				SlotID:       slots[i].ID,
				Quantity:     qty,
				Source:       target.Source,
				Marketplace:  sub.Marketplace,
				AwbNumber:    sub.AwbNumber,
				AdjustedBy:   actor,
				AdjustedAt:   now,
			}
			if err := tx.InsertAdjustment(ctx, adj); err != nil {
				return nil, err
			}
		}

		if err := tx.MarkInventoryUpdated(ctx, sub.ID, actor, now); err != nil {
			return nil, err
		}
		result.TotalUpdated++
	}

	result.TotalNotFound = len(result.NotFoundSKUs)
	return result, nil
}
