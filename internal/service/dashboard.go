package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"rto-ops-api/internal/cache"
	"rto-ops-api/internal/model"
	"rto-ops-api/internal/repository"
)

const (
	dashboardTTL = 5 * time.Minute

	overviewCacheKey = "dashboard:overview"
)

// DashboardData is the combined payload served to the dashboard page.
type DashboardData struct {
	Summary []model.MarketplaceSummary `json:"summary"`
	Monthly []model.MonthlyBreakdown   `json:"monthly"`
}

// DashboardService serves aggregate reports with a short cache in front of
// the store. Writes that change the aggregates call Invalidate.
type DashboardService struct {
	store repository.DashboardStore
	cache cache.Cache
}

func NewDashboardService(store repository.DashboardStore, c cache.Cache) *DashboardService {
	return &DashboardService{store: store, cache: c}
}

// Overview returns the dashboard payload, cached for dashboardTTL.
func (s *DashboardService) Overview(ctx context.Context, months int) (*DashboardData, error) {
	data, err := s.cache.GetOrSet(ctx, overviewCacheKey, dashboardTTL, func() ([]byte, error) {
		fresh, err := s.load(ctx, months)
		if err != nil {
			return nil, err
		}
		return json.Marshal(fresh)
	})
	if err != nil {
		return nil, err
	}

	var out DashboardData
	if err := json.Unmarshal(data, &out); err != nil {
		// A corrupt cache entry should not take the dashboard down.
		log.Printf("[DashboardService] Dropping unreadable cache entry: %v", err)
		s.cache.Delete(ctx, overviewCacheKey)
		return s.load(ctx, months)
	}
	return &out, nil
}

func (s *DashboardService) load(ctx context.Context, months int) (*DashboardData, error) {
	summary, err := s.store.ConditionSummary(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := s.store.MonthlyBreakdown(ctx, months)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = []model.MarketplaceSummary{}
	}
	if monthly == nil {
		monthly = []model.MonthlyBreakdown{}
	}
	return &DashboardData{Summary: summary, Monthly: monthly}, nil
}

// Invalidate drops the cached aggregates after a write.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, overviewCacheKey); err != nil {
		log.Printf("[DashboardService] Failed to invalidate cache: %v", err)
	}
}
