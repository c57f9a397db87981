package handler

import (
	"net/http"
	"strconv"

	"rto-ops-api/internal/service"
	"rto-ops-api/pkg/apierror"
	"rto-ops-api/pkg/response"
)

const defaultDashboardMonths = 12

// DashboardHandler serves the aggregate overview page data.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Overview handles GET /api/v1/dashboard
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	months := defaultDashboardMonths
	if v := r.URL.Query().Get("months"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			months = n
		}
	}

	data, err := h.dashboard.Overview(r.Context(), months)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to load dashboard"))
		return
	}
	response.OK(w, data)
}
