package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"rto-ops-api/internal/middleware"
	"rto-ops-api/internal/service"
	"rto-ops-api/pkg/apierror"
	"rto-ops-api/pkg/response"
)

// ReconcileHandler exposes the bulk inventory reconciliation endpoint.
type ReconcileHandler struct {
	reconcile *service.ReconcileService
	dashboard *service.DashboardService
}

func NewReconcileHandler(reconcile *service.ReconcileService, dashboard *service.DashboardService) *ReconcileHandler {
	return &ReconcileHandler{reconcile: reconcile, dashboard: dashboard}
}

type reconcileRequest struct {
	// Selected ids arrive from checkboxes, so they may be numbers or
	// numeric strings depending on the client.
	SelectedIDs []json.Number `json:"selectedIds"`
}

type reconcileResponse struct {
	Success       bool               `json:"success"`
	Message       string             `json:"message"`
	TotalUpdated  int                `json:"totalUpdated"`
	TotalNotFound int                `json:"totalNotFound"`
	NotFoundSKUs  []notFoundSkuEntry `json:"notFoundSKUs"`
}

type notFoundSkuEntry struct {
	SubmissionID int64  `json:"submissionId"`
	SkuCode      string `json:"skuCode"`
	Quantity     int64  `json:"quantity"`
	Reason       string `json:"reason"`
}

// Reconcile handles POST /api/v1/inventory/reconcile
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	ids := make([]int64, 0, len(req.SelectedIDs))
	for _, n := range req.SelectedIDs {
		id, err := n.Int64()
		if err != nil {
			response.Error(w, apierror.ValidationError("selectedIds must be integers",
				apierror.FieldError{Field: "selectedIds", Message: "not an integer: " + n.String()}))
			return
		}
		ids = append(ids, id)
	}

	actor := "system"
	if session := middleware.GetSessionFromContext(r.Context()); session != nil {
		actor = session.Operator
	}

	result, err := h.reconcile.Reconcile(r.Context(), ids, actor)
	if err != nil {
		if errors.Is(err, service.ErrNoSelection) {
			response.Error(w, apierror.BadRequest("no submission ids selected"))
			return
		}
		response.Error(w, apierror.InternalError("reconciliation failed"))
		return
	}

	if h.dashboard != nil && result.TotalUpdated > 0 {
		h.dashboard.Invalidate(r.Context())
	}

	resp := reconcileResponse{
		Success:       true,
		Message:       reconcileMessage(result.TotalUpdated, result.TotalNotFound),
		TotalUpdated:  result.TotalUpdated,
		TotalNotFound: result.TotalNotFound,
		NotFoundSKUs:  make([]notFoundSkuEntry, 0, len(result.NotFoundSKUs)),
	}
	for _, nf := range result.NotFoundSKUs {
		resp.NotFoundSKUs = append(resp.NotFoundSKUs, notFoundSkuEntry(nf))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func reconcileMessage(updated, notFound int) string {
	switch {
	case updated == 0 && notFound == 0:
		return "No eligible submissions in selection"
	case notFound == 0:
		return "Inventory updated for all selected submissions"
	default:
		return "Inventory updated with some unresolved SKUs"
	}
}
