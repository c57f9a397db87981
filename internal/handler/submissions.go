package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"rto-ops-api/internal/middleware"
	"rto-ops-api/internal/model"
	"rto-ops-api/internal/repository"
	"rto-ops-api/internal/service"
	"rto-ops-api/pkg/apierror"
	"rto-ops-api/pkg/response"
)

// SubmissionHandler covers manual RTO submission entry, listing and claim
// resolution.
type SubmissionHandler struct {
	store     repository.SubmissionStore
	dashboard *service.DashboardService
}

func NewSubmissionHandler(store repository.SubmissionStore, dashboard *service.DashboardService) *SubmissionHandler {
	return &SubmissionHandler{store: store, dashboard: dashboard}
}

type createSubmissionRequest struct {
	Marketplace   string `json:"marketplace"`
	PickupPartner string `json:"pickup_partner"`
	OrderID       string `json:"order_id"`
	AwbNumber     string `json:"awb_number"`
	SkuCode       string `json:"sku_code"`
	Quantity      int64  `json:"quantity"`
	ItemCondition string `json:"item_condition"`
	ClaimStatus   string `json:"claim_status"`
	Remarks       string `json:"remarks"`
}

// Create handles POST /api/v1/submissions
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	var details []apierror.FieldError
	if strings.TrimSpace(req.Marketplace) == "" {
		details = append(details, apierror.FieldError{Field: "marketplace", Message: "required"})
	}
	if strings.TrimSpace(req.SkuCode) == "" {
		details = append(details, apierror.FieldError{Field: "sku_code", Message: "required"})
	}
	if req.Quantity < 1 {
		details = append(details, apierror.FieldError{Field: "quantity", Message: "must be at least 1"})
	}
	if !model.ValidCondition(req.ItemCondition) {
		details = append(details, apierror.FieldError{Field: "item_condition", Message: "unrecognized condition"})
	}
	if len(details) > 0 {
		response.Error(w, apierror.ValidationError("invalid submission", details...))
		return
	}

	claimStatus := req.ClaimStatus
	if claimStatus == "" {
		claimStatus = model.ClaimNone
	}

	submittedBy := ""
	if session := middleware.GetSessionFromContext(r.Context()); session != nil {
		submittedBy = session.Operator
	}

	sub := &model.RtoSubmission{
		Marketplace:   strings.TrimSpace(req.Marketplace),
		PickupPartner: strings.TrimSpace(req.PickupPartner),
		OrderID:       strings.TrimSpace(req.OrderID),
		AwbNumber:     strings.TrimSpace(req.AwbNumber),
		SkuCode:       strings.TrimSpace(req.SkuCode),
		Quantity:      req.Quantity,
		ItemCondition: req.ItemCondition,
		ClaimStatus:   claimStatus,
		Remarks:       req.Remarks,
		SubmittedBy:   submittedBy,
		CreatedAt:     time.Now(),
	}

	if err := h.store.CreateSubmission(r.Context(), sub); err != nil {
		response.Error(w, apierror.InternalError("failed to save submission"))
		return
	}

	if h.dashboard != nil {
		h.dashboard.Invalidate(r.Context())
	}
	response.Created(w, sub)
}

// List handles GET /api/v1/submissions
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.SubmissionFilter{
		Marketplace:      q.Get("marketplace"),
		ItemCondition:    q.Get("condition"),
		PendingInventory: q.Get("pending") == "true",
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	subs, err := h.store.ListSubmissions(r.Context(), filter)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to list submissions"))
		return
	}
	if subs == nil {
		subs = []model.RtoSubmission{}
	}
	response.OK(w, subs)
}

// Adjustments handles GET /api/v1/submissions/{id}/adjustments
func (h *SubmissionHandler) Adjustments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(w, apierror.BadRequest("invalid submission id"))
		return
	}

	adjs, err := h.store.ListAdjustments(r.Context(), id)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to list adjustments"))
		return
	}
	if adjs == nil {
		adjs = []model.InventoryAdjustment{}
	}
	response.OK(w, adjs)
}

type resolveClaimRequest struct {
	Status string `json:"status"`
}

// ResolveClaim handles POST /api/v1/submissions/{id}/claim
func (h *SubmissionHandler) ResolveClaim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(w, apierror.BadRequest("invalid submission id"))
		return
	}

	var req resolveClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	if req.Status != model.ClaimApproved && req.Status != model.ClaimRejected {
		response.Error(w, apierror.ValidationError("invalid claim status",
			apierror.FieldError{Field: "status", Message: "must be Approved or Rejected"}))
		return
	}

	actor := "system"
	if session := middleware.GetSessionFromContext(r.Context()); session != nil {
		actor = session.Operator
	}

	if err := h.store.MarkClaimResolved(r.Context(), id, req.Status, actor, time.Now()); err != nil {
		response.Error(w, apierror.Conflict("submission not found or claim already resolved"))
		return
	}
	response.OK(w, map[string]any{"id": id, "claim_status": req.Status})
}
