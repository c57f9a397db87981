package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"rto-ops-api/internal/model"
	"rto-ops-api/internal/repository"
	"rto-ops-api/pkg/apierror"
	"rto-ops-api/pkg/response"
)

// CatalogHandler maintains SKU master data: plain SKUs, combos with children
// and inventory slots.
type CatalogHandler struct {
	store repository.CatalogStore
}

func NewCatalogHandler(store repository.CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

type createSkuRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	IsCombo bool   `json:"is_combo"`
}

// CreateSku handles POST /api/v1/catalog/skus
func (h *CatalogHandler) CreateSku(w http.ResponseWriter, r *http.Request) {
	var req createSkuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		response.Error(w, apierror.ValidationError("invalid sku",
			apierror.FieldError{Field: "code", Message: "required"}))
		return
	}

	sku := &model.SkuMaster{
		Code:    strings.TrimSpace(req.Code),
		Name:    strings.TrimSpace(req.Name),
		IsCombo: req.IsCombo,
	}
	if err := h.store.CreateSku(r.Context(), sku); err != nil {
		response.Error(w, apierror.Conflict("sku code already exists"))
		return
	}
	response.Created(w, sku)
}

type createComboRequest struct {
	Name  string `json:"name"`
	Items []struct {
		ChildSkuID int64 `json:"child_sku_id"`
		Quantity   int64 `json:"quantity"`
	} `json:"items"`
}

// CreateCombo handles POST /api/v1/catalog/combos
func (h *CatalogHandler) CreateCombo(w http.ResponseWriter, r *http.Request) {
	var req createComboRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		response.Error(w, apierror.ValidationError("invalid combo",
			apierror.FieldError{Field: "name", Message: "required"}))
		return
	}

	combo := &model.Combo{Name: strings.TrimSpace(req.Name)}
	if err := h.store.CreateCombo(r.Context(), combo); err != nil {
		response.Error(w, apierror.Conflict("combo name already exists"))
		return
	}

	items := make([]model.ComboItem, 0, len(req.Items))
	for _, it := range req.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		item := model.ComboItem{ComboID: combo.ID, ChildSkuID: it.ChildSkuID, Quantity: qty}
		if err := h.store.AddComboItem(r.Context(), &item); err != nil {
			response.Error(w, apierror.InternalError("failed to add combo item"))
			return
		}
		items = append(items, item)
	}

	response.Created(w, map[string]any{"combo": combo, "items": items})
}

type createSlotRequest struct {
	SkuID      int64   `json:"sku_id"`
	Quantity   int64   `json:"quantity"`
	BatchCode  *string `json:"batch_code"`
	ExpiryDate *string `json:"expiry_date"` // YYYY-MM-DD
}

// CreateSlot handles POST /api/v1/catalog/slots
func (h *CatalogHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req createSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	if req.SkuID < 1 {
		response.Error(w, apierror.ValidationError("invalid slot",
			apierror.FieldError{Field: "sku_id", Message: "required"}))
		return
	}

	var expiry *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			response.Error(w, apierror.ValidationError("invalid slot",
				apierror.FieldError{Field: "expiry_date", Message: "must be YYYY-MM-DD"}))
			return
		}
		expiry = &t
	}

	slot := &model.InventorySlot{
		SkuID:      req.SkuID,
		Quantity:   req.Quantity,
		BatchCode:  req.BatchCode,
		ExpiryDate: expiry,
		CreatedAt:  time.Now(),
	}
	if err := h.store.CreateSlot(r.Context(), slot); err != nil {
		response.Error(w, apierror.InternalError("failed to create slot"))
		return
	}
	response.Created(w, slot)
}
