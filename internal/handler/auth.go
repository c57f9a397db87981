package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"rto-ops-api/internal/config"
	"rto-ops-api/internal/model"
	"rto-ops-api/internal/service"
	"rto-ops-api/pkg/apierror"
	"rto-ops-api/pkg/response"
)

// AuthHandler issues and revokes operator session tokens.
type AuthHandler struct {
	tokens    *service.TokenService
	operators map[string]config.OperatorCred
}

func NewAuthHandler(tokens *service.TokenService, operators map[string]config.OperatorCred) *AuthHandler {
	return &AuthHandler{tokens: tokens, operators: operators}
}

type loginRequest struct {
	Operator string `json:"operator"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Operator string `json:"operator"`
	Role     string `json:"role"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.tokens == nil {
		response.Error(w, apierror.ServiceUnavailable("session login requires Redis"))
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	cred, ok := h.operators[req.Operator]
	if !ok || subtle.ConstantTimeCompare([]byte(cred.Password), []byte(req.Password)) != 1 {
		response.Error(w, apierror.Unauthorized("invalid operator credentials"))
		return
	}

	token, err := h.tokens.GenerateToken(r.Context(), model.OperatorSession{
		Operator: req.Operator,
		Role:     cred.Role,
	})
	if err != nil {
		response.Error(w, apierror.InternalError("failed to create session"))
		return
	}

	response.OK(w, loginResponse{Token: token, Operator: req.Operator, Role: cred.Role})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.tokens == nil {
		response.NoContent(w)
		return
	}
	if token := r.Header.Get("X-Token"); token != "" {
		_ = h.tokens.RevokeToken(r.Context(), token)
	}
	response.NoContent(w)
}
