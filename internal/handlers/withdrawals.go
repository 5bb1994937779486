package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rzkmi/payoutdesk/internal/apperrors"
	"github.com/rzkmi/payoutdesk/internal/logger"
	"github.com/rzkmi/payoutdesk/internal/middleware"
	"github.com/rzkmi/payoutdesk/internal/models"
	"github.com/rzkmi/payoutdesk/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	withdrawalService service.WithdrawalService
}

func NewHandler(withdrawalService service.WithdrawalService) *Handler {
	return &Handler{
		withdrawalService: withdrawalService,
	}
}

func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	withdrawal, err := h.withdrawalService.Create(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, withdrawal)
	case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("create withdrawal error", zap.Error(err))
	}
}

func (h *Handler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	filter := models.ListFilter{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.Status(raw)
		if !status.Valid() {
			http.Error(w, "invalid status filter", http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}

	if raw := r.URL.Query().Get("risk"); raw != "" {
		risk := models.RiskScore(raw)
		if !risk.Valid() {
			http.Error(w, "invalid risk filter", http.StatusBadRequest)
			return
		}
		filter.Risk = &risk
	}

	withdrawals, err := h.withdrawalService.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("failed to list withdrawals", zap.Error(err))
		return
	}

	if len(withdrawals) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, withdrawals)
}

func (h *Handler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	withdrawal, err := h.withdrawalService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

func (h *Handler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	withdrawal, err := h.withdrawalService.Approve(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

type payRequest struct {
	ProofURL *string `json:"proof_url,omitempty"`
}

func (h *Handler) PayWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req payRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid input", http.StatusBadRequest)
			return
		}
	}

	withdrawal, err := h.withdrawalService.PayNow(r.Context(), chi.URLParam(r, "id"), actor, req.ProofURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	withdrawal, err := h.withdrawalService.Reject(r.Context(), chi.URLParam(r, "id"), actor, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

type proofRequest struct {
	ProofURL string `json:"proof_url"`
}

func (h *Handler) AttachProof(w http.ResponseWriter, r *http.Request) {
	var req proofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	withdrawal, err := h.withdrawalService.AttachProof(r.Context(), chi.URLParam(r, "id"), req.ProofURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

func (h *Handler) ForceRelease(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	withdrawal, err := h.withdrawalService.ForceRelease(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawal)
}

type errorResponse struct {
	Error      string `json:"error"`
	HolderName string `json:"holder_name,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var claimed *apperrors.AlreadyClaimedError
	switch {
	case errors.As(err, &claimed):
		writeJSON(w, http.StatusConflict, errorResponse{Error: claimed.Error(), HolderName: claimed.HolderName})
	case errors.Is(err, apperrors.ErrWithdrawalNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, apperrors.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, apperrors.ErrEmptyRejectionReason), errors.Is(err, apperrors.ErrMissingProof):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
		logger.Log.Error("withdrawal handler error", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response json", zap.Error(err))
	}
}
