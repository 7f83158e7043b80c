package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vtuwallet/internal/ledger"
	"vtuwallet/internal/middleware"
)

type settleRequest struct {
	Status ledger.Status `json:"status" validate:"required,oneof=completed failed"`
}

type refundRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=256"`
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_filter")
		return
	}
	limit, _ := parsePaging(r)
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	entries, err := h.wallet.Transactions(sessionID, filter, limit)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": entries})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	entry, err := h.wallet.Transaction(sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// SettleTransaction is the callback a payout provider uses to resolve a pending withdrawal.
func (h *Handler) SettleTransaction(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	receipt, err := h.wallet.Settle(r.Context(), sessionID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

func (h *Handler) RefundTransaction(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	receipt, err := h.wallet.Refund(r.Context(), sessionID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date_range")
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	summary, err := h.wallet.Analytics(sessionID, from, to)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) ListArchivedTransactions(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "archive_unavailable")
		return
	}
	category := ledger.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_filter")
		return
	}
	limit, offset := parsePaging(r)
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	entries, err := h.archive.History(r.Context(), sessionID, category, limit, offset)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	net, err := h.archive.Net(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": entries, "net": net, "limit": limit, "offset": offset})
}

func (h *Handler) ListAuditTrail(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "archive_unavailable")
		return
	}
	limit, offset := parsePaging(r)
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	records, err := h.archive.Audit(r.Context(), sessionID, limit, offset)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"audit": records, "limit": limit, "offset": offset})
}
