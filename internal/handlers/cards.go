package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vtuwallet/internal/middleware"
	"vtuwallet/internal/money"
	"vtuwallet/internal/subaccount"
)

type createCardRequest struct {
	Label string `json:"label" validate:"omitempty,max=64"`
}

type fundCardRequest struct {
	Amount    int64  `json:"amount" validate:"gt=0"`
	Reference string `json:"reference" validate:"omitempty,max=64"`
}

type cardView struct {
	subaccount.SubAccount
	Display string `json:"display"`
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	cards, err := h.wallet.ListSubAccounts(sessionID, subaccount.KindVirtualCard)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	views := make([]cardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, cardView{SubAccount: card, Display: money.FormatCents(card.SubBalance)})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"cards":        views,
		"creation_fee": h.wallet.Settings().CardCreationFee,
		"usd_rate":     h.wallet.Settings().USDRate.String(),
	})
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.CreateCard(r.Context(), sessionID, req.Label)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) FundCard(w http.ResponseWriter, r *http.Request) {
	var req fundCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.FundCard(r.Context(), sessionID, chi.URLParam(r, "id"), req.Amount, reference(r, req.Reference))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) ToggleCard(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	card, err := h.wallet.ToggleCard(r.Context(), sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}
