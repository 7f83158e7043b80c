package handlers

import (
	"net/http"

	"vtuwallet/internal/middleware"
	"vtuwallet/internal/services"
	"vtuwallet/internal/subaccount"
)

type airtimeRequest struct {
	Network   string `json:"network" validate:"required"`
	Phone     string `json:"phone" validate:"required,ngphone"`
	Amount    int64  `json:"amount" validate:"gt=0"`
	Reference string `json:"reference" validate:"omitempty,max=64"`
}

type dataRequest struct {
	Network   string `json:"network" validate:"required"`
	Phone     string `json:"phone" validate:"required,ngphone"`
	PlanID    string `json:"plan_id" validate:"required"`
	Reference string `json:"reference" validate:"omitempty,max=64"`
}

type billRequest struct {
	Service    string `json:"service" validate:"required"`
	Provider   string `json:"provider" validate:"required"`
	CustomerID string `json:"customer_id" validate:"required,max=32"`
	Amount     int64  `json:"amount" validate:"gt=0"`
	Reference  string `json:"reference" validate:"omitempty,max=64"`
}

type rechargeRequest struct {
	Network      string `json:"network" validate:"required"`
	Denomination int64  `json:"denomination" validate:"gt=0"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	Reference    string `json:"reference" validate:"omitempty,max=64"`
}

type bettingRequest struct {
	Platform       string `json:"platform" validate:"required"`
	PlatformUserID string `json:"platform_user_id" validate:"required,max=64"`
	Amount         int64  `json:"amount" validate:"gt=0"`
	Reference      string `json:"reference" validate:"omitempty,max=64"`
}

func (h *Handler) BuyAirtime(w http.ResponseWriter, r *http.Request) {
	var req airtimeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.BuyAirtime(r.Context(), sessionID, services.AirtimeRequest{
		Network:   req.Network,
		Phone:     req.Phone,
		Amount:    req.Amount,
		Reference: reference(r, req.Reference),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) BuyData(w http.ResponseWriter, r *http.Request) {
	var req dataRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.BuyData(r.Context(), sessionID, services.DataRequest{
		Network:   req.Network,
		Phone:     req.Phone,
		PlanID:    req.PlanID,
		Reference: reference(r, req.Reference),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) ListDataPlans(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"networks": services.Networks(),
		"plans":    services.DataPlans(),
	})
}

func (h *Handler) PayBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.PayBill(r.Context(), sessionID, services.BillRequest{
		Service:    req.Service,
		Provider:   req.Provider,
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Reference:  reference(r, req.Reference),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) BuyRechargeCards(w http.ResponseWriter, r *http.Request) {
	var req rechargeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.BuyRechargeCards(r.Context(), sessionID, services.RechargeRequest{
		Network:      req.Network,
		Denomination: req.Denomination,
		Quantity:     req.Quantity,
		Reference:    reference(r, req.Reference),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) FundBetting(w http.ResponseWriter, r *http.Request) {
	var req bettingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.FundBetting(r.Context(), sessionID, services.BettingRequest{
		Platform:       req.Platform,
		PlatformUserID: req.PlatformUserID,
		Amount:         req.Amount,
		Reference:      reference(r, req.Reference),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) ListBettingWallets(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	wallets, err := h.wallet.ListSubAccounts(sessionID, subaccount.KindBettingWallet)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"platforms": services.BettingPlatforms(),
		"wallets":   wallets,
	})
}
