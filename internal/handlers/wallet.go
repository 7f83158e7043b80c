package handlers

import (
	"net/http"

	"vtuwallet/internal/middleware"
	"vtuwallet/internal/services"
)

type fundRequest struct {
	Amount    int64  `json:"amount" validate:"gt=0"`
	Method    string `json:"method" validate:"omitempty,oneof=card transfer ussd"`
	Reference string `json:"reference" validate:"omitempty,max=64"`
}

type withdrawRequest struct {
	Amount        int64  `json:"amount" validate:"gt=0"`
	BankName      string `json:"bank_name" validate:"required,max=64"`
	AccountNumber string `json:"account_number" validate:"required,accountno"`
	AccountName   string `json:"account_name" validate:"required,max=128"`
	PIN           string `json:"pin" validate:"omitempty,pin"`
	Reference     string `json:"reference" validate:"omitempty,max=64"`
}

type pinRequest struct {
	CurrentPIN string `json:"current_pin" validate:"omitempty,pin"`
	NewPIN     string `json:"new_pin" validate:"required,pin"`
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	view, err := h.wallet.Wallet(sessionID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) FundWallet(w http.ResponseWriter, r *http.Request) {
	var req fundRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Method == "" {
		req.Method = "card"
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.FundWallet(r.Context(), sessionID, services.FundRequest{
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: reference(r, req.Reference),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.Withdraw(r.Context(), sessionID, services.WithdrawRequest{
		Amount:        req.Amount,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		PIN:           req.PIN,
		Reference:     reference(r, req.Reference),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, receipt)
}

func (h *Handler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	if err := h.wallet.SetPIN(sessionID, req.CurrentPIN, req.NewPIN); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
