package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"vtuwallet/internal/ledger"
	"vtuwallet/internal/rewards"
	"vtuwallet/internal/services"
	"vtuwallet/internal/session"
	"vtuwallet/internal/subaccount"
	"vtuwallet/internal/validator"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeAndValidate reads a JSON body into dst and applies its validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return false
	}
	if err := validator.Struct(dst); err != nil {
		var fields validator.Errors
		if errors.As(err, &fields) {
			respondJSON(w, http.StatusBadRequest, map[string]any{"error": "validation_failed", "fields": fields})
			return false
		}
		respondError(w, http.StatusBadRequest, "validation_failed")
		return false
	}
	return true
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{ledger.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},
	{ledger.ErrInsufficientPoints, http.StatusBadRequest, "insufficient_points"},
	{ledger.ErrUnknownCategory, http.StatusBadRequest, "unknown_category"},
	{ledger.ErrReferenceConflict, http.StatusConflict, "reference_conflict"},
	{ledger.ErrEntryNotFound, http.StatusNotFound, "transaction_not_found"},
	{ledger.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{ledger.ErrNotRefundable, http.StatusConflict, "not_refundable"},
	{ledger.ErrAlreadyRefunded, http.StatusConflict, "already_refunded"},
	{subaccount.ErrNotFound, http.StatusNotFound, "sub_account_not_found"},
	{subaccount.ErrFrozen, http.StatusConflict, "card_frozen"},
	{subaccount.ErrNotVirtualCard, http.StatusBadRequest, "not_a_virtual_card"},
	{subaccount.ErrAmountTooSmall, http.StatusBadRequest, "amount_too_small"},
	{subaccount.ErrInvalidWallet, http.StatusBadRequest, "invalid_betting_wallet"},
	{session.ErrNotFound, http.StatusUnauthorized, "session_not_found"},
	{session.ErrPINRequired, http.StatusForbidden, "pin_required"},
	{session.ErrPINMismatch, http.StatusForbidden, "pin_mismatch"},
	{rewards.ErrUnknownOption, http.StatusNotFound, "reward_not_found"},
	{services.ErrUnknownNetwork, http.StatusBadRequest, "unknown_network"},
	{services.ErrUnknownPlan, http.StatusBadRequest, "unknown_plan"},
	{services.ErrUnknownProvider, http.StatusBadRequest, "unknown_provider"},
	{services.ErrUnknownPlatform, http.StatusBadRequest, "unknown_platform"},
	{services.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{services.ErrInvalidDenom, http.StatusBadRequest, "invalid_denomination"},
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			respondError(w, m.status, m.code)
			return
		}
	}
	h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal_error")
}
