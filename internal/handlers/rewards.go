package handlers

import (
	"net/http"
	"net/url"

	"github.com/skip2/go-qrcode"

	"vtuwallet/internal/middleware"
	"vtuwallet/internal/rewards"
)

type redeemRequest struct {
	OptionID  string `json:"option_id" validate:"required"`
	Reference string `json:"reference" validate:"omitempty,max=64"`
}

type referralRequest struct {
	FriendName string `json:"friend_name" validate:"required,max=64"`
}

func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	view, err := h.wallet.Wallet(sessionID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"points":   view.Points,
		"standing": view.Standing,
		"tiers":    rewards.Tiers(),
		"options":  h.wallet.Settings().Catalog.Options(),
	})
}

func (h *Handler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.RedeemReward(r.Context(), sessionID, req.OptionID, reference(r, req.Reference))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	summary, err := h.wallet.Referrals(sessionID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"link":    h.referralLink(summary.Code),
	})
}

func (h *Handler) CreditReferral(w http.ResponseWriter, r *http.Request) {
	var req referralRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	receipt, err := h.wallet.CreditReferral(r.Context(), sessionID, req.FriendName)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

// ReferralQR renders the invite link as a PNG.
func (h *Handler) ReferralQR(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	code, err := h.wallet.ReferralCode(sessionID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	png, err := qrcode.Encode(h.referralLink(code), qrcode.Medium, 256)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) referralLink(code string) string {
	return h.cfg.PublicURL + "/join?ref=" + url.QueryEscape(code)
}
