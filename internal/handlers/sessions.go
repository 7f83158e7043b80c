package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"vtuwallet/internal/auth"
	"vtuwallet/internal/middleware"
	"vtuwallet/internal/money"
	"vtuwallet/internal/websocket"
)

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Open()
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, sess.ID, h.cfg.TokenTTL)
	if err != nil {
		_ = h.sessions.Close(sess.ID)
		h.respondServiceError(w, r, err)
		return
	}
	balance, points := sess.Ledger.Snapshot()
	h.logger.Info("session opened", zap.String("session_id", sess.ID))
	respondJSON(w, http.StatusCreated, map[string]any{
		"session_id":    sess.ID,
		"token":         token,
		"expires_in":    int(h.cfg.TokenTTL.Seconds()),
		"balance":       balance,
		"display":       money.FormatNaira(balance),
		"points":        points,
		"referral_code": sess.ReferralCode,
	})
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	if err := h.sessions.Close(sessionID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if h.hub != nil {
		h.hub.Disconnect(sessionID)
	}
	h.logger.Info("session closed", zap.String("session_id", sessionID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionIDFromContext(r.Context())
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "websocket_unavailable")
		return
	}
	websocket.ServeWS(w, r, h.upgrader, h.hub, sessionID)
}
