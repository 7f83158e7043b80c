package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gorilla "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vtuwallet/internal/config"
	"vtuwallet/internal/middleware"
	"vtuwallet/internal/websocket"
)

type Handler struct {
	cfg      config.Config
	sessions SessionManager
	wallet   WalletService
	archive  ArchiveReader
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
	logger   *zap.Logger
}

func New(cfg config.Config, sessions SessionManager, wallet WalletService, archive ArchiveReader, hub *websocket.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		sessions: sessions,
		wallet:   wallet,
		archive:  archive,
		hub:      hub,
		upgrader: websocket.NewUpgrader(cfg.AllowedOrigins),
		logger:   logger,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(h.logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/sessions", h.OpenSession)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": h.sessions.Count()})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Use(middleware.RequireSession(h.sessions))

		r.Delete("/sessions/current", h.CloseSession)
		r.Get("/ws", h.WSBalances)

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", h.GetWallet)
			r.Post("/fund", h.FundWallet)
			r.Post("/withdraw", h.Withdraw)
			r.Put("/pin", h.SetPIN)
		})

		r.Post("/airtime", h.BuyAirtime)
		r.Post("/data", h.BuyData)
		r.Get("/data/plans", h.ListDataPlans)
		r.Post("/bills", h.PayBill)
		r.Post("/recharge-cards", h.BuyRechargeCards)
		r.Post("/betting/fund", h.FundBetting)
		r.Get("/betting/wallets", h.ListBettingWallets)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", h.ListCards)
			r.Post("/", h.CreateCard)
			r.Post("/{id}/fund", h.FundCard)
			r.Post("/{id}/toggle", h.ToggleCard)
		})

		r.Get("/rewards", h.ListRewards)
		r.Post("/rewards/redeem", h.RedeemReward)

		r.Get("/referrals", h.ListReferrals)
		r.Post("/referrals/credit", h.CreditReferral)
		r.Get("/referrals/qr", h.ReferralQR)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Get("/archive", h.ListArchivedTransactions)
			r.Get("/audit", h.ListAuditTrail)
			r.Get("/{id}", h.GetTransaction)
		})
		r.Get("/analytics", h.Analytics)
	})

	// Settlement outcomes and refunds come from the payout provider, never the wallet owner.
	router.Route("/provider/sessions/{sessionID}/transactions/{id}", func(r chi.Router) {
		r.Use(middleware.RequireProvider(h.cfg.ProviderKey))
		r.Post("/settle", h.SettleTransaction)
		r.Post("/refund", h.RefundTransaction)
	})
	return router
}
