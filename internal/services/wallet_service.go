package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vtuwallet/internal/ledger"
	"vtuwallet/internal/money"
	"vtuwallet/internal/rewards"
	"vtuwallet/internal/session"
	"vtuwallet/internal/subaccount"
	"vtuwallet/internal/websocket"
)

var (
	ErrUnknownNetwork  = errors.New("unknown network")
	ErrUnknownPlan     = errors.New("unknown data plan")
	ErrUnknownProvider = errors.New("unknown bill provider")
	ErrUnknownPlatform = errors.New("unknown betting platform")
	ErrInvalidQuantity = errors.New("recharge card quantity must be between 1 and 10")
	ErrInvalidDenom    = errors.New("unsupported recharge card denomination")
)

// Sessions resolves the wallet owned by an opaque session id.
type Sessions interface {
	Get(id string) (*session.Session, error)
}

type Archive interface {
	RecordEntry(ctx context.Context, sessionID, action string, entry ledger.Entry, account *subaccount.SubAccount) error
	RecordSettlement(ctx context.Context, sessionID string, entry ledger.Entry) error
	RecordSubAccount(ctx context.Context, sessionID, action string, account subaccount.SubAccount) error
}

type BalanceHub interface {
	BroadcastBalance(sessionID string, update websocket.BalanceUpdate)
}

type Settings struct {
	CardCreationFee int64
	USDRate         decimal.Decimal
	ReferralBonus   int64
	Catalog         rewards.Catalog
}

// WalletService runs every purchase flow against the caller's session ledger, then
// mirrors the committed entry to the archive and pushes the new balance.
type WalletService struct {
	sessions Sessions
	archive  Archive
	hub      BalanceHub
	settings Settings
	logger   *zap.Logger
	pins     PinGenerator
	now      func() time.Time
}

func NewWalletService(sessions Sessions, archive Archive, hub BalanceHub, settings Settings, logger *zap.Logger) *WalletService {
	if archive == nil {
		archive = discardArchive{}
	}
	return &WalletService{
		sessions: sessions,
		archive:  archive,
		hub:      hub,
		settings: settings,
		logger:   logger,
		pins:     randomPins,
		now:      time.Now,
	}
}

func (s *WalletService) Settings() Settings {
	return s.settings
}

type Receipt struct {
	Entry      ledger.Entry           `json:"entry"`
	Balance    int64                  `json:"balance"`
	Points     int64                  `json:"points"`
	SubAccount *subaccount.SubAccount `json:"sub_account,omitempty"`
	Pins       []RechargePin          `json:"pins,omitempty"`
	Reward     *rewards.Option        `json:"reward,omitempty"`
}

type WalletView struct {
	Balance      int64            `json:"balance"`
	Display      string           `json:"display"`
	Points       int64            `json:"points"`
	Standing     rewards.Standing `json:"standing"`
	HasPIN       bool             `json:"has_pin"`
	ReferralCode string           `json:"referral_code"`
}

func (s *WalletService) Wallet(sessionID string) (WalletView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return WalletView{}, err
	}
	balance, points := sess.Ledger.Snapshot()
	return WalletView{
		Balance:      balance,
		Display:      money.FormatNaira(balance),
		Points:       points,
		Standing:     rewards.StandingFor(points),
		HasPIN:       sess.HasPIN(),
		ReferralCode: sess.ReferralCode,
	}, nil
}

// committed runs the post-commit side effects. Archive failures are logged, never returned:
// the ledger has already accepted the operation.
func (s *WalletService) committed(ctx context.Context, sess *session.Session, action string, entry ledger.Entry, account *subaccount.SubAccount) Receipt {
	if err := s.archive.RecordEntry(ctx, sess.ID, action, entry, account); err != nil {
		s.logger.Warn("archive entry",
			zap.String("session_id", sess.ID),
			zap.String("entry_id", entry.ID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
	balance, points := s.broadcast(sess, entry.ID)
	s.logger.Info("wallet entry committed",
		zap.String("session_id", sess.ID),
		zap.String("entry_id", entry.ID),
		zap.String("category", string(entry.Category)),
		zap.Int64("amount", entry.Amount),
		zap.String("status", string(entry.Status)),
	)
	return Receipt{Entry: entry, Balance: balance, Points: points, SubAccount: account}
}

func (s *WalletService) broadcast(sess *session.Session, entryID string) (int64, int64) {
	balance, points := sess.Ledger.Snapshot()
	if s.hub != nil {
		s.hub.BroadcastBalance(sess.ID, websocket.BalanceUpdate{
			SessionID: sess.ID,
			Balance:   balance,
			Display:   money.FormatNaira(balance),
			Points:    points,
			EntryID:   entryID,
			At:        s.now().UTC(),
		})
	}
	return balance, points
}

func withReference(metadata map[string]string, reference string) map[string]string {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	if reference != "" {
		metadata[ledger.MetaReference] = reference
	}
	return metadata
}

type discardArchive struct{}

func (discardArchive) RecordEntry(context.Context, string, string, ledger.Entry, *subaccount.SubAccount) error {
	return nil
}

func (discardArchive) RecordSettlement(context.Context, string, ledger.Entry) error {
	return nil
}

func (discardArchive) RecordSubAccount(context.Context, string, string, subaccount.SubAccount) error {
	return nil
}
