package handlers

import (
	"context"
	"time"

	"vtuwallet/internal/ledger"
	"vtuwallet/internal/services"
	"vtuwallet/internal/session"
	"vtuwallet/internal/store"
	"vtuwallet/internal/subaccount"
)

type SessionManager interface {
	Open() (*session.Session, error)
	Close(id string) error
	Exists(id string) bool
	Count() int
}

type WalletService interface {
	Settings() services.Settings
	Wallet(sessionID string) (services.WalletView, error)
	FundWallet(ctx context.Context, sessionID string, req services.FundRequest) (services.Receipt, error)
	Withdraw(ctx context.Context, sessionID string, req services.WithdrawRequest) (services.Receipt, error)
	SetPIN(sessionID, current, next string) error
	BuyAirtime(ctx context.Context, sessionID string, req services.AirtimeRequest) (services.Receipt, error)
	BuyData(ctx context.Context, sessionID string, req services.DataRequest) (services.Receipt, error)
	PayBill(ctx context.Context, sessionID string, req services.BillRequest) (services.Receipt, error)
	BuyRechargeCards(ctx context.Context, sessionID string, req services.RechargeRequest) (services.Receipt, error)
	FundBetting(ctx context.Context, sessionID string, req services.BettingRequest) (services.Receipt, error)
	CreateCard(ctx context.Context, sessionID, label string) (services.Receipt, error)
	FundCard(ctx context.Context, sessionID, cardID string, amount int64, reference string) (services.Receipt, error)
	ToggleCard(ctx context.Context, sessionID, cardID string) (subaccount.SubAccount, error)
	ListSubAccounts(sessionID string, kind subaccount.Kind) ([]subaccount.SubAccount, error)
	RedeemReward(ctx context.Context, sessionID, optionID, reference string) (services.Receipt, error)
	CreditReferral(ctx context.Context, sessionID, friendName string) (services.Receipt, error)
	Referrals(sessionID string) (services.ReferralSummary, error)
	ReferralCode(sessionID string) (string, error)
	Settle(ctx context.Context, sessionID, entryID string, status ledger.Status) (services.Receipt, error)
	Refund(ctx context.Context, sessionID, entryID, reason string) (services.Receipt, error)
	Transactions(sessionID string, filter ledger.Filter, limit int) ([]ledger.Entry, error)
	Transaction(sessionID, entryID string) (ledger.Entry, error)
	Analytics(sessionID string, from, to time.Time) (services.SpendSummary, error)
}

// ArchiveReader serves persisted history. It is nil when no database is configured.
type ArchiveReader interface {
	History(ctx context.Context, sessionID string, category ledger.Category, limit, offset int) ([]store.ArchivedEntry, error)
	Net(ctx context.Context, sessionID string) (int64, error)
	Audit(ctx context.Context, sessionID string, limit, offset int) ([]store.AuditRecord, error)
}
