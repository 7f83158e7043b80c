package services

import (
	"context"
	"strconv"

	"vtuwallet/internal/ledger"
)

type FundRequest struct {
	Amount    int64
	Method    string
	Reference string
}

func (s *WalletService) FundWallet(ctx context.Context, sessionID string, req FundRequest) (Receipt, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.Credit(ledger.CategoryWalletFunding, req.Amount, withReference(map[string]string{
		"method": req.Method,
	}, req.Reference))
	if err != nil {
		return Receipt{}, err
	}
	return s.committed(ctx, sess, "wallet.fund", entry, nil), nil
}

type WithdrawRequest struct {
	Amount        int64
	BankName      string
	AccountNumber string
	AccountName   string
	PIN           string
	Reference     string
}

// Withdraw holds the amount as a pending entry until the bank transfer settles.
func (s *WalletService) Withdraw(ctx context.Context, sessionID string, req WithdrawRequest) (Receipt, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	if err := sess.VerifyPIN(req.PIN); err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.Hold(ledger.CategoryWalletWithdrawal, req.Amount, withReference(map[string]string{
		"bank_name":      req.BankName,
		"account_number": req.AccountNumber,
		"account_name":   req.AccountName,
	}, req.Reference))
	if err != nil {
		return Receipt{}, err
	}
	return s.committed(ctx, sess, "wallet.withdraw", entry, nil), nil
}

func (s *WalletService) SetPIN(sessionID, current, next string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return sess.SetPIN(current, next)
}

type AirtimeRequest struct {
	Network   string
	Phone     string
	Amount    int64
	Reference string
}

func (s *WalletService) BuyAirtime(ctx context.Context, sessionID string, req AirtimeRequest) (Receipt, error) {
	if !validNetwork(req.Network) {
		return Receipt{}, ErrUnknownNetwork
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.Debit(ledger.CategoryAirtime, req.Amount, withReference(map[string]string{
		"network": req.Network,
		"phone":   req.Phone,
	}, req.Reference))
	if err != nil {
		return Receipt{}, err
	}
	return s.committed(ctx, sess, "airtime.purchase", entry, nil), nil
}

type DataRequest struct {
	Network   string
	Phone     string
	PlanID    string
	Reference string
}

func (s *WalletService) BuyData(ctx context.Context, sessionID string, req DataRequest) (Receipt, error) {
	if !validNetwork(req.Network) {
		return Receipt{}, ErrUnknownNetwork
	}
	plan, ok := findPlan(req.PlanID)
	if !ok {
		return Receipt{}, ErrUnknownPlan
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.Debit(ledger.CategoryData, plan.Price, withReference(map[string]string{
		"network": req.Network,
		"phone":   req.Phone,
		"plan":    plan.Size,
	}, req.Reference))
	if err != nil {
		return Receipt{}, err
	}
	return s.committed(ctx, sess, "data.purchase", entry, nil), nil
}

type BillRequest struct {
	Service    string
	Provider   string
	CustomerID string
	Amount     int64
	Reference  string
}

func (s *WalletService) PayBill(ctx context.Context, sessionID string, req BillRequest) (Receipt, error) {
	if !validBillProvider(req.Service, req.Provider) {
		return Receipt{}, ErrUnknownProvider
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.Debit(ledger.CategoryBill, req.Amount, withReference(map[string]string{
		"service":     req.Service,
		"provider":    req.Provider,
		"customer_id": req.CustomerID,
	}, req.Reference))
	if err != nil {
		return Receipt{}, err
	}
	return s.committed(ctx, sess, "bill.payment", entry, nil), nil
}

type RechargeRequest struct {
	Network      string
	Denomination int64
	Quantity     int
	Reference    string
}

// BuyRechargeCards charges denomination times quantity and returns the printed vouchers.
// Vouchers are generated before the debit so a generator failure charges nothing.
func (s *WalletService) BuyRechargeCards(ctx context.Context, sessionID string, req RechargeRequest) (Receipt, error) {
	if !validNetwork(req.Network) {
		return Receipt{}, ErrUnknownNetwork
	}
	if req.Quantity < 1 || req.Quantity > maxRechargeQuantity {
		return Receipt{}, ErrInvalidQuantity
	}
	if !validDenomination(req.Denomination) {
		return Receipt{}, ErrInvalidDenom
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	pins, err := s.pins(req.Network, req.Quantity)
	if err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.Debit(ledger.CategoryRechargeCard, req.Denomination*int64(req.Quantity), withReference(map[string]string{
		"network":      req.Network,
		"denomination": strconv.FormatInt(req.Denomination, 10),
		"quantity":     strconv.Itoa(req.Quantity),
	}, req.Reference))
	if err != nil {
		return Receipt{}, err
	}
	receipt := s.committed(ctx, sess, "recharge.purchase", entry, nil)
	receipt.Pins = pins
	return receipt, nil
}

type BettingRequest struct {
	Platform       string
	PlatformUserID string
	Amount         int64
	Reference      string
}

// FundBetting opens the platform wallet on first use and records a pass-through transfer.
func (s *WalletService) FundBetting(ctx context.Context, sessionID string, req BettingRequest) (Receipt, error) {
	if !validPlatform(req.Platform) {
		return Receipt{}, ErrUnknownPlatform
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	wallet, err := sess.Cards.OpenBettingWallet(req.Platform, req.PlatformUserID)
	if err != nil {
		return Receipt{}, err
	}
	account, entry, err := sess.Cards.Fund(wallet.ID, req.Amount, s.settings.USDRate, withReference(nil, req.Reference))
	if err != nil {
		return Receipt{}, err
	}
	return s.committed(ctx, sess, "betting.fund", entry, &account), nil
}
