package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vtuwallet/internal/ledger"
	"vtuwallet/internal/session"
)

func (s *WalletService) RedeemReward(ctx context.Context, sessionID, optionID, reference string) (Receipt, error) {
	option, err := s.settings.Catalog.Find(optionID)
	if err != nil {
		return Receipt{}, err
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.RedeemPoints(option.PointsCost, option.Payout, withReference(map[string]string{
		"option": option.ID,
		"title":  option.Title,
	}, reference))
	if err != nil {
		return Receipt{}, err
	}
	receipt := s.committed(ctx, sess, "reward.redeem", entry, nil)
	receipt.Reward = &option
	return receipt, nil
}

// CreditReferral pays the configured bonus for a friend who joined with the session's code.
func (s *WalletService) CreditReferral(ctx context.Context, sessionID, friendName string) (Receipt, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.Credit(ledger.CategoryReferralCredit, s.settings.ReferralBonus, map[string]string{
		"friend":        friendName,
		"referral_code": sess.ReferralCode,
	})
	if err != nil {
		return Receipt{}, err
	}
	sess.RecordReferral(session.Referral{
		Name:      friendName,
		Bonus:     s.settings.ReferralBonus,
		EntryID:   entry.ID,
		CreatedAt: entry.Timestamp,
	})
	return s.committed(ctx, sess, "referral.credit", entry, nil), nil
}

type ReferralSummary struct {
	Code        string             `json:"code"`
	Bonus       int64              `json:"bonus"`
	TotalEarned int64              `json:"total_earned"`
	Referrals   []session.Referral `json:"referrals"`
}

func (s *WalletService) Referrals(sessionID string) (ReferralSummary, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return ReferralSummary{}, err
	}
	referrals := sess.Referrals()
	summary := ReferralSummary{Code: sess.ReferralCode, Bonus: s.settings.ReferralBonus, Referrals: referrals}
	for _, r := range referrals {
		summary.TotalEarned += r.Bonus
	}
	return summary, nil
}

func (s *WalletService) ReferralCode(sessionID string) (string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	return sess.ReferralCode, nil
}

// Settle applies an external settlement outcome to a pending entry.
func (s *WalletService) Settle(ctx context.Context, sessionID, entryID string, status ledger.Status) (Receipt, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.Settle(entryID, status)
	if err != nil {
		return Receipt{}, err
	}
	if err := s.archive.RecordSettlement(ctx, sessionID, entry); err != nil {
		s.logger.Warn("archive settlement", zap.String("session_id", sessionID), zap.String("entry_id", entryID), zap.Error(err))
	}
	balance, points := s.broadcast(sess, entry.ID)
	return Receipt{Entry: entry, Balance: balance, Points: points}, nil
}

func (s *WalletService) Refund(ctx context.Context, sessionID, entryID, reason string) (Receipt, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	entry, err := sess.Ledger.Refund(entryID, reason)
	if err != nil {
		return Receipt{}, err
	}
	return s.committed(ctx, sess, "transaction.refund", entry, nil), nil
}

func (s *WalletService) Transactions(sessionID string, filter ledger.Filter, limit int) ([]ledger.Entry, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Log().List(filter, limit), nil
}

func (s *WalletService) Transaction(sessionID, entryID string) (ledger.Entry, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return ledger.Entry{}, err
	}
	return sess.Log().Get(entryID)
}

type SpendSummary struct {
	From       *time.Time                `json:"from,omitempty"`
	To         *time.Time                `json:"to,omitempty"`
	MoneyIn    int64                     `json:"money_in"`
	MoneyOut   int64                     `json:"money_out"`
	ByCategory map[ledger.Category]int64 `json:"by_category"`
	Count      int                       `json:"count"`
}

// Analytics summarises non-failed entries in [from, to). Zero times leave the range open.
func (s *WalletService) Analytics(sessionID string, from, to time.Time) (SpendSummary, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return SpendSummary{}, err
	}
	summary := SpendSummary{ByCategory: make(map[ledger.Category]int64)}
	if !from.IsZero() {
		summary.From = &from
	}
	if !to.IsZero() {
		summary.To = &to
	}
	for entry := range sess.Log().Query(ledger.Filter{From: from, To: to}) {
		if entry.Status == ledger.StatusFailed {
			continue
		}
		summary.Count++
		summary.ByCategory[entry.Category] += entry.Amount
		if entry.Amount > 0 {
			summary.MoneyIn += entry.Amount
		} else {
			summary.MoneyOut -= entry.Amount
		}
	}
	return summary, nil
}
