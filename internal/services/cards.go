package services

import (
	"context"

	"go.uber.org/zap"

	"vtuwallet/internal/subaccount"
)

func (s *WalletService) CreateCard(ctx context.Context, sessionID, label string) (Receipt, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	card, entry, err := sess.Cards.CreateVirtualCard(s.settings.CardCreationFee, label)
	if err != nil {
		return Receipt{}, err
	}
	return s.committed(ctx, sess, "card.create", entry, &card), nil
}

func (s *WalletService) FundCard(ctx context.Context, sessionID, cardID string, amount int64, reference string) (Receipt, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Receipt{}, err
	}
	card, err := sess.Cards.Get(cardID)
	if err != nil {
		return Receipt{}, err
	}
	if card.Kind != subaccount.KindVirtualCard {
		return Receipt{}, subaccount.ErrNotVirtualCard
	}
	card, entry, err := sess.Cards.Fund(cardID, amount, s.settings.USDRate, withReference(nil, reference))
	if err != nil {
		return Receipt{}, err
	}
	return s.committed(ctx, sess, "card.fund", entry, &card), nil
}

func (s *WalletService) ToggleCard(ctx context.Context, sessionID, cardID string) (subaccount.SubAccount, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return subaccount.SubAccount{}, err
	}
	card, err := sess.Cards.ToggleStatus(cardID)
	if err != nil {
		return subaccount.SubAccount{}, err
	}
	if err := s.archive.RecordSubAccount(ctx, sessionID, "card.toggle", card); err != nil {
		s.logger.Warn("archive card toggle", zap.String("session_id", sessionID), zap.String("card_id", cardID), zap.Error(err))
	}
	return card, nil
}

func (s *WalletService) ListSubAccounts(sessionID string, kind subaccount.Kind) ([]subaccount.SubAccount, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Cards.List(kind), nil
}
