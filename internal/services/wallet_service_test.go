package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vtuwallet/internal/ledger"
	"vtuwallet/internal/rewards"
	"vtuwallet/internal/session"
	"vtuwallet/internal/subaccount"
	"vtuwallet/internal/websocket"
)

type stubArchive struct {
	recordEntryFn      func(ctx context.Context, sessionID, action string, entry ledger.Entry, account *subaccount.SubAccount) error
	recordSettlementFn func(ctx context.Context, sessionID string, entry ledger.Entry) error
	recordSubAccountFn func(ctx context.Context, sessionID, action string, account subaccount.SubAccount) error
}

func (s stubArchive) RecordEntry(ctx context.Context, sessionID, action string, entry ledger.Entry, account *subaccount.SubAccount) error {
	if s.recordEntryFn == nil {
		return nil
	}
	return s.recordEntryFn(ctx, sessionID, action, entry, account)
}

func (s stubArchive) RecordSettlement(ctx context.Context, sessionID string, entry ledger.Entry) error {
	if s.recordSettlementFn == nil {
		return nil
	}
	return s.recordSettlementFn(ctx, sessionID, entry)
}

func (s stubArchive) RecordSubAccount(ctx context.Context, sessionID, action string, account subaccount.SubAccount) error {
	if s.recordSubAccountFn == nil {
		return nil
	}
	return s.recordSubAccountFn(ctx, sessionID, action, account)
}

type stubHub struct {
	mu      sync.Mutex
	updates []websocket.BalanceUpdate
}

func (h *stubHub) BroadcastBalance(sessionID string, update websocket.BalanceUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, update)
}

func (h *stubHub) last() websocket.BalanceUpdate {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.updates[len(h.updates)-1]
}

func testSettings() Settings {
	return Settings{
		CardCreationFee: 2000,
		USDRate:         decimal.NewFromInt(1500),
		ReferralBonus:   500,
		Catalog:         rewards.DefaultCatalog(),
	}
}

func newTestService(t *testing.T, archive Archive) (*WalletService, *session.Session, *stubHub) {
	t.Helper()
	manager := session.NewManager(session.Defaults{
		OpeningBalance: 50000,
		OpeningPoints:  250,
		Policy:         ledger.DefaultPointsPolicy(),
	})
	sess, err := manager.Open()
	require.NoError(t, err)
	hub := &stubHub{}
	return NewWalletService(manager, archive, hub, testSettings(), zap.NewNop()), sess, hub
}

func TestBuyAirtimeCommitsArchivesAndBroadcasts(t *testing.T) {
	var archived []string
	archive := stubArchive{recordEntryFn: func(_ context.Context, sessionID, action string, entry ledger.Entry, _ *subaccount.SubAccount) error {
		archived = append(archived, action+":"+entry.ID)
		return nil
	}}
	svc, sess, hub := newTestService(t, archive)

	receipt, err := svc.BuyAirtime(context.Background(), sess.ID, AirtimeRequest{Network: "mtn", Phone: "08031234567", Amount: 1000})
	require.NoError(t, err)

	assert.Equal(t, int64(49000), receipt.Balance)
	assert.Equal(t, int64(260), receipt.Points)
	assert.Equal(t, int64(-1000), receipt.Entry.Amount)
	assert.Equal(t, "mtn", receipt.Entry.Metadata["network"])
	assert.Equal(t, []string{"airtime.purchase:" + receipt.Entry.ID}, archived)
	assert.Equal(t, int64(49000), hub.last().Balance)
	assert.Equal(t, "₦49,000", hub.last().Display)
	assert.Equal(t, receipt.Entry.ID, hub.last().EntryID)
}

func TestArchiveFailureDoesNotUndoCommit(t *testing.T) {
	archive := stubArchive{recordEntryFn: func(context.Context, string, string, ledger.Entry, *subaccount.SubAccount) error {
		return errors.New("db down")
	}}
	svc, sess, _ := newTestService(t, archive)

	receipt, err := svc.PayBill(context.Background(), sess.ID, BillRequest{Service: "electricity", Provider: "ekedc", CustomerID: "45012345678", Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, int64(45000), receipt.Balance)
	assert.Equal(t, 1, sess.Log().Len())
}

func TestRejectedPurchaseLeavesNoTrace(t *testing.T) {
	archive := stubArchive{recordEntryFn: func(context.Context, string, string, ledger.Entry, *subaccount.SubAccount) error {
		t.Fatalf("archive should not be called")
		return nil
	}}
	svc, sess, hub := newTestService(t, archive)

	_, err := svc.BuyAirtime(context.Background(), sess.ID, AirtimeRequest{Network: "mtn", Phone: "08031234567", Amount: 60000})
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	_, err = svc.BuyAirtime(context.Background(), sess.ID, AirtimeRequest{Network: "vodafone", Phone: "08031234567", Amount: 100})
	require.ErrorIs(t, err, ErrUnknownNetwork)
	_, err = svc.BuyData(context.Background(), sess.ID, DataRequest{Network: "glo", Phone: "08051234567", PlanID: "50gb"})
	require.ErrorIs(t, err, ErrUnknownPlan)
	_, err = svc.PayBill(context.Background(), sess.ID, BillRequest{Service: "cable", Provider: "ekedc", Amount: 100})
	require.ErrorIs(t, err, ErrUnknownProvider)

	assert.Zero(t, sess.Log().Len())
	assert.Equal(t, int64(50000), sess.Ledger.Balance())
	assert.Empty(t, hub.updates)
}

func TestBuyDataChargesPlanPrice(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)

	receipt, err := svc.BuyData(context.Background(), sess.ID, DataRequest{Network: "airtel", Phone: "08021234567", PlanID: "2gb"})
	require.NoError(t, err)
	assert.Equal(t, int64(-1800), receipt.Entry.Amount)
	assert.Equal(t, "2GB", receipt.Entry.Metadata["plan"])
	assert.Equal(t, int64(18), receipt.Entry.Points)
}

func TestBuyRechargeCards(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)

	receipt, err := svc.BuyRechargeCards(context.Background(), sess.ID, RechargeRequest{Network: "glo", Denomination: 500, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(-1500), receipt.Entry.Amount)
	require.Len(t, receipt.Pins, 3)
	assert.Len(t, receipt.Pins[0].PIN, 16)
	assert.Regexp(t, `^GLO\d{10}$`, receipt.Pins[0].Serial)

	_, err = svc.BuyRechargeCards(context.Background(), sess.ID, RechargeRequest{Network: "glo", Denomination: 500, Quantity: 11})
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.BuyRechargeCards(context.Background(), sess.ID, RechargeRequest{Network: "glo", Denomination: 750, Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidDenom)
}

func TestRechargePinFailureChargesNothing(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)
	svc.pins = func(string, int) ([]RechargePin, error) { return nil, errors.New("entropy exhausted") }

	_, err := svc.BuyRechargeCards(context.Background(), sess.ID, RechargeRequest{Network: "mtn", Denomination: 100, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, int64(50000), sess.Ledger.Balance())
}

func TestVirtualCardLifecycle(t *testing.T) {
	var toggled []string
	archive := stubArchive{recordSubAccountFn: func(_ context.Context, _, action string, account subaccount.SubAccount) error {
		toggled = append(toggled, action+":"+string(account.Status))
		return nil
	}}
	svc, sess, _ := newTestService(t, archive)
	ctx := context.Background()

	created, err := svc.CreateCard(ctx, sess.ID, "Shopping")
	require.NoError(t, err)
	require.NotNil(t, created.SubAccount)
	assert.Equal(t, int64(48000), created.Balance)

	funded, err := svc.FundCard(ctx, sess.ID, created.SubAccount.ID, 48000, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3200), funded.SubAccount.SubBalance)
	assert.Zero(t, funded.Balance)

	card, err := svc.ToggleCard(ctx, sess.ID, created.SubAccount.ID)
	require.NoError(t, err)
	assert.Equal(t, subaccount.StatusFrozen, card.Status)
	assert.Equal(t, []string{"card.toggle:frozen"}, toggled)

	_, err = svc.FundCard(ctx, sess.ID, created.SubAccount.ID, 100, "")
	require.ErrorIs(t, err, subaccount.ErrFrozen)

	cards, err := svc.ListSubAccounts(sess.ID, subaccount.KindVirtualCard)
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestFundCardRejectsBettingWallet(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)
	ctx := context.Background()
	receipt, err := svc.FundBetting(ctx, sess.ID, BettingRequest{Platform: "sportybet", PlatformUserID: "u1", Amount: 1000})
	require.NoError(t, err)

	_, err = svc.FundCard(ctx, sess.ID, receipt.SubAccount.ID, 100, "")
	require.ErrorIs(t, err, subaccount.ErrNotVirtualCard)
}

func TestFundBettingReusesWallet(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.FundBetting(ctx, sess.ID, BettingRequest{Platform: "bet9ja", PlatformUserID: "punter", Amount: 2000})
	require.NoError(t, err)
	second, err := svc.FundBetting(ctx, sess.ID, BettingRequest{Platform: "bet9ja", PlatformUserID: "punter", Amount: 3000})
	require.NoError(t, err)

	assert.Equal(t, first.SubAccount.ID, second.SubAccount.ID)
	assert.Equal(t, int64(5000), second.SubAccount.TotalFunded)
	assert.Equal(t, int64(45000), second.Balance)
	assert.Equal(t, ledger.CategoryBettingFunding, second.Entry.Category)

	_, err = svc.FundBetting(ctx, sess.ID, BettingRequest{Platform: "lotto", PlatformUserID: "x", Amount: 10})
	require.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestWithdrawRequiresPINOnceSet(t *testing.T) {
	var settled []ledger.Status
	archive := stubArchive{recordSettlementFn: func(_ context.Context, _ string, entry ledger.Entry) error {
		settled = append(settled, entry.Status)
		return nil
	}}
	svc, sess, _ := newTestService(t, archive)
	ctx := context.Background()
	require.NoError(t, svc.SetPIN(sess.ID, "", "2468"))

	_, err := svc.Withdraw(ctx, sess.ID, WithdrawRequest{Amount: 10000, AccountNumber: "0123456789"})
	require.ErrorIs(t, err, session.ErrPINRequired)
	_, err = svc.Withdraw(ctx, sess.ID, WithdrawRequest{Amount: 10000, PIN: "1111"})
	require.ErrorIs(t, err, session.ErrPINMismatch)

	receipt, err := svc.Withdraw(ctx, sess.ID, WithdrawRequest{Amount: 10000, PIN: "2468", BankName: "GTBank"})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, receipt.Entry.Status)
	assert.Equal(t, int64(40000), receipt.Balance)

	failed, err := svc.Settle(ctx, sess.ID, receipt.Entry.ID, ledger.StatusFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), failed.Balance)
	assert.Equal(t, []ledger.Status{ledger.StatusFailed}, settled)
}

func TestRedeemReward(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)
	ctx := context.Background()

	receipt, err := svc.RedeemReward(ctx, sess.ID, "cash-1000", "")
	require.NoError(t, err)
	assert.Equal(t, int64(51000), receipt.Balance)
	assert.Equal(t, int64(70), receipt.Points)
	require.NotNil(t, receipt.Reward)

	_, err = svc.RedeemReward(ctx, sess.ID, "cash-500", "")
	require.ErrorIs(t, err, ledger.ErrInsufficientPoints)
	_, err = svc.RedeemReward(ctx, sess.ID, "gold-bar", "")
	require.ErrorIs(t, err, rewards.ErrUnknownOption)

	voucher, err := svc.RedeemReward(ctx, sess.ID, "voucher-5", "")
	require.NoError(t, err)
	assert.Equal(t, int64(51000), voucher.Balance)
	assert.Equal(t, int64(20), voucher.Points)
}

func TestReferralCredit(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)

	receipt, err := svc.CreditReferral(context.Background(), sess.ID, "Chioma")
	require.NoError(t, err)
	assert.Equal(t, int64(50500), receipt.Balance)
	assert.Equal(t, ledger.CategoryReferralCredit, receipt.Entry.Category)

	summary, err := svc.Referrals(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ReferralCode, summary.Code)
	assert.Equal(t, int64(500), summary.TotalEarned)
	require.Len(t, summary.Referrals, 1)
	assert.Equal(t, "Chioma", summary.Referrals[0].Name)
}

func TestRefundAndAnalytics(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)
	ctx := context.Background()

	airtime, err := svc.BuyAirtime(ctx, sess.ID, AirtimeRequest{Network: "mtn", Phone: "08031234567", Amount: 1000})
	require.NoError(t, err)
	_, err = svc.BuyData(ctx, sess.ID, DataRequest{Network: "mtn", Phone: "08031234567", PlanID: "1gb"})
	require.NoError(t, err)
	_, err = svc.FundWallet(ctx, sess.ID, FundRequest{Amount: 2500, Method: "bank-transfer"})
	require.NoError(t, err)

	refund, err := svc.Refund(ctx, sess.ID, airtime.Entry.ID, "network timeout")
	require.NoError(t, err)
	assert.Equal(t, int64(51500), refund.Balance)

	summary, err := svc.Analytics(sess.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, int64(3500), summary.MoneyIn)
	assert.Equal(t, int64(2000), summary.MoneyOut)
	assert.Zero(t, summary.ByCategory[ledger.CategoryAirtime])
	assert.Equal(t, int64(-1000), summary.ByCategory[ledger.CategoryData])

	history, err := svc.Transactions(sess.ID, ledger.Filter{Category: ledger.CategoryAirtime}, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, refund.Entry.ID, history[0].ID)

	got, err := svc.Transaction(sess.ID, airtime.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, airtime.Entry.ID, got.ID)
}

func TestRefundCannotUnwindCardValue(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateCard(ctx, sess.ID, "Travel")
	require.NoError(t, err)
	funded, err := svc.FundCard(ctx, sess.ID, created.SubAccount.ID, 1500, "")
	require.NoError(t, err)

	_, err = svc.Refund(ctx, sess.ID, funded.Entry.ID, "")
	require.ErrorIs(t, err, ledger.ErrNotRefundable)
	_, err = svc.Refund(ctx, sess.ID, created.Entry.ID, "")
	require.ErrorIs(t, err, ledger.ErrNotRefundable)

	assert.Equal(t, int64(46500), sess.Ledger.Balance())
	card, err := sess.Cards.Get(created.SubAccount.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), card.SubBalance)
}

func TestRedeemRewardReferenceBoundToOption(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.RedeemReward(ctx, sess.ID, "voucher-5", "redeem-7")
	require.NoError(t, err)
	assert.Equal(t, int64(200), first.Points)

	_, err = svc.RedeemReward(ctx, sess.ID, "voucher-10", "redeem-7")
	require.ErrorIs(t, err, ledger.ErrReferenceConflict)
	assert.Equal(t, int64(200), sess.Ledger.Points())
}

func TestReferenceReplayThroughService(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)
	ctx := context.Background()
	req := AirtimeRequest{Network: "mtn", Phone: "08031234567", Amount: 1000, Reference: "client-42"}

	first, err := svc.BuyAirtime(ctx, sess.ID, req)
	require.NoError(t, err)
	second, err := svc.BuyAirtime(ctx, sess.ID, req)
	require.NoError(t, err)

	assert.Equal(t, first.Entry.ID, second.Entry.ID)
	assert.Equal(t, int64(49000), second.Balance)
	assert.Equal(t, 1, sess.Log().Len())
}

func TestWalletViewAndUnknownSession(t *testing.T) {
	svc, sess, _ := newTestService(t, nil)

	view, err := svc.Wallet(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "₦50,000", view.Display)
	assert.Equal(t, "Silver", view.Standing.Tier.Name)
	assert.False(t, view.HasPIN)

	_, err = svc.Wallet("missing")
	require.ErrorIs(t, err, session.ErrNotFound)
}
