package ledger

import (
	"maps"
	"time"
)

type Category string

const (
	CategoryAirtime          Category = "airtime"
	CategoryData             Category = "data"
	CategoryBill             Category = "bill"
	CategoryCardCreation     Category = "card-creation"
	CategoryCardFunding      Category = "card-funding"
	CategoryRechargeCard     Category = "recharge-card"
	CategoryBettingFunding   Category = "betting-funding"
	CategoryWalletFunding    Category = "wallet-funding"
	CategoryWalletWithdrawal Category = "wallet-withdrawal"
	CategoryRewardRedemption Category = "reward-redemption"
	CategoryReferralCredit   Category = "referral-credit"
)

var categories = []Category{
	CategoryAirtime,
	CategoryData,
	CategoryBill,
	CategoryCardCreation,
	CategoryCardFunding,
	CategoryRechargeCard,
	CategoryBettingFunding,
	CategoryWalletFunding,
	CategoryWalletWithdrawal,
	CategoryRewardRedemption,
	CategoryReferralCredit,
}

// Categories returns every known category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Refundable reports whether a debit in c can be reversed by a plain ledger credit.
// Debits that funded a sub-account are backed value held elsewhere and stay final.
func (c Category) Refundable() bool {
	switch c {
	case CategoryCardCreation, CategoryCardFunding, CategoryBettingFunding:
		return false
	}
	return c.Valid()
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	return s == StatusCompleted || s == StatusPending || s == StatusFailed
}

// Metadata keys the ledger itself reads. Every other key is opaque.
const (
	MetaReference = "reference"
	MetaRefundOf  = "refund_of"
	MetaReason    = "reason"
)

// Entry documents one committed ledger mutation. Amount is negative for debits.
// Points is the points delta attributed to the same operation.
type Entry struct {
	ID        string            `json:"id"`
	Category  Category          `json:"category"`
	Amount    int64             `json:"amount"`
	Points    int64             `json:"points"`
	Status    Status            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (e Entry) Reference() string {
	return e.Metadata[MetaReference]
}

func (e Entry) IsDebit() bool {
	return e.Amount < 0
}

func (e Entry) clone() Entry {
	e.Metadata = maps.Clone(e.Metadata)
	return e
}
