// Package rewards holds the points redemption catalog and loyalty tiers.
package rewards

import (
	"errors"
	"slices"
)

var ErrUnknownOption = errors.New("unknown reward option")

type OptionKind string

const (
	KindCash    OptionKind = "cash"
	KindVoucher OptionKind = "voucher"
)

// Option is one redeemable reward. Payout is credited to the wallet; vouchers pay nothing.
type Option struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Kind        OptionKind `json:"kind"`
	PointsCost  int64      `json:"points_cost"`
	Payout      int64      `json:"payout"`
	DiscountPct int        `json:"discount_pct,omitempty"`
}

type Catalog struct {
	options []Option
}

func DefaultCatalog() Catalog {
	return NewCatalog([]Option{
		{ID: "cash-500", Title: "₦500 Wallet Credit", Kind: KindCash, PointsCost: 100, Payout: 500},
		{ID: "cash-1000", Title: "₦1,000 Wallet Credit", Kind: KindCash, PointsCost: 180, Payout: 1000},
		{ID: "cash-2000", Title: "₦2,000 Wallet Credit", Kind: KindCash, PointsCost: 350, Payout: 2000},
		{ID: "cash-5000", Title: "₦5,000 Wallet Credit", Kind: KindCash, PointsCost: 800, Payout: 5000},
		{ID: "voucher-5", Title: "5% Off Next Purchase", Kind: KindVoucher, PointsCost: 50, DiscountPct: 5},
		{ID: "voucher-10", Title: "10% Off Next Purchase", Kind: KindVoucher, PointsCost: 100, DiscountPct: 10},
	})
}

func NewCatalog(options []Option) Catalog {
	out := make([]Option, len(options))
	copy(out, options)
	return Catalog{options: out}
}

func (c Catalog) Options() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}

func (c Catalog) Find(id string) (Option, error) {
	for _, option := range c.options {
		if option.ID == id {
			return option, nil
		}
	}
	return Option{}, ErrUnknownOption
}

type Tier struct {
	Name      string `json:"name"`
	MinPoints int64  `json:"min_points"`
}

var tiers = []Tier{
	{Name: "Bronze", MinPoints: 0},
	{Name: "Silver", MinPoints: 100},
	{Name: "Gold", MinPoints: 500},
	{Name: "Platinum", MinPoints: 1000},
}

func Tiers() []Tier {
	return slices.Clone(tiers)
}

// Standing describes where a points balance sits in the tier ladder.
type Standing struct {
	Tier         Tier  `json:"tier"`
	Next         *Tier `json:"next,omitempty"`
	PointsToNext int64 `json:"points_to_next"`
	// Progress is the percentage of the way from Tier to Next, 100 at the top tier.
	Progress int `json:"progress"`
}

func StandingFor(points int64) Standing {
	current := 0
	for i, tier := range tiers {
		if points >= tier.MinPoints {
			current = i
		}
	}
	standing := Standing{Tier: tiers[current], Progress: 100}
	if current+1 < len(tiers) {
		next := tiers[current+1]
		span := next.MinPoints - tiers[current].MinPoints
		standing.Next = &next
		standing.PointsToNext = next.MinPoints - points
		standing.Progress = int((points - tiers[current].MinPoints) * 100 / span)
	}
	return standing
}
