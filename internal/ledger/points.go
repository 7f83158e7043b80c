package ledger

// PointsPolicy decides how many reward points a completed debit earns.
type PointsPolicy struct {
	// Divisor is the currency spent per point. Zero disables accrual.
	Divisor  int64
	Eligible map[Category]bool
}

func DefaultPointsPolicy() PointsPolicy {
	return PointsPolicy{
		Divisor: 100,
		Eligible: map[Category]bool{
			CategoryAirtime:      true,
			CategoryData:         true,
			CategoryBill:         true,
			CategoryRechargeCard: true,
		},
	}
}

// PointsFor returns the points a debit of amount in category would earn, floored.
func (p PointsPolicy) PointsFor(category Category, amount int64) int64 {
	if p.Divisor <= 0 || amount <= 0 || !p.Eligible[category] {
		return 0
	}
	return amount / p.Divisor
}
