package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidRate   = errors.New("conversion rate must be positive")
)

// ToCents converts a naira amount to whole US cents at rate naira per dollar, flooring
// any fraction of a cent.
func ToCents(naira int64, rate decimal.Decimal) (int64, error) {
	if naira <= 0 {
		return 0, ErrInvalidAmount
	}
	if !rate.IsPositive() {
		return 0, ErrInvalidRate
	}
	cents := decimal.NewFromInt(naira).Shift(2).Div(rate).Floor()
	return cents.IntPart(), nil
}

func ParseRate(input string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse rate %q: %w", input, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return rate, nil
}

// ParseNaira parses a whole-naira amount, accepting thousands separators.
func ParseNaira(input string) (int64, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(input), "₦")
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	if trimmed == "" || !isDigits(trimmed) {
		return 0, ErrInvalidAmount
	}
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return value, nil
}

func FormatNaira(value int64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return sign + "₦" + groupThousands(strconv.FormatInt(value, 10))
}

func FormatCents(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	formatted := fmt.Sprintf("$%d.%02d", value/100, value%100)
	if negative {
		return "-" + formatted
	}
	return formatted
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
