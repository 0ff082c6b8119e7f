package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatRemaining renders a remaining duration through a countdown template.
// Recognized directives match the client widget's: %D total days, %H hours,
// %M minutes, %S seconds (the last three zero-padded to two digits).
// Negative durations render as zero.
func FormatRemaining(remaining time.Duration, tmpl string) string {
	if remaining < 0 {
		remaining = 0
	}

	total := int64(remaining.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	r := strings.NewReplacer(
		"%D", fmt.Sprintf("%02d", days),
		"%H", fmt.Sprintf("%02d", hours),
		"%M", fmt.Sprintf("%02d", minutes),
		"%S", fmt.Sprintf("%02d", seconds),
	)
	return r.Replace(tmpl)
}

// FormatCurrency renders a price with the configured currency symbol,
// e.g. "€ 81,97". Amounts use comma as decimal separator to match the
// original storefront locale.
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	s := amount.StringFixed(2)
	s = strings.Replace(s, ".", ",", 1)
	if symbol == "" {
		return s
	}
	return symbol + " " + s
}
