package dispatch

import (
	"math"
	"strconv"
	"strings"
)

// formatCurrency renders a minor-unit amount as a signed currency string,
// e.g. -150000 with a 1000 divisor becomes "-$150.00".
func formatCurrency(minor, divisor int64) string {
	value := float64(minor) / float64(divisor)
	body := groupThousands(strconv.FormatFloat(math.Abs(value), 'f', 2, 64))
	if value < 0 {
		return "-$" + body
	}
	return "$" + body
}

// formatDecimal renders a minor-unit amount as a plain decimal rounded to
// two places, used for account balances.
func formatDecimal(minor, divisor int64) string {
	value := float64(minor) / float64(divisor)
	if value < 0 {
		return "-" + groupThousands(strconv.FormatFloat(-value, 'f', 2, 64))
	}
	return groupThousands(strconv.FormatFloat(value, 'f', 2, 64))
}

func groupThousands(s string) string {
	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return intPart + "." + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + "." + fracPart
}
