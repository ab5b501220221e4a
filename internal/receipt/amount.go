package receipt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a receipt amount such as "1,234.50" into a decimal.
// Format examples: "500.00" -> 500.00, "1,234.50" -> 1234.50, "12,345,678.9" -> 12345678.9.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return decimal.NewFromString(clean)
}
