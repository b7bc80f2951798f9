package monitor

import (
	"strconv"
	"strings"

	"github.com/grzeniux/pricewatch/client"
	"github.com/grzeniux/pricewatch/logger"
	"github.com/shopspring/decimal"
)

// CleanPrice keeps only the digits and periods of raw and parses the result.
// Thousands separators and currency symbols are dropped, so "1,234.56"
// becomes 1234.56. A comma used as the decimal separator is dropped too, so
// "1.234,56" reads as 1.23456, and "1.234.567" has two periods and is
// reported as absent.
func CleanPrice(raw string) (float64, bool) {
	if raw == client.FailureMarker {
		return 0, false
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		log := logger.WithComponent("monitor")
		log.Error().
			Str("raw", raw).
			Msgf("Could not convert string to float: %s", raw)
		return 0, false
	}
	return price, true
}

// FormatPrice renders v in its shortest exact decimal form, keeping one
// fractional digit for whole numbers, e.g. 999.99 or 59000.0.
func FormatPrice(v float64) string {
	s := decimal.NewFromFloat(v).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
