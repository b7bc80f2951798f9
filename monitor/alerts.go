package monitor

import (
	"context"
	"fmt"

	"github.com/grzeniux/pricewatch/metrics"
	"github.com/grzeniux/pricewatch/types"
)

const (
	DirectionAbove = "ABOVE"
	DirectionBelow = "BELOW"
)

// Notifier delivers an alert message. Implementations handle their own failures.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// AlertMessage renders the bound as configured and the price as a decimal
// with at least one fractional digit.
func AlertMessage(asset, direction string, bound types.Bound, price float64) string {
	return fmt.Sprintf("🔔 ALERT for %s 🔔\nPrice is %s %s at %s",
		asset, direction, bound, FormatPrice(price))
}

// CheckAlerts compares price against the thresholds configured for asset and
// sends at most one message. When both bounds are crossed, which only happens
// if below > above, the BELOW message replaces the ABOVE one.
func CheckAlerts(ctx context.Context, asset string, price float64, alerts map[string]types.AlertThreshold, n Notifier) {
	threshold, ok := alerts[asset]
	if !ok {
		return
	}

	var message, direction string

	if threshold.Above != nil && price > threshold.Above.Value {
		message = AlertMessage(asset, DirectionAbove, *threshold.Above, price)
		direction = DirectionAbove
	}

	if threshold.Below != nil && price < threshold.Below.Value {
		message = AlertMessage(asset, DirectionBelow, *threshold.Below, price)
		direction = DirectionBelow
	}

	if message == "" {
		return
	}

	metrics.AlertsTotal.WithLabelValues(asset, direction).Inc()
	n.Notify(ctx, message)
}
