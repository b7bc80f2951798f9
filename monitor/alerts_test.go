package monitor

import (
	"context"
	"sync"
	"testing"

	"github.com/grzeniux/pricewatch/types"
	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(ctx context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingNotifier) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func bound(v float64) *types.Bound { return types.NewBound(v) }

func TestCheckAlerts(t *testing.T) {
	tests := []struct {
		name   string
		asset  string
		price  float64
		alerts map[string]types.AlertThreshold
		want   []string
	}{
		{
			name:   "price above triggers alert",
			asset:  "BTC",
			price:  50000,
			alerts: map[string]types.AlertThreshold{"BTC": {Above: bound(48000)}},
			want:   []string{"🔔 ALERT for BTC 🔔\nPrice is ABOVE 48000 at 50000.0"},
		},
		{
			name:   "price under above bound",
			asset:  "BTC",
			price:  45000,
			alerts: map[string]types.AlertThreshold{"BTC": {Above: bound(48000)}},
		},
		{
			name:   "price below triggers alert",
			asset:  "ETH",
			price:  2800,
			alerts: map[string]types.AlertThreshold{"ETH": {Below: bound(3000)}},
			want:   []string{"🔔 ALERT for ETH 🔔\nPrice is BELOW 3000 at 2800.0"},
		},
		{
			name:   "price inside band",
			asset:  "BTC",
			price:  45000,
			alerts: map[string]types.AlertThreshold{"BTC": {Above: bound(48000), Below: bound(40000)}},
		},
		{
			name:   "bounds are strict",
			asset:  "BTC",
			price:  48000,
			alerts: map[string]types.AlertThreshold{"BTC": {Above: bound(48000), Below: bound(48000)}},
		},
		{
			name:   "no config for asset",
			asset:  "DOGE",
			price:  0.15,
			alerts: map[string]types.AlertThreshold{"BTC": {Above: bound(48000)}},
		},
		{
			name:   "empty threshold",
			asset:  "BTC",
			price:  1,
			alerts: map[string]types.AlertThreshold{"BTC": {}},
		},
		{
			name:   "inverted band sends only below",
			asset:  "BTC",
			price:  50000,
			alerts: map[string]types.AlertThreshold{"BTC": {Above: bound(40000), Below: bound(60000)}},
			want:   []string{"🔔 ALERT for BTC 🔔\nPrice is BELOW 60000 at 50000.0"},
		},
		{
			name:   "bound keeps configured spelling",
			asset:  "ETH",
			price:  2999.5,
			alerts: map[string]types.AlertThreshold{"ETH": {Below: &types.Bound{Value: 3000, Text: "3000.00"}}},
			want:   []string{"🔔 ALERT for ETH 🔔\nPrice is BELOW 3000.00 at 2999.5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &recordingNotifier{}
			CheckAlerts(context.Background(), tt.asset, tt.price, tt.alerts, n)
			assert.Equal(t, tt.want, n.Messages())
		})
	}
}
