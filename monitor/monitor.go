package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/grzeniux/pricewatch/client"
	"github.com/grzeniux/pricewatch/logger"
	"github.com/grzeniux/pricewatch/metrics"
	"github.com/grzeniux/pricewatch/types"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const StartupMessage = "🚀 Scraper wystartował i rozpoczyna cykliczne sprawdzanie cen."

type PriceMonitor struct {
	config   *types.Config
	fetcher  client.Fetcher
	notifier Notifier
	out      io.Writer
	state    atomic.Int32
	log      zerolog.Logger
}

type Option func(pm *PriceMonitor)

// WithOutput redirects the per-asset progress lines, which go to stdout by default.
func WithOutput(w io.Writer) Option {
	return func(pm *PriceMonitor) {
		pm.out = w
	}
}

func NewPriceMonitor(config *types.Config, fetcher client.Fetcher, notifier Notifier, opts ...Option) *PriceMonitor {
	pm := &PriceMonitor{
		config:   config,
		fetcher:  fetcher,
		notifier: notifier,
		out:      os.Stdout,
		log:      logger.WithComponent("monitor"),
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

func (pm *PriceMonitor) State() State {
	return State(pm.state.Load())
}

func (pm *PriceMonitor) setState(s State) {
	pm.state.Store(int32(s))
	pm.log.Debug().Str("state", s.String()).Msg("state changed")
}

// Start runs poll cycles until ctx is cancelled. The fetcher is closed exactly
// once when Start returns, whatever the reason.
func (pm *PriceMonitor) Start(ctx context.Context) error {
	defer pm.shutdown()

	pm.setState(StateRunning)
	pm.log.Info().
		Int("assets", len(pm.config.Assets)).
		Int("categories", len(lo.UniqBy(pm.config.Assets, func(a types.Asset) string { return a.Category }))).
		Int("alerts", len(pm.config.Alerts)).
		Dur("interval", pm.config.Settings.Interval).
		Msg("Starting price monitor")

	pm.notifier.Notify(ctx, StartupMessage)

	for {
		pm.runCycle(ctx)
		if ctx.Err() != nil {
			pm.log.Info().Msg("Shutdown requested. Finishing work...")
			return nil
		}

		pm.log.Info().Msgf("Finished checking prices. Next check in %s.", pm.config.Settings.Interval)
		if !sleep(ctx, pm.config.Settings.Interval) {
			pm.log.Info().Msg("Shutdown requested. Finishing work...")
			return nil
		}
	}
}

func (pm *PriceMonitor) runCycle(ctx context.Context) {
	started := time.Now()
	log := pm.log.With().Str("cycle", uuid.NewString()).Logger()
	log.Info().Msg("Checking prices...")

	for _, asset := range pm.config.Assets {
		if ctx.Err() != nil {
			return
		}
		pm.checkAsset(ctx, log, asset)
	}

	metrics.CycleDuration.Observe(time.Since(started).Seconds())
}

func (pm *PriceMonitor) checkAsset(ctx context.Context, log zerolog.Logger, asset types.Asset) {
	if asset.URL == "" {
		metrics.ScrapesTotal.WithLabelValues(asset.Name, metrics.StatusMissingURL).Inc()
		log.Warn().Str("asset", asset.Name).Str("category", asset.Category).
			Msgf("URL not found for asset: %s", asset.Name)
		return
	}

	locator, _ := pm.config.LocatorFor(asset.URL)
	raw := pm.fetcher.Fetch(ctx, asset.URL, locator)
	price, ok := CleanPrice(raw)

	display := client.FailureMarker
	switch {
	case ok:
		display = FormatPrice(price)
		metrics.ScrapesTotal.WithLabelValues(asset.Name, metrics.StatusOK).Inc()
		metrics.Price.WithLabelValues(asset.Name).Set(price)
	case raw == client.FailureMarker:
		metrics.ScrapesTotal.WithLabelValues(asset.Name, metrics.StatusFetchError).Inc()
	default:
		metrics.ScrapesTotal.WithLabelValues(asset.Name, metrics.StatusParseError).Inc()
	}

	line := fmt.Sprintf("Cena dla %s: %s", asset.Name, display)
	fmt.Fprintln(pm.out, line)
	log.Info().Str("asset", asset.Name).Str("category", asset.Category).Msg(line)

	if ok {
		CheckAlerts(ctx, asset.Name, price, pm.config.Alerts, pm.notifier)
	}
}

func (pm *PriceMonitor) shutdown() {
	pm.setState(StateShuttingDown)
	if err := pm.fetcher.Close(); err != nil {
		pm.log.Error().Err(err).Msg("Failed to close scraper")
	}
	pm.setState(StateTerminated)
	pm.log.Info().Msg("Scraper closed. Goodbye!")
}

// sleep waits for d and reports false if ctx was cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
