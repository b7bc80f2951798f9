package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grzeniux/pricewatch/client"
	"github.com/grzeniux/pricewatch/config"
	"github.com/grzeniux/pricewatch/logger"
	"github.com/grzeniux/pricewatch/monitor"
	"github.com/grzeniux/pricewatch/notifier"
	"github.com/grzeniux/pricewatch/types"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pricewatch",
	Short: "A web page price scraper with threshold alerts",
	Long: `Pricewatch periodically reads displayed asset prices from web pages
through a Selenium WebDriver and sends notifications when a price
crosses a configured threshold.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runPriceWatchE,
}

func init() {
	config.InitConfig(rootCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(viper.GetString("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("env file: %w", err)
	}
	logger.Init(viper.GetString("log-level"), viper.GetString("log-format"))
	return nil
}

func runPriceWatchE(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("Could not load configuration. Application cannot start.")
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		_, stopMetrics, err := serveMetrics(cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		defer stopMetrics()
	}

	priceMonitor := monitor.NewPriceMonitor(cfg, client.NewSeleniumFetcher(cfg.Settings), newNotifier(cfg))
	if err := priceMonitor.Start(ctx); err != nil {
		return fmt.Errorf("monitor error: %w", err)
	}

	return nil
}

func newNotifier(cfg *types.Config) *notifier.MultiNotifier {
	var services []notifier.Service
	if telegram := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID); telegram.Configured() {
		services = append(services, telegram)
	}
	for _, token := range cfg.PushTokens {
		services = append(services, notifier.NewPushbulletNotifier(token))
	}
	return notifier.NewMultiNotifier(services)
}

var metricsShutdownTimeout = 5 * time.Second

// serveMetrics binds addr and serves /metrics until the returned stop func is called.
func serveMetrics(addr string) (net.Addr, func(), error) {
	log := logger.WithComponent("metrics")
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log.Info().Str("addr", ln.Addr().String()).Msg("Serving metrics")
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics listener stopped")
		}
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to stop metrics listener")
		}
	}
	return ln.Addr(), stop, nil
}

func Execute() error {
	return rootCmd.Execute()
}
