package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/grzeniux/pricewatch/client"
	"github.com/grzeniux/pricewatch/types"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const DefaultInterval = 900 * time.Second

// maxIntervalSeconds is the longest interval a time.Duration can hold.
const maxIntervalSeconds = float64(math.MaxInt64 / int64(time.Second))

func InitConfig(rootCmd *cobra.Command) {
	// Define CLI flags
	rootCmd.PersistentFlags().String("config", "config.json", "Path to the JSON configuration file")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional file with environment variables")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format (json or console)")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Address for the Prometheus /metrics listener, e.g. :9090 (disabled when empty)")
	rootCmd.PersistentFlags().String("chromedriver-path", "chromedriver", "chromedriver binary used when selenium_hub_url is \"local\"")

	// Bind CLI flags to viper
	for _, name := range []string{"config", "env-file", "log-level", "log-format", "metrics-addr", "chromedriver-path"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("PRICEWATCH")
	viper.AutomaticEnv()

	// Replace hyphens with underscores in env var names
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Notification credentials keep their conventional names
	viper.BindEnv("telegram-token", "TELEGRAM_TOKEN")
	viper.BindEnv("telegram-chat-id", "TELEGRAM_CHAT_ID")
	viper.BindEnv("push-tokens", "PUSHBULLET_TOKENS")
}

// LoadConfig reads the configuration file named by the "config" setting and
// merges in credentials and flags. Any error is fatal for the caller.
func LoadConfig() (*types.Config, error) {
	path := viper.GetString("config")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}

	cfg.Settings.ChromeDriverPath = viper.GetString("chromedriver-path")
	cfg.TelegramToken = strings.TrimSpace(viper.GetString("telegram-token"))
	cfg.TelegramChatID = strings.TrimSpace(viper.GetString("telegram-chat-id"))
	cfg.PushTokens = splitList(viper.GetString("push-tokens"))
	cfg.MetricsAddr = viper.GetString("metrics-addr")

	return cfg, nil
}

type assetDetails struct {
	URL string `json:"url"`
}

type fileConfig struct {
	Settings struct {
		IntervalSeconds *float64 `json:"scraping_interval_seconds"`
		HubURL          string   `json:"selenium_hub_url"`
	} `json:"settings"`
	Assets   ordered[ordered[assetDetails]]  `json:"assets"`
	Alerts   map[string]types.AlertThreshold `json:"alerts"`
	Locators ordered[types.Locator]          `json:"locators"`
}

// Parse decodes and validates the JSON configuration document.
func Parse(data []byte) (*types.Config, error) {
	var file fileConfig
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var assets []types.Asset
	for _, category := range file.Assets {
		for _, asset := range category.Value {
			assets = append(assets, types.Asset{
				Category: category.Key,
				Name:     asset.Key,
				URL:      strings.TrimSpace(asset.Value.URL),
			})
		}
	}

	var missing []string
	if len(assets) == 0 {
		missing = append(missing, "assets")
	}
	if len(file.Alerts) == 0 {
		missing = append(missing, "alerts")
	}
	if len(file.Locators) == 0 {
		missing = append(missing, "locators")
	}
	if strings.TrimSpace(file.Settings.HubURL) == "" {
		missing = append(missing, "settings.selenium_hub_url")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("configuration is incomplete, missing: %s", strings.Join(missing, ", "))
	}

	locators := make([]types.SiteLocator, 0, len(file.Locators))
	for _, l := range file.Locators {
		if _, ok := client.Strategy(l.Value.By); !ok {
			return nil, fmt.Errorf("locator %q: unsupported strategy %q (supported: %s)",
				l.Key, l.Value.By, strings.Join(client.SupportedStrategies(), ", "))
		}
		if strings.TrimSpace(l.Value.Value) == "" {
			return nil, fmt.Errorf("locator %q: value must not be empty", l.Key)
		}
		locators = append(locators, types.SiteLocator{Site: l.Key, Locator: l.Value})
	}

	interval := DefaultInterval
	if s := file.Settings.IntervalSeconds; s != nil {
		switch {
		case *s < 0:
			return nil, fmt.Errorf("settings.scraping_interval_seconds must not be negative, got %v", *s)
		case *s > maxIntervalSeconds:
			return nil, fmt.Errorf("settings.scraping_interval_seconds must not exceed %.0f, got %v", maxIntervalSeconds, *s)
		case *s > 0:
			interval = time.Duration(*s * float64(time.Second))
		}
	}

	return &types.Config{
		Settings: types.Settings{
			Interval: interval,
			HubURL:   strings.TrimSpace(file.Settings.HubURL),
		},
		Assets:   assets,
		Alerts:   file.Alerts,
		Locators: locators,
	}, nil
}

func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}
