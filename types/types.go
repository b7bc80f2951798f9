package types

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// LocalHub is the hub address that selects a locally started chromedriver
// instead of a remote WebDriver hub.
const LocalHub = "local"

type Settings struct {
	Interval         time.Duration
	HubURL           string
	ChromeDriverPath string
}

type Asset struct {
	Category string
	Name     string
	URL      string
}

// AlertThreshold holds the optional bounds for one asset. A nil bound is not checked.
type AlertThreshold struct {
	Above *Bound `json:"above,omitempty"`
	Below *Bound `json:"below,omitempty"`
}

// Bound is a threshold value that keeps the spelling it had in the config
// file, so 48000 and 48000.0 render the way they were written.
type Bound struct {
	Value float64
	Text  string
}

func NewBound(v float64) *Bound {
	return &Bound{Value: v, Text: strconv.FormatFloat(v, 'f', -1, 64)}
}

func (b *Bound) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	v, err := n.Float64()
	if err != nil {
		return fmt.Errorf("invalid bound %s: %w", n, err)
	}
	b.Value = v
	b.Text = n.String()
	return nil
}

func (b Bound) String() string {
	if b.Text != "" {
		return b.Text
	}
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}

type Locator struct {
	By    string `json:"by"`
	Value string `json:"value"`
}

type SiteLocator struct {
	Site string
	Locator
}

type Config struct {
	Settings       Settings
	Assets         []Asset
	Alerts         map[string]AlertThreshold
	Locators       []SiteLocator
	TelegramToken  string
	TelegramChatID string
	PushTokens     []string
	MetricsAddr    string
}

// LocatorFor picks the locator whose site key matches the host of rawURL,
// falling back to the first configured locator.
func (c *Config) LocatorFor(rawURL string) (Locator, bool) {
	if len(c.Locators) == 0 {
		return Locator{}, false
	}

	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}

	if host != "" {
		for _, l := range c.Locators {
			if strings.EqualFold(l.Site, host) {
				return l.Locator, true
			}
		}
		for _, l := range c.Locators {
			if strings.HasSuffix(host, "."+strings.ToLower(l.Site)) {
				return l.Locator, true
			}
		}
	}

	return c.Locators[0].Locator, true
}
