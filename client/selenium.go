package client

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/grzeniux/pricewatch/logger"
	"github.com/grzeniux/pricewatch/types"
	"github.com/rs/zerolog"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// DefaultWaitTimeout bounds how long Fetch waits for the price element to become visible.
const DefaultWaitTimeout = 15 * time.Second

var chromeArgs = []string{"--headless", "--no-sandbox", "--disable-dev-shm-usage"}

type SeleniumFetcher struct {
	driver      selenium.WebDriver
	stopService func() error
	waitTimeout time.Duration
	log         zerolog.Logger
}

// NewSeleniumFetcher opens a browser session on the configured hub. If the
// session cannot be created the error is logged and the fetcher is returned
// without a driver, so every Fetch reports FailureMarker.
func NewSeleniumFetcher(settings types.Settings) *SeleniumFetcher {
	f := &SeleniumFetcher{
		waitTimeout: DefaultWaitTimeout,
		log:         logger.WithComponent("fetcher"),
	}

	driver, stop, err := openSession(settings, f.log)
	if err != nil {
		f.log.Error().Err(err).Msg("Failed to create WebDriver")
		return f
	}
	f.driver = driver
	f.stopService = stop
	return f
}

func newSeleniumFetcher(driver selenium.WebDriver, stop func() error, waitTimeout time.Duration) *SeleniumFetcher {
	return &SeleniumFetcher{
		driver:      driver,
		stopService: stop,
		waitTimeout: waitTimeout,
		log:         logger.WithComponent("fetcher"),
	}
}

func openSession(settings types.Settings, log zerolog.Logger) (selenium.WebDriver, func() error, error) {
	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{Args: chromeArgs})

	if settings.HubURL != types.LocalHub {
		log.Info().Str("hub", settings.HubURL).Msg("Connecting to remote WebDriver")
		wd, err := selenium.NewRemote(caps, settings.HubURL)
		if err != nil {
			return nil, nil, fmt.Errorf("remote webdriver %s: %w", settings.HubURL, err)
		}
		return wd, nil, nil
	}

	port, err := freePort()
	if err != nil {
		return nil, nil, fmt.Errorf("allocate chromedriver port: %w", err)
	}

	log.Info().Str("chromedriver", settings.ChromeDriverPath).Int("port", port).Msg("Using local Chrome driver")
	service, err := selenium.NewChromeDriverService(settings.ChromeDriverPath, port)
	if err != nil {
		return nil, nil, fmt.Errorf("start chromedriver: %w", err)
	}

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://127.0.0.1:%d", port))
	if err != nil {
		service.Stop()
		return nil, nil, fmt.Errorf("local webdriver: %w", err)
	}
	return wd, service.Stop, nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func (f *SeleniumFetcher) Fetch(ctx context.Context, url string, locator types.Locator) string {
	if f.driver == nil {
		f.log.Error().Str("url", url).Msg("WebDriver not available. Scraping aborted.")
		return FailureMarker
	}
	if err := ctx.Err(); err != nil {
		return FailureMarker
	}

	by, ok := Strategy(locator.By)
	if !ok {
		f.log.Error().Str("url", url).Str("by", locator.By).Msg("Unsupported locator strategy")
		return FailureMarker
	}

	if err := f.driver.Get(url); err != nil {
		f.log.Error().Err(err).Str("url", url).Msg("An error occurred while scraping")
		return FailureMarker
	}

	var text string
	err := f.driver.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		elem, err := wd.FindElement(by, locator.Value)
		if err != nil {
			return false, nil
		}
		if visible, err := elem.IsDisplayed(); err != nil || !visible {
			return false, nil
		}
		if text, err = elem.Text(); err != nil {
			return false, nil
		}
		return true, nil
	}, f.waitTimeout)
	if err != nil {
		f.log.Error().Err(err).Str("url", url).Msgf("Timeout while waiting for element at %s", url)
		return FailureMarker
	}

	return strings.TrimSpace(text)
}

func (f *SeleniumFetcher) Close() error {
	var errs []string
	if f.driver != nil {
		if err := f.driver.Quit(); err != nil {
			errs = append(errs, err.Error())
		}
		f.driver = nil
	}
	if f.stopService != nil {
		if err := f.stopService(); err != nil {
			errs = append(errs, err.Error())
		}
		f.stopService = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close webdriver: %s", strings.Join(errs, "; "))
	}
	return nil
}
