package client

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grzeniux/pricewatch/logger"
	"github.com/grzeniux/pricewatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

type fakeElement struct {
	selenium.WebElement
	text    string
	visible bool
}

func (e *fakeElement) Text() (string, error) { return e.text, nil }
func (e *fakeElement) IsDisplayed() (bool, error) { return e.visible, nil }

type fakeDriver struct {
	selenium.WebDriver
	elements map[string]*fakeElement // keyed by "by=value"
	getErr   error
	visited  []string
	quits    int
}

func (d *fakeDriver) Get(url string) error {
	d.visited = append(d.visited, url)
	return d.getErr
}

func (d *fakeDriver) FindElement(by, value string) (selenium.WebElement, error) {
	if e, ok := d.elements[by+"="+value]; ok {
		return e, nil
	}
	return nil, errors.New("no such element")
}

// WaitWithTimeout evaluates the condition once instead of polling.
func (d *fakeDriver) WaitWithTimeout(condition selenium.Condition, timeout time.Duration) error {
	ok, err := condition(d)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("timeout after " + timeout.String())
	}
	return nil
}

func (d *fakeDriver) Quit() error {
	d.quits++
	return nil
}

func TestSeleniumFetcher_Fetch(t *testing.T) {
	driver := &fakeDriver{elements: map[string]*fakeElement{
		selenium.ByClassName + "=price": {text: " 123.45 ", visible: true},
	}}
	f := newSeleniumFetcher(driver, nil, time.Second)

	got := f.Fetch(context.Background(), "http://fake-url.com", types.Locator{By: "CLASS_NAME", Value: "price"})

	assert.Equal(t, "123.45", got)
	assert.Equal(t, []string{"http://fake-url.com"}, driver.visited)
}

func TestSeleniumFetcher_FetchTimeout(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	driver := &fakeDriver{elements: map[string]*fakeElement{
		selenium.ByID + "=price": {text: "1", visible: false},
	}}
	f := newSeleniumFetcher(driver, nil, time.Second)

	got := f.Fetch(context.Background(), "http://fake-url.com", types.Locator{By: "ID", Value: "price"})

	assert.Equal(t, FailureMarker, got)
	assert.Contains(t, buf.String(), "Timeout while waiting for element")
}

func TestSeleniumFetcher_FetchNavigationError(t *testing.T) {
	driver := &fakeDriver{getErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	f := newSeleniumFetcher(driver, nil, time.Second)

	got := f.Fetch(context.Background(), "http://fake-url.com", types.Locator{By: "ID", Value: "price"})
	assert.Equal(t, FailureMarker, got)
}

func TestSeleniumFetcher_FetchUnsupportedStrategy(t *testing.T) {
	driver := &fakeDriver{}
	f := newSeleniumFetcher(driver, nil, time.Second)

	got := f.Fetch(context.Background(), "http://fake-url.com", types.Locator{By: "SHADOW", Value: "price"})

	assert.Equal(t, FailureMarker, got)
	assert.Empty(t, driver.visited)
}

func TestSeleniumFetcher_NoDriver(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	f := newSeleniumFetcher(nil, nil, time.Second)
	got := f.Fetch(context.Background(), "http://fake-url.com", types.Locator{By: "ID", Value: "price"})

	assert.Equal(t, FailureMarker, got)
	assert.Contains(t, buf.String(), "WebDriver not available. Scraping aborted.")
	assert.NoError(t, f.Close())
}

func TestSeleniumFetcher_CloseIsIdempotent(t *testing.T) {
	driver := &fakeDriver{}
	stops := 0
	f := newSeleniumFetcher(driver, func() error { stops++; return nil }, time.Second)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	assert.Equal(t, 1, driver.quits)
	assert.Equal(t, 1, stops)
	assert.Equal(t, FailureMarker, f.Fetch(context.Background(), "http://fake-url.com", types.Locator{By: "ID", Value: "x"}))
}

func TestStrategy(t *testing.T) {
	tests := []struct {
		by   string
		want string
		ok   bool
	}{
		{"CLASS_NAME", selenium.ByClassName, true},
		{"class name", selenium.ByClassName, true},
		{"css selector", selenium.ByCSSSelector, true},
		{"XPATH", selenium.ByXPATH, true},
		{"ID", selenium.ByID, true},
		{"shadow", "", false},
	}
	for _, tt := range tests {
		got, ok := Strategy(tt.by)
		assert.Equal(t, tt.ok, ok, tt.by)
		assert.Equal(t, tt.want, got, tt.by)
	}
	assert.Contains(t, SupportedStrategies(), "CLASS_NAME")
}
