package client

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/tebeka/selenium"
)

var strategies = map[string]string{
	"ID":                selenium.ByID,
	"NAME":              selenium.ByName,
	"CLASS_NAME":        selenium.ByClassName,
	"CSS_SELECTOR":      selenium.ByCSSSelector,
	"XPATH":             selenium.ByXPATH,
	"TAG_NAME":          selenium.ByTagName,
	"LINK_TEXT":         selenium.ByLinkText,
	"PARTIAL_LINK_TEXT": selenium.ByPartialLinkText,
}

// Strategy maps a locator "by" name to the WebDriver lookup strategy.
// Both the constant style ("CLASS_NAME") and the W3C style ("class name") are accepted.
func Strategy(by string) (string, bool) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(by), " ", "_"))
	s, ok := strategies[key]
	return s, ok
}

// SupportedStrategies lists the accepted constant-style names.
func SupportedStrategies() []string {
	names := lo.Keys(strategies)
	sort.Strings(names)
	return names
}
