package client

import (
	"context"

	"github.com/grzeniux/pricewatch/types"
)

// FailureMarker is returned by a Fetcher instead of the element text when
// the page could not be loaded or the element never became visible.
const FailureMarker = "Error"

// Fetcher reads the text of a single element from a web page.
type Fetcher interface {
	// Fetch never returns an error; failures are logged and reported as FailureMarker.
	Fetch(ctx context.Context, url string, locator types.Locator) string
	// Close releases the browser session. Calling it more than once is safe.
	Close() error
}
