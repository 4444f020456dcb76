package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Feed-level failures. Both are non-fatal to a refresh round.
var (
	ErrNetwork = errors.New("network error")
	ErrSchema  = errors.New("schema error")
)

// TextFetcher retrieves the body of a published CSV document.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches with cache-bypass semantics so a re-published sheet
// is picked up immediately.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: http.DefaultClient}
}

func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d on %s", ErrNetwork, resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	return string(body), nil
}
