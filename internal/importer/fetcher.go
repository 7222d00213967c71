package importer

import (
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
)

var (
	// ErrFetch is returned when the remote source is unreachable or answers with a non-success status.
	ErrFetch = errors.New("failed to fetch import source")
	// ErrFormat is returned when the fetched payload is not a JSON list.
	ErrFormat = errors.New("import payload must be a JSON array")
)

const DefaultFetchTimeout = 30 * time.Second

// Fetcher downloads a raw import payload.
type Fetcher interface {
	Fetch(url string) ([]byte, error)
}

// HTTPFetcher fetches payloads over HTTP with a fixed timeout.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{client: &http.Client{}, timeout: timeout}
}

func (f *HTTPFetcher) Fetch(url string) ([]byte, error) {
	var (
		body []byte
		code int
	)
	err := gout.New(f.client).
		GET(url).
		SetTimeout(f.timeout).
		SetHeader(gout.H{"Accept": "application/json"}).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrapf(ErrFetch, "%s: %v", url, err)
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		return nil, errors.Wrapf(ErrFetch, "%s returned status %d", url, code)
	}
	return body, nil
}

// decodeList parses payload and requires a top-level array.
func decodeList(payload []byte) ([]interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, errors.Wrapf(ErrFormat, "invalid JSON: %v", err)
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, errors.Wrapf(ErrFormat, "got %T", v)
	}
	return items, nil
}
