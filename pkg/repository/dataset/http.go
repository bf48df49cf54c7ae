package dataset

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kiken/pkg/domain/interfaces"
	"github.com/secmon-lab/kiken/pkg/utils/safe"
)

// HTTP fetches dataset resources from an HTTP origin by appending the
// resource name to a base URL
type HTTP struct {
	baseURL *url.URL
	client  *http.Client
}

var _ interfaces.Source = &HTTP{}

// HTTPOption is a functional option for the HTTP source
type HTTPOption func(*HTTP)

// WithHTTPClient replaces the HTTP client used for fetches
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = client
	}
}

// NewHTTP creates an HTTP-backed source for the given base URL
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid dataset base URL", goerr.V("url", baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("dataset base URL must be http or https", goerr.V("url", baseURL))
	}

	h := &HTTP{
		baseURL: u,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// Fetch downloads the named resource from the origin
func (h *HTTP) Fetch(ctx context.Context, name string) ([]byte, error) {
	target := h.baseURL.JoinPath(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build dataset request", goerr.V("url", target.String()))
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch dataset resource", goerr.V("url", target.String()))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status for dataset resource",
			goerr.V("url", target.String()),
			goerr.V("status", resp.StatusCode),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read dataset response", goerr.V("url", target.String()))
	}

	return data, nil
}
