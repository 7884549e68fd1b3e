// Package search provides a uniform interface over external web and
// media search APIs, with an ordered fallback chain, quota tracking, and
// short-lived result caching.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veritaslabs/veritas/internal/domain"
)

// ErrRateLimited marks a provider refusal that should not count as a hard
// failure: the chain logs it and moves on to the next provider.
var ErrRateLimited = errors.New("provider rate limited")

// Options parameterizes a search across all providers.
type Options struct {
	Kind  domain.SearchKind
	Limit int // max results; providers may return fewer
}

func (o Options) normalized() Options {
	if o.Kind == "" {
		o.Kind = domain.SearchKindWeb
	}
	if o.Limit <= 0 {
		o.Limit = 10
	}
	return o
}

// Provider is one interchangeable search backend. Adapters map their
// native response shapes into domain.SearchResult.
type Provider interface {
	Name() string
	// Available reports whether the provider can be attempted at all,
	// e.g. credentials are configured and the kind is supported.
	Available(kind domain.SearchKind) bool
	Search(ctx context.Context, query string, opts Options) ([]domain.SearchResult, error)
}

const providerTimeout = 20 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: providerTimeout}
}

// doJSON performs req, decodes the JSON body into v, and maps HTTP 429
// onto ErrRateLimited so the chain can treat quota refusals as soft.
func doJSON(client *http.Client, req *http.Request, v any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", req.URL.Host, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", req.URL.Host, resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Host, err)
	}
	return nil
}
