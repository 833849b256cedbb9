package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/briefing/internal/logging"
)

// ProviderConfig describes how to call a specific HTTP-based advisor API.
type ProviderConfig struct {
	Name       string
	Endpoint   string
	APIKey     string
	Model      string
	AuthHeader string // e.g. "Authorization" or "x-api-key"
	AuthPrefix string // e.g. "Bearer " or ""

	// ExtraHeaders are additional static headers (e.g. anthropic-version)
	ExtraHeaders map[string]string

	// BuildBody constructs the vendor-specific JSON request body
	BuildBody func(cfg ProviderConfig, req Request) (any, error)

	// ParseResponse extracts the text content from the vendor response
	ParseResponse func(body []byte) (content, model string, err error)
}

// HTTPProvider is a generic advisor backed by a JSON-over-HTTP API.
// One instance per vendor; the ProviderConfig closures carry the
// vendor-specific request and response shapes.
type HTTPProvider struct {
	cfg     ProviderConfig
	client  *http.Client
	limiter *rate.Limiter
	retries int
}

// NewHTTPProvider creates a provider from a vendor config. Calls are
// paced by a shared per-provider limiter so that batched advisory
// rounds don't trip vendor rate limits.
func NewHTTPProvider(cfg ProviderConfig, retries int) *HTTPProvider {
	if retries < 1 {
		retries = 1
	}
	return &HTTPProvider{
		cfg: cfg,
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(750*time.Millisecond), 1),
		retries: retries,
	}
}

func (p *HTTPProvider) Name() string { return p.cfg.Name }

func (p *HTTPProvider) Available() bool {
	return p.cfg.APIKey != "" && p.cfg.Model != ""
}

func (p *HTTPProvider) Generate(ctx context.Context, req Request) (Response, error) {
	if !p.Available() {
		return Response{}, fmt.Errorf("%s: not configured", p.cfg.Name)
	}

	bodyObj, err := p.cfg.BuildBody(p.cfg, req)
	if err != nil {
		return Response{}, fmt.Errorf("%s: build request: %w", p.cfg.Name, err)
	}
	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return Response{}, fmt.Errorf("%s: marshal request: %w", p.cfg.Name, err)
	}

	raw, err := p.doWithRetry(ctx, payload)
	if err != nil {
		return Response{}, err
	}

	content, model, err := p.cfg.ParseResponse(raw)
	if err != nil {
		return Response{}, fmt.Errorf("%s: parse response: %w", p.cfg.Name, err)
	}
	if model == "" {
		model = p.cfg.Model
	}
	return Response{Content: content, Model: model, RawResponse: string(raw)}, nil
}

// doWithRetry sends the request, retrying on 429 and transient 5xx
// responses with linear backoff. Retry-After is honored when present,
// capped at 30 seconds.
func (p *HTTPProvider) doWithRetry(ctx context.Context, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < p.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * 2 * time.Second
			logging.Debug("advisor retrying", "provider", p.cfg.Name, "attempt", attempt+1, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%s: new request: %w", p.cfg.Name, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(p.cfg.AuthHeader, p.cfg.AuthPrefix+p.cfg.APIKey)
		for k, v := range p.cfg.ExtraHeaders {
			req.Header.Set(k, v)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s: request failed: %w", p.cfg.Name, err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%s: read response: %w", p.cfg.Name, readErr)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%s: status %d: %s", p.cfg.Name, resp.StatusCode, truncateBody(body))
			if ra := retryAfter(resp); ra > 0 {
				select {
				case <-time.After(ra):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		default:
			// Client errors are not retryable.
			return nil, fmt.Errorf("%s: status %d: %s", p.cfg.Name, resp.StatusCode, truncateBody(body))
		}
	}
	return nil, fmt.Errorf("%s: exhausted %d attempts: %w", p.cfg.Name, p.retries, lastErr)
}

func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	if secs > 30 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}

func truncateBody(b []byte) string {
	const max = 300
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
