package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"donorsite/internal/domain"
	"donorsite/internal/infra"
)

// ErrMissingBaseURL indicates that the client was configured without a backend address.
var ErrMissingBaseURL = errors.New("backend: base url is required")

// Options configures the backend client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	// Duration, when set, observes request latency labelled by operation and
	// outcome.
	Duration *prometheus.HistogramVec
}

// Client performs HTTP calls to the charity backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
	duration   *prometheus.HistogramVec
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("backend: invalid base url: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		duration:   opts.Duration,
	}, nil
}

// ListCauses returns every donation campaign.
func (c *Client) ListCauses(ctx context.Context) ([]domain.Cause, error) {
	raw, err := c.do(ctx, "list_causes", http.MethodGet, "/api/campaigns", nil)
	if err != nil {
		return nil, err
	}
	return decodeCauses(raw), nil
}

// ListBeneficiaries returns the beneficiaries of a category.
func (c *Client) ListBeneficiaries(ctx context.Context, category domain.Category) ([]domain.Beneficiary, error) {
	collection := category.Collection()
	if collection == "" {
		return nil, fmt.Errorf("backend: list beneficiaries: %w: %q", domain.ErrInvalidCategory, category)
	}
	raw, err := c.do(ctx, "list_beneficiaries", http.MethodGet, "/api/"+collection, nil)
	if err != nil {
		return nil, err
	}
	all := decodeBeneficiaries(raw, category)
	out := make([]domain.Beneficiary, 0, len(all))
	for _, b := range all {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBeneficiary fetches a single beneficiary. A missing record yields
// domain.ErrNotFound.
func (c *Client) GetBeneficiary(ctx context.Context, category domain.Category, id string) (*domain.Beneficiary, error) {
	collection := category.Collection()
	if collection == "" {
		return nil, fmt.Errorf("backend: get beneficiary: %w: %q", domain.ErrInvalidCategory, category)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("backend: get beneficiary: %w", domain.ErrNotFound)
	}
	raw, err := c.do(ctx, "get_beneficiary", http.MethodGet, "/api/"+collection+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	b, ok := decodeBeneficiary(raw, category)
	if !ok {
		return nil, fmt.Errorf("backend: get beneficiary %s: %w", id, domain.ErrNotFound)
	}
	return &b, nil
}

// Submit creates a donation or sponsorship record.
func (c *Client) Submit(ctx context.Context, sub domain.Submission) (*domain.SubmissionResult, error) {
	var path string
	switch sub.Type {
	case domain.KindDonation:
		path = "/api/donations"
	case domain.KindSponsorship:
		path = "/api/sponsorships"
	default:
		return nil, fmt.Errorf("backend: submit: unknown type %q", sub.Type)
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("backend: encode submission: %w", err)
	}
	raw, err := c.do(ctx, "submit_"+string(sub.Type), http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	result, err := decodeSubmissionResult(raw)
	if err != nil {
		return nil, err
	}
	c.logger.Info().
		Str("type", string(sub.Type)).
		Str("reference", result.Reference).
		Bool("redirect", result.AuthorizationURL != "").
		Msg("backend: submission accepted")
	return result, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) ([]byte, error) {
	start := time.Now()
	raw, status, err := c.roundTrip(ctx, method, path, body)
	c.observe(op, err, time.Since(start))
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Str("path", path).Int("status", status).Msg("backend: request failed")
		return nil, err
	}
	c.logger.Debug().Str("op", op).Str("path", path).Int("status", status).Dur("took", time.Since(start)).Msg("backend: request ok")
	return raw, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("backend: http request: %w: %w", domain.ErrBackendFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("backend: read response: %w: %w", domain.ErrBackendFailure, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, resp.StatusCode, fmt.Errorf("backend: %s %s: %w", method, path, domain.ErrNotFound)
	}
	if resp.StatusCode >= 300 {
		if msg := errorMessage(raw); msg != "" {
			return nil, resp.StatusCode, fmt.Errorf("backend: %w: %s (status %d)", domain.ErrBackendFailure, msg, resp.StatusCode)
		}
		return nil, resp.StatusCode, fmt.Errorf("backend: %w: status %d: %s", domain.ErrBackendFailure, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, resp.StatusCode, nil
}

func (c *Client) observe(op string, err error, took time.Duration) {
	if c.duration == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	c.duration.WithLabelValues(op, outcome).Observe(took.Seconds())
}

// NewDurationHistogram builds the histogram accepted by Options.Duration.
func NewDurationHistogram() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "donorsite",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Latency of calls to the charity backend.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op", "outcome"})
}
