package remote

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

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// Ensure Client implements the driven ports.
var (
	_ driven.QueryService  = (*Client)(nil)
	_ driven.AddressLookup = (*Client)(nil)
)

// ErrRequestFailed indicates the remote site answered with an error or
// could not be reached.
var ErrRequestFailed = errors.New("remote request failed")

// DefaultTimeout bounds a single remote call.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 512

// Client calls query and lookup routines on a remote site.
type Client struct {
	baseURL    *url.URL
	namespace  string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	limiter    *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// NewClient creates a client for the configured remote site. Routine names
// are qualified with namespace before they are sent.
func NewClient(settings domain.RemoteSettings, namespace string, opts ...Option) (*Client, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: remote base url not set", domain.ErrInvalidInput)
	}
	u, err := url.Parse(strings.TrimRight(settings.BaseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: remote base url %q", domain.ErrInvalidInput, settings.BaseURL)
	}

	c := &Client{
		baseURL:    u,
		namespace:  namespace,
		apiKey:     settings.APIKey,
		apiSecret:  settings.APISecret,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    NewRateLimiter(settings.RateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// queryRequest is the search-query argument set of the method API.
type queryRequest struct {
	DocType     string         `json:"doctype"`
	Text        string         `json:"txt"`
	SearchField string         `json:"searchfield"`
	Start       int            `json:"start"`
	PageLength  int            `json:"page_len"`
	Filters     map[string]any `json:"filters"`
}

// envelope is the method API response body.
type envelope struct {
	Message   json.RawMessage `json:"message"`
	ExcType   string          `json:"exc_type,omitempty"`
	Exception string          `json:"exception,omitempty"`
}

// Query runs a warehouse or address query routine.
func (c *Client) Query(
	ctx context.Context, queryID string, filters map[string]any, opts domain.QueryOptions,
) ([]domain.Option, error) {
	_, rule, ok := domain.RuleForQuery(domain.UnqualifyQuery(queryID))
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuery, queryID)
	}
	docType := "Warehouse"
	if domain.UnqualifyQuery(queryID) == rule.AddressQuery {
		docType = "Address"
	}

	req := queryRequest{
		DocType:     docType,
		Text:        opts.Text,
		SearchField: "name",
		Start:       opts.Start,
		PageLength:  opts.PageLength,
		Filters:     filters,
	}

	var raw json.RawMessage
	if err := c.call(ctx, queryID, req, &raw); err != nil {
		return nil, err
	}
	return decodeOptions(raw)
}

// Lookup runs an address lookup routine. Failures wrap domain.ErrLookupFailed.
func (c *Client) Lookup(ctx context.Context, lookupID string, args map[string]string) ([]string, error) {
	var raw json.RawMessage
	if err := c.call(ctx, lookupID, args, &raw); err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrLookupFailed, err)
	}

	options, err := decodeOptions(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLookupFailed, err)
	}
	names := make([]string, 0, len(options))
	for _, o := range options {
		names = append(names, o.Value)
	}
	return names, nil
}

// call POSTs body to the qualified routine and decodes the message field.
func (c *Client) call(ctx context.Context, routine string, body any, message *json.RawMessage) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", routine, err)
	}

	endpoint := c.baseURL.JoinPath("api", "method", domain.QualifyQuery(c.namespace, routine))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", routine, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "token "+c.apiKey+":"+c.apiSecret)
	}

	logger.Debug("remote: POST %s", endpoint.Path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, routine, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		delay := c.limiter.UpdateFromResponse(resp)
		return fmt.Errorf("%w: %s (retry after %s)", domain.ErrRateLimited, routine, delay)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %w", ErrRequestFailed, routine, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	if resp.StatusCode == http.StatusNotFound && env.ExcType == "DoesNotExistError" {
		return fmt.Errorf("%w: %s", domain.ErrUnknownQuery, routine)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := env.Exception
		if detail == "" {
			detail = truncate(string(data), maxErrorBody)
		}
		return fmt.Errorf("%w: %s returned %d: %s", ErrRequestFailed, routine, resp.StatusCode, detail)
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: decoding %s response: %w", ErrRequestFailed, routine, decodeErr)
	}

	*message = env.Message
	return nil
}

// decodeOptions accepts the three shapes search routines return:
// [["value", "description"], ...], ["value", ...] and
// [{"value": ..., "description": ...}, ...].
func decodeOptions(raw json.RawMessage) ([]domain.Option, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.Option{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: message is not a list", ErrRequestFailed)
	}

	options := make([]domain.Option, 0, len(items))
	for _, item := range items {
		var value string
		if err := json.Unmarshal(item, &value); err == nil {
			options = append(options, domain.Option{Value: value})
			continue
		}

		var tuple []any
		if err := json.Unmarshal(item, &tuple); err == nil {
			if len(tuple) == 0 {
				continue
			}
			o := domain.Option{Value: fmt.Sprint(tuple[0])}
			if len(tuple) > 1 && tuple[1] != nil {
				o.Description = fmt.Sprint(tuple[1])
			}
			options = append(options, o)
			continue
		}

		var o domain.Option
		if err := json.Unmarshal(item, &o); err != nil {
			return nil, fmt.Errorf("%w: unexpected item %s", ErrRequestFailed, truncate(string(item), 64))
		}
		options = append(options, o)
	}
	return options, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
