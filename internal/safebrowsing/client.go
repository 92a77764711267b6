package safebrowsing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/DOVA00/checking-links/internal/config"
)

// ClientID identifies this application to the Safe Browsing API.
const ClientID = "checking-links"

// ClientVersion is reported alongside ClientID.
const ClientVersion = "1.0.0"

// maxErrorBody limits how much of an error response is kept for the message.
const maxErrorBody = 512

var (
	// ErrNoAPIKey is returned by New when the key is blank or an
	// unexpanded "${...}" placeholder.
	ErrNoAPIKey = errors.New("safe browsing API key is not configured")

	// ErrUnexpectedStatus is wrapped when the API answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected safe browsing response status")
)

// ThreatTypes are the threat lists every lookup is matched against.
var ThreatTypes = []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE"}

// Client queries the threatMatches:find endpoint.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the lookup URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient sets the HTTP client. Its Timeout bounds each lookup.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithRateLimit allows rps lookups per second with a burst of one.
// A non-positive rps disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" || strings.HasPrefix(apiKey, "${") {
		return nil, ErrNoAPIKey
	}

	c := &Client{
		apiKey:   apiKey,
		endpoint: config.DefaultSafeBrowsingEndpoint,
		client:   &http.Client{Timeout: config.DefaultSafeBrowsingTimeout},
		limiter:  rate.NewLimiter(rate.Limit(config.DefaultSafeBrowsingRPS), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// NewFromConfig creates a Client from the application configuration.
// It returns ErrNoAPIKey when no key is configured.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	return New(cfg.SafeBrowsingAPIKey,
		WithEndpoint(cfg.SafeBrowsingEndpoint),
		WithRateLimit(cfg.SafeBrowsingRPS),
		WithLogger(logger),
	)
}

// lookupRequest is the threatMatches:find request body.
type lookupRequest struct {
	Client     clientInfo `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

type clientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type threatInfo struct {
	ThreatTypes      []string      `json:"threatTypes"`
	PlatformTypes    []string      `json:"platformTypes"`
	ThreatEntryTypes []string      `json:"threatEntryTypes"`
	ThreatEntries    []threatEntry `json:"threatEntries"`
}

type threatEntry struct {
	URL string `json:"url"`
}

// lookupResponse is the subset of the response we read.
type lookupResponse struct {
	Matches []ThreatMatch `json:"matches"`
}

// ThreatMatch is one list hit for a URL.
type ThreatMatch struct {
	ThreatType    string      `json:"threatType"`
	PlatformType  string      `json:"platformType"`
	Threat        threatEntry `json:"threat"`
	CacheDuration string      `json:"cacheDuration,omitempty"`
}

// IsSafe reports whether rawURL has no Safe Browsing matches.
func (c *Client) IsSafe(ctx context.Context, rawURL string) (bool, error) {
	matches, err := c.Lookup(ctx, rawURL)
	if err != nil {
		return false, err
	}
	return len(matches) == 0, nil
}

// Lookup returns the threat matches for rawURL.
func (c *Client) Lookup(ctx context.Context, rawURL string) ([]ThreatMatch, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("safe browsing rate limit: %w", err)
		}
	}

	body, err := json.Marshal(newLookupRequest(rawURL))
	if err != nil {
		return nil, fmt.Errorf("failed to encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.lookupURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("safe browsing lookup failed: %w", redactError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	c.logger.Debug("safe browsing lookup",
		"url", rawURL,
		"matches", len(decoded.Matches),
		"duration", time.Since(start),
	)
	return decoded.Matches, nil
}

func newLookupRequest(rawURL string) lookupRequest {
	return lookupRequest{
		Client: clientInfo{ClientID: ClientID, ClientVersion: ClientVersion},
		ThreatInfo: threatInfo{
			ThreatTypes:      ThreatTypes,
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries:    []threatEntry{{URL: rawURL}},
		},
	}
}

func (c *Client) lookupURL() string {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return c.endpoint + "?key=" + url.QueryEscape(c.apiKey)
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String()
}

// redactError strips the request URL, which carries the API key, from
// transport errors.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
