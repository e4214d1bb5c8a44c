// File: internal/mwapi/client.go

// Package mwapi is a thin wire client for the MediaWiki Action API.
//
// It knows how to issue one action=query round trip and hand back the raw
// decoded records; pagination (the "continue" protocol), batching and all
// interpretation of the records belong to the wiki facade built on top.
package mwapi

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"github.com/socklens/socklens/internal/config"
)

// Constants for default TCP/HTTP settings. The pool is kept small: this is a
// polite, single-site API consumer, not a scanner.
const (
	defaultDialTimeout           = 5 * time.Second
	defaultKeepAliveInterval     = 15 * time.Second
	defaultTLSHandshakeTimeout   = 5 * time.Second
	defaultResponseHeaderTimeout = 10 * time.Second
	defaultRequestTimeout        = 30 * time.Second

	defaultMaxIdleConns    = 10
	defaultIdleConnTimeout = 30 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is the boundary the wiki facade consumes. Implementations issue a
// single action=query call with the given parameters and return the decoded
// response, or an *APIError when the API itself reports failure.
type Client interface {
	Query(ctx context.Context, params url.Values) (*Response, error)
}

// APIError is a failure reported by the API in its response envelope
// (as opposed to a transport failure).
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki api error %q: %s", e.Code, e.Info)
}

// Well-known API error codes the upper layers dispatch on.
const (
	CodeBadUser          = "baduser"
	CodePermissionDenied = "permissiondenied"
)

// HTTPClient is the production Client. It is safe for concurrent use.
type HTTPClient struct {
	endpoint    string
	userAgent   string
	accessToken string
	maxLag      int
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewHTTPClient builds an HTTPClient for the configured site.
func NewHTTPClient(wiki config.WikiConfig, client config.ClientConfig, logger *zap.Logger) (*HTTPClient, error) {
	if wiki.Site == "" {
		return nil, fmt.Errorf("mwapi: no site configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   defaultDialTimeout,
			KeepAlive: defaultKeepAliveInterval,
		}).DialContext,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaultResponseHeaderTimeout,
		MaxIdleConns:          defaultMaxIdleConns,
		IdleConnTimeout:       defaultIdleConnTimeout,
	}
	if client.ForceHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("mwapi: configuring http2: %w", err)
		}
	}

	timeout := client.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	limit := rate.Limit(client.RateLimit)
	if client.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := client.RateBurst
	if burst < 1 {
		burst = 1
	}

	// Site is normally a bare hostname; a full URL (as httptest hands out)
	// is accepted too.
	base := wiki.Site
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	return &HTTPClient{
		endpoint:    base + "/w/api.php",
		userAgent:   wiki.UserAgent,
		accessToken: wiki.AccessToken,
		maxLag:      client.MaxLag,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.Named("mwapi"),
	}, nil
}

// Query performs one action=query round trip. The format and action
// parameters are forced; everything else comes from params (including any
// continuation tokens from a previous Response).
func (c *HTTPClient) Query(ctx context.Context, params url.Values) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	if c.maxLag > 0 {
		q.Set("maxlag", strconv.Itoa(c.maxLag))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("mwapi: building request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mwapi: query: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mwapi: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mwapi: unexpected status %d from %s", resp.StatusCode, c.endpoint)
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("mwapi: decoding response: %w", err)
	}
	if decoded.Error != nil {
		c.logger.Debug("api error response",
			zap.String("code", decoded.Error.Code),
			zap.String("info", decoded.Error.Info))
		return nil, decoded.Error
	}
	return &decoded, nil
}
