package vectra

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vectra-tobias/vectra-api-tools/internal/api"
	"github.com/vectra-tobias/vectra-api-tools/internal/auth"
)

// Default configuration values.
const defaultTimeout = 30 * time.Second

// Client is the Vectra API client. One authentication mode is active
// per instance and the resolved API version never changes after
// construction. A Client is safe for concurrent use.
type Client struct {
	// Hosts provides access to host operations.
	Hosts HostService

	// Detections provides access to detection operations.
	Detections DetectionService

	// Proxies provides access to proxy configuration (API v2 only).
	Proxies ProxyService

	// Feeds provides access to threat feed management (API v2 only).
	Feeds FeedService

	transport *api.Transport
	log       logrus.FieldLogger
}

// NewClient creates a new Vectra client with the given options.
//
// Supplying a token resolves the client to API v2; supplying a username
// and password resolves it to the deprecated API v1. At least one form
// is required.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = logrus.StandardLogger()
	}

	if cfg.baseURL == "" {
		return nil, ErrNoBaseURL
	}

	baseURL := strings.TrimSuffix(cfg.baseURL, "/")
	var (
		version int
		creds   *auth.Credentials
	)
	switch {
	case cfg.token != "":
		version = api.V2
		baseURL += "/api/v2"
		creds = &auth.Credentials{Token: strings.TrimSpace(cfg.token)}
	case cfg.username != "" && cfg.password != "":
		version = api.V1
		baseURL += "/api"
		creds = &auth.Credentials{Username: cfg.username, Password: cfg.password}
		cfg.logger.Warn("API v1 is deprecated and will be removed in an upcoming release, migrate to token-based API v2")
	default:
		return nil, ErrNoCredentials
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
		if !cfg.verifyTLS {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // brains commonly use self-signed certs
			}
		}
	}

	transport, err := api.NewTransport(baseURL, version, creds, httpClient)
	if err != nil {
		return nil, err
	}

	if cfg.userAgent != "" {
		transport.UserAgent = cfg.userAgent
	}

	client := &Client{
		transport: transport,
		log:       cfg.logger,
	}

	// Initialize services
	client.Hosts = newHostService(transport, cfg.logger)
	client.Detections = newDetectionService(transport, cfg.logger)
	client.Proxies = newProxyService(transport)
	client.Feeds = newFeedService(transport)

	return client, nil
}

// BaseURL returns the configured API base URL, version suffix included.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL.String()
}

// Version returns the resolved API version (1 or 2).
func (c *Client) Version() int {
	return c.transport.Version
}

// Response is the raw result of a request issued through Get. Callers
// decode the body themselves.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Get issues a GET against an arbitrary path below the API base URL,
// with the given query parameters passed through unfiltered. It covers
// endpoints without a named method and cursor URLs returned by the
// server.
func (c *Client) Get(ctx context.Context, path string, params Params, opts ...RequestOption) (*Response, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	resp, err := c.transport.Do(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    path,
		Query:   params.values(),
		Headers: reqCfg.headers,
	})
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Headers:    resp.Headers,
	}, nil
}
