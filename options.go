package vectra

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL    string
	token      string
	username   string
	password   string
	verifyTLS  bool
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     logrus.FieldLogger
}

// WithBaseURL sets the Vectra brain base URL (ex https://vectra.example.com).
// The API version suffix is appended automatically.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithToken sets an API v2 token. The client resolves to API v2 and
// authenticates with an Authorization: Token header.
func WithToken(token string) ClientOption {
	return func(c *clientConfig) {
		c.token = token
	}
}

// WithBasicAuth sets API v1 username/password credentials. API v1 is
// deprecated by the vendor; prefer WithToken. When both a token and
// basic credentials are supplied the token wins.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithTLSVerification controls certificate verification for the default
// HTTP client. Verification is off by default because Vectra brains
// commonly serve self-signed certificates. Ignored when WithHTTPClient
// is used; configure TLS on the provided client instead.
func WithTLSVerification(verify bool) ClientOption {
	return func(c *clientConfig) {
		c.verifyTLS = verify
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the default request timeout.
// Note: This option is ignored when WithHTTPClient is used;
// set the timeout directly on the provided client instead.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for deprecation warnings. Defaults to
// the logrus standard logger.
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *clientConfig) {
		c.logger = log
	}
}

// RequestOption configures individual API requests.
type RequestOption func(*requestConfig)

type requestConfig struct {
	headers http.Header
}

func newRequestConfig() *requestConfig {
	return &requestConfig{
		headers: make(http.Header),
	}
}

func (r *requestConfig) apply(opts ...RequestOption) {
	for _, opt := range opts {
		opt(r)
	}
}

// WithHeader adds a custom header to a request.
func WithHeader(key, value string) RequestOption {
	return func(r *requestConfig) {
		r.headers.Set(key, value)
	}
}

// WithHeaders adds multiple custom headers to a request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *requestConfig) {
		for k, v := range headers {
			r.headers.Set(k, v)
		}
	}
}
