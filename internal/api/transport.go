// Package api provides low-level HTTP transport for Vectra API calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vectra-tobias/vectra-api-tools/internal/auth"
)

// API versions supported by the Vectra brain.
const (
	V1 = 1
	V2 = 2
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// ErrConnection marks transport-level failures (DNS, TCP, TLS). Errors
// returned by Do wrap it so callers can classify without string matching.
var ErrConnection = errors.New("connection failed")

// Transport handles HTTP communication with a Vectra brain.
type Transport struct {
	BaseURL     *url.URL
	Version     int
	HTTPClient  *http.Client
	Credentials *auth.Credentials
	UserAgent   string
}

// NewTransport creates a Transport with the given configuration.
func NewTransport(baseURL string, version int, creds *auth.Credentials, httpClient *http.Client) (*Transport, error) {
	if !creds.Valid() {
		return nil, fmt.Errorf("credentials must be provided")
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultHTTPTimeout,
		}
	}

	return &Transport{
		BaseURL:     u,
		Version:     version,
		HTTPClient:  httpClient,
		Credentials: creds,
		UserAgent:   "vectra-api-tools/1.0",
	}, nil
}

// File describes a multipart file upload.
type File struct {
	Field   string
	Name    string
	Content io.Reader
}

// Request represents an API request. At most one of JSON, Form, or File
// may be set. URL, when non-empty, overrides BaseURL+Path and is used
// verbatim (cursor "next" links arrive as absolute URLs).
type Request struct {
	Method  string
	Path    string
	URL     string
	Query   url.Values
	JSON    any
	Form    url.Values
	File    *File
	Headers http.Header
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Do executes an API request and returns the raw response.
func (t *Transport) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := t.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := t.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	// Limit response body size to prevent memory exhaustion
	limitedReader := io.LimitReader(httpResp.Body, defaultMaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if int64(len(body)) > defaultMaxBodySize {
		return nil, fmt.Errorf("response too large: exceeds %d bytes", defaultMaxBodySize)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

// DoJSON executes a request and unmarshals the JSON response into result.
// It only attempts to unmarshal on success status codes (< 400).
func (t *Transport) DoJSON(ctx context.Context, req *Request, result any) (*Response, error) {
	resp, err := t.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if result != nil && len(resp.Body) > 0 && resp.StatusCode < 400 {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return resp, fmt.Errorf("unmarshaling response: %w", err)
		}
	}

	return resp, nil
}

// buildRequest assembles the HTTP request. Headers are constructed fresh
// for every call; nothing on the Transport is mutated.
func (t *Transport) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u, err := t.requestURL(req)
	if err != nil {
		return nil, err
	}

	bodyReader, contentType, err := requestBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", t.UserAgent)

	t.Credentials.Apply(httpReq)

	maps.Copy(httpReq.Header, req.Headers)

	return httpReq, nil
}

func (t *Transport) requestURL(req *Request) (*url.URL, error) {
	var u *url.URL
	if req.URL != "" {
		parsed, err := url.Parse(req.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid request URL: %w", err)
		}
		u = parsed
	} else {
		u = t.BaseURL.JoinPath(req.Path)
	}

	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

func requestBody(req *Request) (io.Reader, string, error) {
	switch {
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil

	case req.Form != nil:
		return strings.NewReader(req.Form.Encode()), "application/x-www-form-urlencoded", nil

	case req.File != nil:
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile(req.File.Field, req.File.Name)
		if err != nil {
			return nil, "", fmt.Errorf("creating multipart part: %w", err)
		}
		if _, err := io.Copy(part, req.File.Content); err != nil {
			return nil, "", fmt.Errorf("reading upload content: %w", err)
		}
		if err := mw.Close(); err != nil {
			return nil, "", fmt.Errorf("finalizing multipart body: %w", err)
		}
		return &buf, mw.FormDataContentType(), nil
	}

	return nil, "", nil
}
