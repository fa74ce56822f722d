package vectra

import (
	"errors"
	"fmt"

	"github.com/vectra-tobias/vectra-api-tools/internal/api"
)

// Sentinel errors for common failure modes.
var (
	ErrNoBaseURL     = errors.New("vectra: no base URL configured")
	ErrNoCredentials = errors.New("vectra: no credentials configured, provide a token or a username and password")
	ErrFeedNotFound  = errors.New("vectra: threat feed not found")
)

// maxBodyInMessage caps how much of the response body appears in error
// strings. The full body stays available on APIError.Body.
const maxBodyInMessage = 256

// APIError is returned for any response outside the 200/201 success
// range. It carries the status code and the raw, undecoded body so
// callers can inspect the server's explanation.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	body := string(e.Body)
	if len(body) > maxBodyInMessage {
		body = body[:maxBodyInMessage] + "..."
	}
	if body == "" {
		return fmt.Sprintf("vectra: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("vectra: request failed with status %d: %s", e.StatusCode, body)
}

// VersionError indicates an operation was invoked against an API version
// that does not support it. The check happens before any network call.
type VersionError struct {
	Op      string
	Version int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("vectra: %s requires API v2 (client is configured for v%d)", e.Op, e.Version)
}

// ConnectionError indicates a transport-level failure (DNS, TCP, TLS)
// before any HTTP status was received.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("vectra: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ValidationError indicates the caller supplied a malformed argument.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vectra: %s", e.Message)
}

// wrapTransportErr classifies errors coming out of the transport layer.
func wrapTransportErr(err error) error {
	if errors.Is(err, api.ErrConnection) {
		return &ConnectionError{Err: err}
	}
	return err
}

// checkStatus maps any status outside 200/201 to an APIError.
func checkStatus(resp *api.Response) error {
	if resp.StatusCode == 200 || resp.StatusCode == 201 {
		return nil
	}
	return &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
}

// requireV2 gates operations only available on API v2.
func requireV2(t *api.Transport, op string) error {
	if t.Version != api.V2 {
		return &VersionError{Op: op, Version: t.Version}
	}
	return nil
}
