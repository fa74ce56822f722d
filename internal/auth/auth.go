// Package auth applies Vectra API credentials to outgoing requests.
package auth

import "net/http"

// Credentials holds authentication material for the Vectra API.
// Exactly one mode is populated: Token for API v2, Username/Password
// for the legacy v1 basic-auth scheme.
type Credentials struct {
	Token    string
	Username string
	Password string
}

// Apply adds authentication to an HTTP request. Token auth wins when
// both forms are present.
func (c *Credentials) Apply(req *http.Request) {
	if c == nil {
		return
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Token "+c.Token)
		return
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
}

// Valid reports whether at least one credential form is configured.
func (c *Credentials) Valid() bool {
	if c == nil {
		return false
	}
	return c.Token != "" || (c.Username != "" && c.Password != "")
}
