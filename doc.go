// Package vectra provides a Go client for the Vectra security-analytics
// REST API, covering hosts, detections, tagging, proxy configuration and
// threat feed management over API v1 (deprecated, basic auth) and API v2
// (token auth).
//
// # Quick Start
//
//	client, err := vectra.NewClient(
//	    vectra.WithBaseURL("https://vectra.example.com"),
//	    vectra.WithToken(token),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := client.Hosts.List(ctx, vectra.Params{"state": "active"})
//
// API v1 clients authenticate with a username and password instead:
//
//	client, err := vectra.NewClient(
//	    vectra.WithBaseURL("https://vectra.example.com"),
//	    vectra.WithBasicAuth(user, password),
//	)
//
// Tagging, key asset, proxy and threat feed operations require API v2
// and return a *VersionError on a v1 client without touching the
// network.
//
// # Pagination
//
// List endpoints are paginated with a "next" cursor URL. ListAll follows
// it lazily:
//
//	for page, err := range client.Hosts.ListAll(ctx, nil) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, host := range page.Results {
//	        fmt.Println(host.Name)
//	    }
//	}
//
// Or flatten everything in one call:
//
//	hosts, err := vectra.CollectResults(
//	    client.Hosts.ListAll(ctx, nil),
//	    func(p *vectra.HostPage) []vectra.Host { return p.Results },
//	)
//
// # Error Handling
//
// Failures surface as typed errors usable with errors.As:
//
//	_, err := client.Hosts.Get(ctx, 42, nil)
//	var apiErr *vectra.APIError
//	if errors.As(err, &apiErr) {
//	    fmt.Println(apiErr.StatusCode, string(apiErr.Body))
//	}
//
// Nothing is retried; every operation maps to exactly one HTTP call
// (SetTags with append and proxy updates with an empty address issue
// one extra read first).
//
// # TLS
//
// Certificate verification is disabled by default because Vectra brains
// commonly run self-signed certificates. Enable it with
// WithTLSVerification(true), or supply your own *http.Client.
package vectra
