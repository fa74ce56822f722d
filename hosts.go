package vectra

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/vectra-tobias/vectra-api-tools/internal/api"
)

// HostService provides operations on hosts tracked by the Vectra brain.
//
//go:generate mockery --name=HostService --output=mocks --outpkg=mocks --filename=host_service.go
type HostService interface {
	// List returns a single page of hosts matching the given query
	// parameters. Unrecognized parameters are dropped.
	List(ctx context.Context, params Params, opts ...RequestOption) (*HostPage, error)

	// ListAll returns an iterator over host pages, following the
	// server's "next" cursor until it is absent. Pages are fetched
	// lazily as you iterate.
	ListAll(ctx context.Context, params Params, opts ...RequestOption) iter.Seq2[*HostPage, error]

	// Get retrieves a single host by ID. Only the "fields" parameter is
	// meaningful here; others pass through the same filter as List.
	Get(ctx context.Context, id int, params Params, opts ...RequestOption) (*Host, error)

	// SetKeyAsset flags or unflags a host as a key asset. API v2 only.
	SetKeyAsset(ctx context.Context, id int, set bool, opts ...RequestOption) error

	// Tags returns the tags currently assigned to a host. API v2 only.
	Tags(ctx context.Context, id int, opts ...RequestOption) ([]string, error)

	// SetTags replaces a host's tags, or appends to them when
	// appendTags is true. Appending concatenates the current and new
	// lists as-is; duplicates are preserved. An empty tags slice with
	// appendTags false clears all tags. API v2 only.
	SetTags(ctx context.Context, id int, tags []string, appendTags bool, opts ...RequestOption) error
}

// hostService implements HostService.
type hostService struct {
	transport *api.Transport
	log       logrus.FieldLogger
}

func newHostService(transport *api.Transport, log logrus.FieldLogger) *hostService {
	return &hostService{transport: transport, log: log}
}

// validateHostID checks that a host ID is usable in a URL path.
func validateHostID(id int) error {
	if id <= 0 {
		return &ValidationError{Message: "host ID is required"}
	}
	return nil
}

// List returns a single page of hosts.
func (s *hostService) List(ctx context.Context, params Params, opts ...RequestOption) (*HostPage, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	filtered := filterParams(params, hostParamKeys, hostDeprecatedKeys, s.log)

	var result HostPage
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/hosts",
		Query:   filtered.values(),
		Headers: reqCfg.headers,
	}, &result)
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListAll returns an iterator over host pages.
func (s *hostService) ListAll(ctx context.Context, params Params, opts ...RequestOption) iter.Seq2[*HostPage, error] {
	return func(yield func(*HostPage, error) bool) {
		page, err := s.List(ctx, params, opts...)
		for {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) {
				return
			}
			if page.Next == "" {
				return
			}
			page, err = s.pageAt(ctx, page.Next, opts...)
		}
	}
}

// pageAt fetches the page behind a cursor URL.
func (s *hostService) pageAt(ctx context.Context, cursor string, opts ...RequestOption) (*HostPage, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var result HostPage
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		URL:     cursor,
		Headers: reqCfg.headers,
	}, &result)
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return &result, nil
}

// Get retrieves a single host by ID.
func (s *hostService) Get(ctx context.Context, id int, params Params, opts ...RequestOption) (*Host, error) {
	if err := validateHostID(id); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	filtered := filterParams(params, hostParamKeys, hostDeprecatedKeys, s.log)

	var result Host
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf("/hosts/%d", id),
		Query:   filtered.values(),
		Headers: reqCfg.headers,
	}, &result)
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return &result, nil
}

// SetKeyAsset flags or unflags a host as a key asset.
func (s *hostService) SetKeyAsset(ctx context.Context, id int, set bool, opts ...RequestOption) error {
	if err := requireV2(s.transport, "Hosts.SetKeyAsset"); err != nil {
		return err
	}
	if err := validateHostID(id); err != nil {
		return err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	// The brain expects the Python-style capitalized booleans here.
	flag := "False"
	if set {
		flag = "True"
	}

	resp, err := s.transport.Do(ctx, &api.Request{
		Method:  http.MethodPatch,
		Path:    fmt.Sprintf("/hosts/%d", id),
		Form:    url.Values{"key_asset": {flag}},
		Headers: reqCfg.headers,
	})
	if err != nil {
		return wrapTransportErr(err)
	}

	return checkStatus(resp)
}

// Tags returns the tags currently assigned to a host.
func (s *hostService) Tags(ctx context.Context, id int, opts ...RequestOption) ([]string, error) {
	if err := requireV2(s.transport, "Hosts.Tags"); err != nil {
		return nil, err
	}
	if err := validateHostID(id); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var result tagEnvelope
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf("/tagging/host/%d", id),
		Headers: reqCfg.headers,
	}, &result)
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return result.Tags, nil
}

// SetTags replaces or appends a host's tags.
func (s *hostService) SetTags(ctx context.Context, id int, tags []string, appendTags bool, opts ...RequestOption) error {
	if err := requireV2(s.transport, "Hosts.SetTags"); err != nil {
		return err
	}
	if err := validateHostID(id); err != nil {
		return err
	}

	if tags == nil {
		tags = []string{}
	}

	if appendTags {
		current, err := s.Tags(ctx, id, opts...)
		if err != nil {
			return err
		}
		tags = append(append([]string{}, current...), tags...)
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	resp, err := s.transport.Do(ctx, &api.Request{
		Method:  http.MethodPatch,
		Path:    fmt.Sprintf("/tagging/host/%d", id),
		JSON:    tagEnvelope{Tags: tags},
		Headers: reqCfg.headers,
	})
	if err != nil {
		return wrapTransportErr(err)
	}

	return checkStatus(resp)
}
