package vectra

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vectra-tobias/vectra-api-tools/internal/api"
)

// ProxyService manages the brain's proxy address configuration. All
// operations require API v2.
type ProxyService interface {
	// List returns all configured proxies.
	List(ctx context.Context, opts ...RequestOption) ([]Proxy, error)

	// Get retrieves a single proxy by ID.
	Get(ctx context.Context, id string, opts ...RequestOption) (*Proxy, error)

	// Add registers a new proxy address. enable controls whether the
	// brain treats the address as a proxy.
	Add(ctx context.Context, address string, enable bool, opts ...RequestOption) error

	// Update changes a proxy's address or enablement. When address is
	// empty the proxy's current IP is kept.
	Update(ctx context.Context, id, address string, enable bool, opts ...RequestOption) error
}

// proxyService implements ProxyService.
type proxyService struct {
	transport *api.Transport
}

func newProxyService(transport *api.Transport) *proxyService {
	return &proxyService{transport: transport}
}

// proxyBody is the JSON envelope for proxy mutations.
type proxyBody struct {
	Proxy proxySettings `json:"proxy"`
}

type proxySettings struct {
	Address       string `json:"address"`
	ConsiderProxy bool   `json:"considerProxy"`
}

// List returns all configured proxies.
func (s *proxyService) List(ctx context.Context, opts ...RequestOption) ([]Proxy, error) {
	if err := requireV2(s.transport, "Proxies.List"); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var result proxyListEnvelope
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/proxies",
		Headers: reqCfg.headers,
	}, &result)
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return result.Proxies, nil
}

// Get retrieves a single proxy by ID.
func (s *proxyService) Get(ctx context.Context, id string, opts ...RequestOption) (*Proxy, error) {
	if err := requireV2(s.transport, "Proxies.Get"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &ValidationError{Message: "proxy ID is required"}
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var result proxyEnvelope
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf("/proxies/%s", url.PathEscape(id)),
		Headers: reqCfg.headers,
	}, &result)
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return &result.Proxy, nil
}

// Add registers a new proxy address.
func (s *proxyService) Add(ctx context.Context, address string, enable bool, opts ...RequestOption) error {
	if err := requireV2(s.transport, "Proxies.Add"); err != nil {
		return err
	}
	if address == "" {
		return &ValidationError{Message: "proxy address is required"}
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	resp, err := s.transport.Do(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   "/proxies",
		JSON: proxyBody{Proxy: proxySettings{
			Address:       address,
			ConsiderProxy: enable,
		}},
		Headers: reqCfg.headers,
	})
	if err != nil {
		return wrapTransportErr(err)
	}

	return checkStatus(resp)
}

// Update changes a proxy's address or enablement.
func (s *proxyService) Update(ctx context.Context, id, address string, enable bool, opts ...RequestOption) error {
	if err := requireV2(s.transport, "Proxies.Update"); err != nil {
		return err
	}
	if id == "" {
		return &ValidationError{Message: "proxy ID is required"}
	}

	if address == "" {
		current, err := s.Get(ctx, id, opts...)
		if err != nil {
			return err
		}
		address = current.IP
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	resp, err := s.transport.Do(ctx, &api.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/proxies/%s", url.PathEscape(id)),
		JSON: proxyBody{Proxy: proxySettings{
			Address:       address,
			ConsiderProxy: enable,
		}},
		Headers: reqCfg.headers,
	})
	if err != nil {
		return wrapTransportErr(err)
	}

	return checkStatus(resp)
}
