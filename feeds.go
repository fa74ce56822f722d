package vectra

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/vectra-tobias/vectra-api-tools/internal/api"
)

// FeedService manages threat feeds. All operations require API v2.
type FeedService interface {
	// List returns all configured threat feeds.
	List(ctx context.Context, opts ...RequestOption) ([]ThreatFeed, error)

	// Create creates a new threat feed and returns its ID when the
	// server includes one in the response.
	Create(ctx context.Context, req *CreateFeedRequest, opts ...RequestOption) (string, error)

	// Delete removes a threat feed by ID.
	Delete(ctx context.Context, id string, opts ...RequestOption) error

	// FindByName returns the ID of the feed with the given name,
	// compared case-insensitively. Returns ErrFeedNotFound when no
	// feed matches.
	FindByName(ctx context.Context, name string, opts ...RequestOption) (string, error)

	// UploadFile uploads a STIX file to a feed, replacing any file
	// previously attached to it.
	UploadFile(ctx context.Context, id, path string, opts ...RequestOption) error
}

// feedService implements FeedService.
type feedService struct {
	transport *api.Transport
}

func newFeedService(transport *api.Transport) *feedService {
	return &feedService{transport: transport}
}

// createFeedBody is the JSON envelope for feed creation.
type createFeedBody struct {
	ThreatFeed struct {
		Name     string       `json:"name"`
		Defaults FeedDefaults `json:"defaults"`
	} `json:"threatFeed"`
}

func validateCreateFeedRequest(req *CreateFeedRequest) error {
	if req == nil {
		return &ValidationError{Message: "create feed request cannot be nil"}
	}
	if req.Name == "" {
		return &ValidationError{Message: "feed name is required"}
	}
	return nil
}

// List returns all configured threat feeds.
func (s *feedService) List(ctx context.Context, opts ...RequestOption) ([]ThreatFeed, error) {
	if err := requireV2(s.transport, "Feeds.List"); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var result feedListEnvelope
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/threatFeeds",
		Headers: reqCfg.headers,
	}, &result)
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return result.ThreatFeeds, nil
}

// Create creates a new threat feed.
func (s *feedService) Create(ctx context.Context, req *CreateFeedRequest, opts ...RequestOption) (string, error) {
	if err := requireV2(s.transport, "Feeds.Create"); err != nil {
		return "", err
	}
	if err := validateCreateFeedRequest(req); err != nil {
		return "", err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var body createFeedBody
	body.ThreatFeed.Name = req.Name
	body.ThreatFeed.Defaults = FeedDefaults{
		Category:      req.Category,
		Certainty:     req.Certainty,
		IndicatorType: req.IndicatorType,
		Duration:      req.DurationDays,
	}

	var result struct {
		ThreatFeed ThreatFeed `json:"threatFeed"`
	}
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodPost,
		Path:    "/threatFeeds",
		JSON:    body,
		Headers: reqCfg.headers,
	}, &result)
	if err != nil {
		return "", wrapTransportErr(err)
	}

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	return result.ThreatFeed.ID, nil
}

// Delete removes a threat feed by ID.
func (s *feedService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	if err := requireV2(s.transport, "Feeds.Delete"); err != nil {
		return err
	}
	if id == "" {
		return &ValidationError{Message: "feed ID is required"}
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	resp, err := s.transport.Do(ctx, &api.Request{
		Method:  http.MethodDelete,
		Path:    fmt.Sprintf("/threatFeeds/%s", url.PathEscape(id)),
		Headers: reqCfg.headers,
	})
	if err != nil {
		return wrapTransportErr(err)
	}

	return checkStatus(resp)
}

// FindByName returns the ID of the feed with the given name.
func (s *feedService) FindByName(ctx context.Context, name string, opts ...RequestOption) (string, error) {
	feeds, err := s.List(ctx, opts...)
	if err != nil {
		return "", err
	}

	for _, feed := range feeds {
		if strings.EqualFold(feed.Name, name) {
			return feed.ID, nil
		}
	}

	return "", ErrFeedNotFound
}

// UploadFile uploads a STIX file to a feed.
func (s *feedService) UploadFile(ctx context.Context, id, path string, opts ...RequestOption) error {
	if err := requireV2(s.transport, "Feeds.UploadFile"); err != nil {
		return err
	}
	if id == "" {
		return &ValidationError{Message: "feed ID is required"}
	}

	f, err := os.Open(path)
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("cannot open STIX file: %v", err)}
	}
	defer func() { _ = f.Close() }()

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	resp, err := s.transport.Do(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/threatFeeds/%s", url.PathEscape(id)),
		File: &api.File{
			Field:   "file",
			Name:    filepath.Base(path),
			Content: f,
		},
		Headers: reqCfg.headers,
	})
	if err != nil {
		return wrapTransportErr(err)
	}

	return checkStatus(resp)
}
