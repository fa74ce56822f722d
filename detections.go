package vectra

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vectra-tobias/vectra-api-tools/internal/api"
)

// DetectionService provides operations on detections.
type DetectionService interface {
	// List returns a single page of detections matching the given
	// query parameters. Unrecognized parameters are dropped.
	List(ctx context.Context, params Params, opts ...RequestOption) (*DetectionPage, error)

	// ListAll returns an iterator over detection pages, following the
	// server's "next" cursor until it is absent.
	ListAll(ctx context.Context, params Params, opts ...RequestOption) iter.Seq2[*DetectionPage, error]

	// Get retrieves a single detection by ID.
	Get(ctx context.Context, id int, params Params, opts ...RequestOption) (*Detection, error)

	// Tags returns the tags currently assigned to a detection. API v2 only.
	Tags(ctx context.Context, id int, opts ...RequestOption) ([]string, error)

	// SetTags replaces a detection's tags, or appends to them when
	// appendTags is true. Appending concatenates the current and new
	// lists as-is; duplicates are preserved. API v2 only.
	SetTags(ctx context.Context, id int, tags []string, appendTags bool, opts ...RequestOption) error
}

// detectionService implements DetectionService.
type detectionService struct {
	transport *api.Transport
	log       logrus.FieldLogger
}

func newDetectionService(transport *api.Transport, log logrus.FieldLogger) *detectionService {
	return &detectionService{transport: transport, log: log}
}

func validateDetectionID(id int) error {
	if id <= 0 {
		return &ValidationError{Message: "detection ID is required"}
	}
	return nil
}

// List returns a single page of detections.
func (s *detectionService) List(ctx context.Context, params Params, opts ...RequestOption) (*DetectionPage, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	filtered := filterParams(params, detectionParamKeys, detectionDeprecatedKeys, s.log)

	var result DetectionPage
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/detections",
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

// ListAll returns an iterator over detection pages.
func (s *detectionService) ListAll(ctx context.Context, params Params, opts ...RequestOption) iter.Seq2[*DetectionPage, error] {
	return func(yield func(*DetectionPage, error) bool) {
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

func (s *detectionService) pageAt(ctx context.Context, cursor string, opts ...RequestOption) (*DetectionPage, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var result DetectionPage
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

// Get retrieves a single detection by ID.
func (s *detectionService) Get(ctx context.Context, id int, params Params, opts ...RequestOption) (*Detection, error) {
	if err := validateDetectionID(id); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	filtered := filterParams(params, detectionParamKeys, detectionDeprecatedKeys, s.log)

	var result Detection
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf("/detections/%d", id),
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

// Tags returns the tags currently assigned to a detection.
func (s *detectionService) Tags(ctx context.Context, id int, opts ...RequestOption) ([]string, error) {
	if err := requireV2(s.transport, "Detections.Tags"); err != nil {
		return nil, err
	}
	if err := validateDetectionID(id); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var result tagEnvelope
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    fmt.Sprintf("/tagging/detection/%d", id),
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

// SetTags replaces or appends a detection's tags.
func (s *detectionService) SetTags(ctx context.Context, id int, tags []string, appendTags bool, opts ...RequestOption) error {
	if err := requireV2(s.transport, "Detections.SetTags"); err != nil {
		return err
	}
	if err := validateDetectionID(id); err != nil {
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
		Path:    fmt.Sprintf("/tagging/detection/%d", id),
		JSON:    tagEnvelope{Tags: tags},
		Headers: reqCfg.headers,
	})
	if err != nil {
		return wrapTransportErr(err)
	}

	return checkStatus(resp)
}
