package vectra

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Params holds query parameters for list and get operations. Keys not
// recognized by the target resource are silently dropped; nil values
// are skipped.
type Params map[string]any

// Recognized query parameters per resource family. The deprecated sets
// are parameters scheduled for removal together with API v1; they are
// still forwarded, but each use logs a warning.
var (
	hostParamKeys = keySet(
		"active_traffic", "c_score", "c_score_gte", "certainty", "certainty_gte",
		"fields", "has_active_traffic", "include_detection_summaries", "is_key_asset",
		"is_targeting_key_asset", "key_asset", "last_source", "mac_address", "name",
		"ordering", "page", "page_size", "state", "t_score", "t_score_gte", "tags",
		"threat", "threat_gte", "targets_key_asset",
	)
	hostDeprecatedKeys = keySet(
		"c_score", "c_score_gte", "key_asset", "t_score", "t_score_gte",
		"targets_key_asset",
	)

	detectionParamKeys = keySet(
		"c_score", "c_score_gte", "category", "certainty", "certainty_gte",
		"detection", "detection_type", "detection_category", "fields", "host_id",
		"is_targeting_key_asset", "is_triaged", "ordering", "page", "page_size",
		"src_ip", "state", "t_score", "t_score_gte", "tags", "targets_key_asset",
		"threat", "threat_gte",
	)
	detectionDeprecatedKeys = keySet(
		"c_score", "c_score_gte", "category", "t_score", "t_score_gte",
		"targets_key_asset",
	)
)

func keySet(keys ...string) map[string]bool {
	s := make(map[string]bool, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

// filterParams keeps entries whose key is in allowed and whose value is
// non-nil. Deprecated keys log one warning each per call, whether or not
// they are forwarded. Filtering an already-filtered Params returns an
// equal Params.
func filterParams(p Params, allowed, deprecated map[string]bool, log logrus.FieldLogger) Params {
	out := make(Params, len(p))
	for k, v := range p {
		if deprecated[k] {
			log.Warnf("query parameter %q is deprecated and will be removed together with API v1", k)
		}
		if allowed[k] && v != nil {
			out[k] = v
		}
	}
	return out
}

// values encodes the parameters as a URL query. Booleans become
// true/false; everything else is rendered with fmt.
func (p Params) values() url.Values {
	if len(p) == 0 {
		return nil
	}
	q := url.Values{}
	for k, v := range p {
		if v == nil {
			continue
		}
		q.Set(k, paramString(v))
	}
	return q
}

func paramString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
