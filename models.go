package vectra

// FeedCategory is the detection category a threat feed registers under.
type FeedCategory string

const (
	CategoryLateral FeedCategory = "lateral"
	CategoryExfil   FeedCategory = "exfil"
	CategoryCnC     FeedCategory = "cnc"
)

// FeedCertainty is the certainty applied to detections raised by a feed.
// Values are case sensitive on the server side.
type FeedCertainty string

const (
	CertaintyLow    FeedCertainty = "Low"
	CertaintyMedium FeedCertainty = "Medium"
	CertaintyHigh   FeedCertainty = "High"
)

// IndicatorType classifies the indicators carried by a threat feed.
type IndicatorType string

const (
	IndicatorAnonymize        IndicatorType = "Anonymize"
	IndicatorExfiltration     IndicatorType = "Exfiltration"
	IndicatorMalwareArtifacts IndicatorType = "Malware Artifacts"
	IndicatorWatchlist        IndicatorType = "Watchlist"
)

// Host represents a host tracked by the Vectra brain.
type Host struct {
	ID                  int      `json:"id"`
	Name                string   `json:"name"`
	State               string   `json:"state"`
	Threat              int      `json:"threat"`
	Certainty           int      `json:"certainty"`
	LastSource          string   `json:"last_source"`
	IsKeyAsset          bool     `json:"is_key_asset"`
	IsTargetingKeyAsset bool     `json:"is_targeting_key_asset"`
	Tags                []string `json:"tags"`
}

// HostPage is one page of host results. Next carries the absolute URL
// of the following page, or is empty on the last page.
type HostPage struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []Host `json:"results"`
}

// Detection represents a detection raised against a host.
type Detection struct {
	ID                  int      `json:"id"`
	Category            string   `json:"category"`
	DetectionType       string   `json:"detection_type"`
	State               string   `json:"state"`
	Threat              int      `json:"threat"`
	Certainty           int      `json:"certainty"`
	SourceIP            string   `json:"src_ip"`
	IsTriaged           bool     `json:"is_triaged"`
	IsTargetingKeyAsset bool     `json:"is_targeting_key_asset"`
	Tags                []string `json:"tags"`
}

// DetectionPage is one page of detection results.
type DetectionPage struct {
	Count    int         `json:"count"`
	Next     string      `json:"next"`
	Previous string      `json:"previous"`
	Results  []Detection `json:"results"`
}

// Proxy represents a configured proxy address.
type Proxy struct {
	ID            string `json:"id"`
	IP            string `json:"ip"`
	ConsiderProxy bool   `json:"considerProxy"`
}

// FeedDefaults are the default attributes applied to indicators in a
// threat feed.
type FeedDefaults struct {
	Category      FeedCategory  `json:"category"`
	Certainty     FeedCertainty `json:"certainty"`
	IndicatorType IndicatorType `json:"indicatorType"`
	Duration      int           `json:"duration"`
}

// ThreatFeed is a named collection of STIX indicator rules.
type ThreatFeed struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Defaults FeedDefaults `json:"defaults"`
}

// CreateFeedRequest contains data for creating a new threat feed.
type CreateFeedRequest struct {
	Name          string
	Category      FeedCategory
	Certainty     FeedCertainty
	IndicatorType IndicatorType
	// DurationDays is how long the feed's indicators stay applied.
	DurationDays int
}

// tagEnvelope wraps the tag list returned by the tagging endpoints.
type tagEnvelope struct {
	Tags []string `json:"tags"`
}

// proxyListEnvelope wraps GET /proxies, which returns an array.
type proxyListEnvelope struct {
	Proxies []Proxy `json:"proxies"`
}

// proxyEnvelope wraps GET /proxies/{id}, which returns a single object
// under the same key.
type proxyEnvelope struct {
	Proxy Proxy `json:"proxies"`
}

// feedListEnvelope wraps GET /threatFeeds.
type feedListEnvelope struct {
	ThreatFeeds []ThreatFeed `json:"threatFeeds"`
}
