// Package config loads quarrybot's JSON configuration and the optional YAML
// tool manifest.
package config

// Config is the root configuration object.
type Config struct {
	HTTP     HTTPConfig     `json:"http"`
	ArXiv    ArXivConfig    `json:"arxiv"`
	Market   MarketConfig   `json:"market"`
	Congress CongressConfig `json:"congress"`
	// Timezone is the IANA zone used when rendering timestamps, e.g. for
	// market bars and the current_datetime tool.
	Timezone string `json:"timezone"`
}

// HTTPConfig tunes the external-API adapter shared by every tool.
type HTTPConfig struct {
	// TimeoutSeconds bounds each individual network attempt.
	TimeoutSeconds int `json:"timeoutSeconds"`
	// MaxAttempts bounds transport-level retries per logical call.
	MaxAttempts int `json:"maxAttempts"`
}

// ArXivConfig holds the operator defaults for arXiv searches. When
// UseDefaults is true these values win over caller-supplied pagination and
// sort parameters; when false the caller's values are used as-is.
type ArXivConfig struct {
	UseDefaults bool   `json:"useDefaults"`
	Start       int    `json:"start"`
	MaxResults  int    `json:"maxResults"`
	SortBy      string `json:"sortBy"`
	SortOrder   string `json:"sortOrder"`
}

// MarketConfig holds the operator toggles for market-data fetches.
type MarketConfig struct {
	IncludeDividends bool `json:"includeDividends"`
	IncludeSplits    bool `json:"includeSplits"`
	AutoAdjust       bool `json:"autoAdjust"`
	IncludePrePost   bool `json:"includePrePost"`
}

// CongressConfig names the environment variable carrying the Congress.gov
// API key. The key itself is read lazily on first call, not at startup.
type CongressConfig struct {
	APIKeyEnv string `json:"apiKeyEnv"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			TimeoutSeconds: 10,
			MaxAttempts:    3,
		},
		ArXiv: ArXivConfig{
			UseDefaults: true,
			Start:       0,
			MaxResults:  10,
			SortBy:      "relevance",
			SortOrder:   "ascending",
		},
		Market: MarketConfig{
			IncludeDividends: true,
			IncludeSplits:    true,
			AutoAdjust:       false,
			IncludePrePost:   false,
		},
		Congress: CongressConfig{
			APIKeyEnv: "API_KEY_GOV",
		},
		Timezone: "US/Eastern",
	}
}
