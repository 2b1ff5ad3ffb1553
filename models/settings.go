package models

import "time"

// Settings represents client settings
type Settings struct {
	BaseURL           string        `json:"base_url" mapstructure:"base_url"`
	APIRoot           string        `json:"api_root" mapstructure:"api_root"`
	UserAgent         string        `json:"user_agent" mapstructure:"user_agent"`
	RequestTimeout    time.Duration `json:"request_timeout" mapstructure:"request_timeout"` // per HTTP request
	SearchTimeout     time.Duration `json:"search_timeout" mapstructure:"search_timeout"`   // whole search incl. rediscovery
	CoalesceDiscovery bool          `json:"coalesce_discovery" mapstructure:"coalesce_discovery"`
	Debug             bool          `json:"-" mapstructure:"-"` // HLTB_DEBUG only
	LogFile           string        `json:"log_file" mapstructure:"log_file"`
}

// DefaultSettings returns default client settings
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:           SiteURL,
		APIRoot:           "api",
		UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		RequestTimeout:    15 * time.Second,
		SearchTimeout:     45 * time.Second,
		CoalesceDiscovery: false,
		Debug:             false,
	}
}
