// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that reach the network.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperwatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Retries is the number of additional attempts after a failed request.
	Retries int `json:"retries" yaml:"retries" mapstructure:"retries"`

	// Backoff is the fixed delay between attempts.
	Backoff time.Duration `json:"backoff" yaml:"backoff" mapstructure:"backoff"`
}

// TopicConfig is one named keyword group from the configuration file. Each
// filter is a phrase searched across all arXiv fields; filters within a
// topic are ORed together.
type TopicConfig struct {
	Filters []string `json:"filters" yaml:"filters" mapstructure:"filters"`
}

// OutputStyle selects how a render target formats records.
type OutputStyle string

const (
	// StyleTable renders each record as a Markdown table row.
	StyleTable OutputStyle = "table"

	// StyleList renders each record as a bullet line.
	StyleList OutputStyle = "list"
)

// OutputConfig describes one rendered listing document.
type OutputConfig struct {
	// Name labels the target in run logs (e.g. "readme", "gitpage").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Path is the output file, fully overwritten on every render.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Style selects table rows or bullet lines (default table).
	Style OutputStyle `json:"style" yaml:"style" mapstructure:"style"`

	// Web adds Jekyll front matter and the wide table header variant.
	Web bool `json:"web" yaml:"web" mapstructure:"web"`

	// UseTitle renders the date header as a heading instead of a quote
	// and enables the table column preamble.
	UseTitle bool `json:"use_title" yaml:"use_title" mapstructure:"use_title"`

	// UseTOC emits a table of contents over non-empty topics.
	UseTOC bool `json:"use_toc" yaml:"use_toc" mapstructure:"use_toc"`

	// ShowBadge emits shield badges at the top and their link
	// definitions at the bottom.
	ShowBadge bool `json:"show_badge" yaml:"show_badge" mapstructure:"show_badge"`

	// BackToTop appends a back-to-top anchor after each topic section.
	BackToTop bool `json:"back_to_top" yaml:"back_to_top" mapstructure:"back_to_top"`
}

// Config groups all pipeline settings. It is loaded from paperwatch.yaml
// through viper; the GitHub token is filled in separately from the secrets
// directory or the environment, never from the config file.
type Config struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the per-topic cap on newly discovered papers.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// StorePath is the JSON record store shared across runs.
	StorePath string `json:"store_path" yaml:"store_path" mapstructure:"store_path"`

	// Topics maps topic names to their keyword filters.
	Topics map[string]TopicConfig `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// Outputs lists the documents rendered after every run.
	Outputs []OutputConfig `json:"outputs" yaml:"outputs" mapstructure:"outputs"`

	// BadgeRepo is the GitHub slug ("owner/name") the rendered shield
	// badges point at.
	BadgeRepo string `json:"badge_repo" yaml:"badge_repo" mapstructure:"badge_repo"`

	// GitHubToken is an optional bearer credential for GitHub search
	// requests. Absence degrades to unauthenticated requests.
	GitHubToken string `json:"-" yaml:"-" mapstructure:"-"`
}
