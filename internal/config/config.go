package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// Advisor models consulted for merge/perspective/importance signals
	Advisors AdvisorConfig `json:"advisors"`

	// Engine tunables with documented defaults
	Engine EngineConfig `json:"engine"`
}

// AdvisorConfig holds per-vendor advisor settings
type AdvisorConfig struct {
	Claude ModelSettings `json:"claude"`
	OpenAI ModelSettings `json:"openai"`
	Gemini ModelSettings `json:"gemini"`
	Grok   ModelSettings `json:"grok"`
}

// ModelSettings for a single advisor
type ModelSettings struct {
	Enabled  bool   `json:"enabled"`
	APIKey   string `json:"api_key,omitempty"`
	Model    string `json:"model,omitempty"` // Specific model to use
	Priority int    `json:"priority"`        // Lower = consulted first
}

// EngineConfig holds the selection/consolidation thresholds. These are
// configuration with documented defaults, not constants buried in the
// algorithms.
type EngineConfig struct {
	// Clustering: combined title/entity similarity above this joins a cluster
	ClusterThreshold float64 `json:"cluster_threshold"`

	// Syndication: Jaccard similarity above this chains items into a group
	SyndicationThreshold float64 `json:"syndication_threshold"`

	// Syndication: minimum group size treated as unlabeled republication
	MinSyndicationGroup int `json:"min_syndication_group"`

	// Consolidation: pair votes required before a merge is trusted
	MinVotes int `json:"min_votes"`

	// Consolidation: hard cap on members of one consolidated group
	MergeCap int `json:"merge_cap"`

	// Ranking: average importance (1-10) below this drops the story
	MaterialityCutoff float64 `json:"materiality_cutoff"`

	// Ranking: safety valve on story count, not the primary cutoff
	MaxStories int `json:"max_stories"`

	// Fetch: concurrent feed fetches and per-feed timeout
	FetchConcurrency    int `json:"fetch_concurrency"`
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds"`

	// Advisors: retry attempts on rate-limit responses
	AdvisorRetries int `json:"advisor_retries"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Advisors: AdvisorConfig{
			Claude: ModelSettings{
				Enabled:  true,
				Priority: 1,
				Model:    "claude-sonnet-4-5-20250929",
			},
			OpenAI: ModelSettings{
				Enabled:  true,
				Priority: 2,
				Model:    "gpt-4o",
			},
			Gemini: ModelSettings{
				Enabled:  true,
				Priority: 3,
				Model:    "gemini-2.5-flash",
			},
			Grok: ModelSettings{
				Enabled:  false,
				Priority: 4,
				Model:    "grok-3-fast",
			},
		},
		Engine: DefaultEngine(),
	}
}

// DefaultEngine returns the documented engine defaults.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		ClusterThreshold:     0.25,
		SyndicationThreshold: 0.7,
		MinSyndicationGroup:  3,
		MinVotes:             2,
		MergeCap:             8,
		MaterialityCutoff:    3.5,
		MaxStories:           20,
		FetchConcurrency:     20,
		FetchTimeoutSeconds:  30,
		AdvisorRetries:       3,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".briefing", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	// Older config files may predate the engine section
	if cfg.Engine == (EngineConfig{}) {
		cfg.Engine = DefaultEngine()
	}
	cfg.AutoPopulateFromEnv()

	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in API keys from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if c.Advisors.Claude.APIKey == "" {
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			c.Advisors.Claude.APIKey = key
		}
	}
	if c.Advisors.OpenAI.APIKey == "" {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			c.Advisors.OpenAI.APIKey = key
		}
	}
	if c.Advisors.Gemini.APIKey == "" {
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		if key != "" {
			c.Advisors.Gemini.APIKey = key
		}
	}
	if c.Advisors.Grok.APIKey == "" {
		if key := os.Getenv("XAI_API_KEY"); key != "" {
			c.Advisors.Grok.APIKey = key
			c.Advisors.Grok.Enabled = true
		}
	}
}

// EnabledAdvisors returns advisor names that are enabled and have API keys,
// in priority order.
func (c *Config) EnabledAdvisors() []string {
	type entry struct {
		name     string
		settings ModelSettings
	}
	all := []entry{
		{"claude", c.Advisors.Claude},
		{"openai", c.Advisors.OpenAI},
		{"gemini", c.Advisors.Gemini},
		{"grok", c.Advisors.Grok},
	}

	var names []string
	for pri := 1; pri <= len(all); pri++ {
		for _, e := range all {
			if e.settings.Priority == pri && e.settings.Enabled && e.settings.APIKey != "" {
				names = append(names, e.name)
			}
		}
	}
	return names
}
