package config

import (
	"testing"
)

func TestDefaultEngineValues(t *testing.T) {
	eng := DefaultEngine()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"cluster threshold", eng.ClusterThreshold, 0.25},
		{"syndication threshold", eng.SyndicationThreshold, 0.7},
		{"min syndication group", float64(eng.MinSyndicationGroup), 3},
		{"min votes", float64(eng.MinVotes), 2},
		{"merge cap", float64(eng.MergeCap), 8},
		{"materiality cutoff", eng.MaterialityCutoff, 3.5},
		{"max stories", float64(eng.MaxStories), 20},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.ClusterThreshold != 0.25 {
		t.Errorf("engine defaults not applied: %+v", cfg.Engine)
	}
	if !cfg.Advisors.Claude.Enabled {
		t.Error("claude should be enabled by default")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := DefaultConfig()
	cfg.Advisors.Claude.APIKey = "test-key-123"
	cfg.Engine.MaxStories = 7
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Advisors.Claude.APIKey != "test-key-123" {
		t.Errorf("api key = %q", loaded.Advisors.Claude.APIKey)
	}
	if loaded.Engine.MaxStories != 7 {
		t.Errorf("max stories = %d, want 7", loaded.Engine.MaxStories)
	}
}

func TestAutoPopulateFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-claude")
	t.Setenv("XAI_API_KEY", "env-grok")

	cfg := DefaultConfig()
	cfg.AutoPopulateFromEnv()

	if cfg.Advisors.Claude.APIKey != "env-claude" {
		t.Errorf("claude key = %q", cfg.Advisors.Claude.APIKey)
	}
	if cfg.Advisors.Grok.APIKey != "env-grok" || !cfg.Advisors.Grok.Enabled {
		t.Error("grok key from env should also enable grok")
	}
}

func TestEnabledAdvisorsPriorityOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Advisors.Claude.APIKey = "k1"
	cfg.Advisors.Gemini.APIKey = "k3"
	cfg.Advisors.OpenAI.APIKey = "" // no key, should be skipped

	got := cfg.EnabledAdvisors()

	want := []string{"claude", "gemini"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("advisor %d = %q, want %q", i, got[i], want[i])
		}
	}
}
