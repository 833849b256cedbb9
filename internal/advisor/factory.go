package advisor

import (
	"github.com/abelbrown/briefing/internal/config"
	"github.com/abelbrown/briefing/internal/logging"
)

// FromConfig builds a manager with every enabled, keyed advisor, in
// priority order.
func FromConfig(cfg *config.Config) *Manager {
	m := NewManager()
	retries := cfg.Engine.AdvisorRetries

	for _, name := range cfg.EnabledAdvisors() {
		var pc ProviderConfig
		switch name {
		case "claude":
			pc = ClaudeConfig(cfg.Advisors.Claude.APIKey, cfg.Advisors.Claude.Model)
		case "openai":
			pc = OpenAIConfig(cfg.Advisors.OpenAI.APIKey, cfg.Advisors.OpenAI.Model)
		case "gemini":
			pc = GeminiConfig(cfg.Advisors.Gemini.APIKey, cfg.Advisors.Gemini.Model)
		case "grok":
			pc = GrokConfig(cfg.Advisors.Grok.APIKey, cfg.Advisors.Grok.Model)
		default:
			continue
		}
		m.Add(NewHTTPProvider(pc, retries))
	}

	logging.Info("advisors configured", "available", m.AvailableNames())
	return m
}
