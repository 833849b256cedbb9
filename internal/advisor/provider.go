// Package advisor talks to external text-generation services.
//
// Advisors supply judgment signals only: merge proposals, perspective
// axes, importance ratings. Every call is optional. A provider that is
// unconfigured, rate-limited, or returning garbage reduces the voter
// count; it never fails the run.
package advisor

import (
	"context"
)

// Provider is the interface for advisory AI providers
type Provider interface {
	// Name returns the provider name (e.g., "claude", "openai")
	Name() string

	// Available returns true if the provider is configured and ready
	Available() bool

	// Generate sends a prompt and returns the response
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a prompt request to an advisor
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response is the advisor's response
type Response struct {
	Content     string
	Model       string
	RawResponse string // The raw API response body for logging/debugging
}

// Manager holds the configured providers in priority order.
type Manager struct {
	providers []Provider
}

// NewManager creates an empty provider manager
func NewManager() *Manager {
	return &Manager{providers: make([]Provider, 0)}
}

// Add registers a provider
func (m *Manager) Add(p Provider) {
	m.providers = append(m.providers, p)
}

// Available returns all providers that are configured and ready,
// in registration order.
func (m *Manager) Available() []Provider {
	var out []Provider
	for _, p := range m.providers {
		if p.Available() {
			out = append(out, p)
		}
	}
	return out
}

// AvailableNames returns names of all available providers
func (m *Manager) AvailableNames() []string {
	var names []string
	for _, p := range m.Available() {
		names = append(names, p.Name())
	}
	return names
}
