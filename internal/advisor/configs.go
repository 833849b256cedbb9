package advisor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ClaudeConfig returns the provider config for Anthropic's Messages API.
func ClaudeConfig(apiKey, model string) ProviderConfig {
	return ProviderConfig{
		Name:       "claude",
		Endpoint:   "https://api.anthropic.com/v1/messages",
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "x-api-key",
		AuthPrefix: "",
		ExtraHeaders: map[string]string{
			"anthropic-version": "2023-06-01",
		},
		BuildBody: func(cfg ProviderConfig, req Request) (any, error) {
			body := map[string]any{
				"model":      cfg.Model,
				"max_tokens": req.MaxTokens,
				"messages": []map[string]any{
					{"role": "user", "content": req.UserPrompt},
				},
			}
			if req.SystemPrompt != "" {
				body["system"] = req.SystemPrompt
			}
			return body, nil
		},
		ParseResponse: func(body []byte) (string, string, error) {
			var resp struct {
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
				Model string `json:"model"`
				Error *struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return "", "", err
			}
			if resp.Error != nil {
				return "", "", fmt.Errorf("api error: %s", resp.Error.Message)
			}
			var parts []string
			for _, c := range resp.Content {
				if c.Text != "" {
					parts = append(parts, c.Text)
				}
			}
			if len(parts) == 0 {
				return "", "", fmt.Errorf("empty response")
			}
			return strings.Join(parts, "\n\n"), resp.Model, nil
		},
	}
}

// OpenAIConfig returns the provider config for OpenAI's Chat Completions API.
func OpenAIConfig(apiKey, model string) ProviderConfig {
	return openAICompatible("openai", "https://api.openai.com/v1/chat/completions", apiKey, model, true)
}

// GrokConfig returns the provider config for xAI's OpenAI-compatible API.
func GrokConfig(apiKey, model string) ProviderConfig {
	return openAICompatible("grok", "https://api.x.ai/v1/chat/completions", apiKey, model, false)
}

// openAICompatible covers the chat-completions shape shared by OpenAI
// and xAI. Newer OpenAI models reject max_tokens in favor of
// max_completion_tokens; xAI still takes max_tokens.
func openAICompatible(name, endpoint, apiKey, model string, completionTokens bool) ProviderConfig {
	return ProviderConfig{
		Name:       name,
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		BuildBody: func(cfg ProviderConfig, req Request) (any, error) {
			var messages []map[string]any
			if req.SystemPrompt != "" {
				messages = append(messages, map[string]any{"role": "system", "content": req.SystemPrompt})
			}
			messages = append(messages, map[string]any{"role": "user", "content": req.UserPrompt})
			body := map[string]any{
				"model":    cfg.Model,
				"messages": messages,
			}
			if completionTokens {
				body["max_completion_tokens"] = req.MaxTokens
			} else {
				body["max_tokens"] = req.MaxTokens
			}
			return body, nil
		},
		ParseResponse: func(body []byte) (string, string, error) {
			var resp struct {
				Choices []struct {
					Message struct {
						Content string `json:"content"`
					} `json:"message"`
				} `json:"choices"`
				Model string `json:"model"`
				Error *struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return "", "", err
			}
			if resp.Error != nil {
				return "", "", fmt.Errorf("api error: %s", resp.Error.Message)
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
				return "", "", fmt.Errorf("empty response")
			}
			return resp.Choices[0].Message.Content, resp.Model, nil
		},
	}
}

// GeminiConfig returns the provider config for Google's Generative
// Language API. The model is baked into the endpoint path.
func GeminiConfig(apiKey, model string) ProviderConfig {
	return ProviderConfig{
		Name:       "gemini",
		Endpoint:   fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", model),
		APIKey:     apiKey,
		Model:      model,
		AuthHeader: "x-goog-api-key",
		AuthPrefix: "",
		BuildBody: func(cfg ProviderConfig, req Request) (any, error) {
			body := map[string]any{
				"contents": []map[string]any{
					{"parts": []map[string]any{{"text": req.UserPrompt}}},
				},
				"generationConfig": map[string]any{
					"maxOutputTokens": req.MaxTokens,
				},
			}
			if req.SystemPrompt != "" {
				body["systemInstruction"] = map[string]any{
					"parts": []map[string]any{{"text": req.SystemPrompt}},
				}
			}
			return body, nil
		},
		ParseResponse: func(body []byte) (string, string, error) {
			var resp struct {
				Candidates []struct {
					Content struct {
						Parts []struct {
							Text string `json:"text"`
						} `json:"parts"`
					} `json:"content"`
				} `json:"candidates"`
				ModelVersion string `json:"modelVersion"`
				Error        *struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return "", "", err
			}
			if resp.Error != nil {
				return "", "", fmt.Errorf("api error: %s", resp.Error.Message)
			}
			if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
				return "", "", fmt.Errorf("empty response")
			}
			return resp.Candidates[0].Content.Parts[0].Text, resp.ModelVersion, nil
		},
	}
}
