package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// MoonshotConfig configures the Kimi (Moonshot) text model.
type MoonshotConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	DisableThinking bool // Disable thinking mode for kimi-k2.5 (uses temp 0.6 instead of 1.0)
}

// MoonshotModel adapts Moonshot's OpenAI-compatible API to the TextModel interface.
type MoonshotModel struct {
	config MoonshotConfig
	client *http.Client
}

// NewMoonshotModel creates a Moonshot-backed text model.
func NewMoonshotModel(cfg MoonshotConfig) *MoonshotModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.moonshot.ai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "kimi-k2-turbo-preview"
	}
	return &MoonshotModel{
		config: cfg,
		client: &http.Client{},
	}
}

func (m *MoonshotModel) Name() string {
	return m.config.Model
}

type moonshotMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type moonshotResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error interface{} `json:"error"`
}

// Generate sends one prompt through the chat completions endpoint.
func (m *MoonshotModel) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model":    m.config.Model,
		"messages": []moonshotMessage{{Role: "user", Content: prompt}},
	}
	if m.config.DisableThinking {
		payload["thinking"] = map[string]string{"type": "disabled"}
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result moonshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode kimi response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("kimi api error: %v", result.Error)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("kimi api error: empty choices")
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("kimi returned empty response")
	}
	return text, nil
}

// Compile-time checks that both providers implement TextModel.
var (
	_ TextModel = (*GeminiModel)(nil)
	_ TextModel = (*MoonshotModel)(nil)
)
