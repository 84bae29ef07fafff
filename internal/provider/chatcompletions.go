package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// ChatCompletionsConfig configures an OpenAI-compatible backend (OpenAI, Groq).
type ChatCompletionsConfig struct {
	Name        string
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client
}

// ChatCompletions talks to any /chat/completions endpoint.
type ChatCompletions struct {
	name        string
	url         string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewChatCompletions(cfg ChatCompletionsConfig) *ChatCompletions {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &ChatCompletions{
		name:        cfg.Name,
		url:         strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  cfg.HTTPClient,
	}
}

func (c *ChatCompletions) Name() string { return c.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message *chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *ChatCompletions) Generate(ctx context.Context, question string) (string, error) {
	raw, err := postJSON(ctx, c.httpClient, c.name, c.url, c.apiKey, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: careerSystemPrompt},
			{Role: "user", Content: question},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	return chatCompletionText(c.name, raw)
}

func chatCompletionText(engine string, raw []byte) (string, error) {
	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", malformed(engine, "decode chat completion", raw)
	}
	if len(out.Choices) == 0 {
		return "", malformed(engine, "no choices", raw)
	}
	msg := out.Choices[0].Message
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", malformed(engine, "empty message content", raw)
	}
	return msg.Content, nil
}
