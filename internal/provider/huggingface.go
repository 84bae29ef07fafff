package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type HuggingFaceConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// HuggingFaceClient calls the hosted inference API for a text-generation model.
type HuggingFaceClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewHuggingFace(cfg HuggingFaceConfig) *HuggingFaceClient {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &HuggingFaceClient{
		url:        strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(cfg.Model, "/"),
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
	}
}

func (h *HuggingFaceClient) Name() string { return HuggingFace }

type hfParameters struct {
	MaxNewTokens   int  `json:"max_new_tokens"`
	ReturnFullText bool `json:"return_full_text"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

func (h *HuggingFaceClient) Generate(ctx context.Context, question string) (string, error) {
	raw, err := postJSON(ctx, h.httpClient, HuggingFace, h.url, h.apiKey, hfRequest{
		Inputs:     careerPrompt(question),
		Parameters: hfParameters{MaxNewTokens: 500},
	})
	if err != nil {
		return "", err
	}
	return generatedText(raw)
}

// generatedText accepts only [{"generated_text": "..."}]. An object body is the
// API's error envelope even when it arrives with a 200.
func generatedText(raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", malformed(HuggingFace, "empty body", raw)
	}
	if trimmed[0] == '{' {
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Error != "" {
			return "", malformed(HuggingFace, "error envelope", raw)
		}
		return "", malformed(HuggingFace, "expected a list", raw)
	}

	var items []struct {
		GeneratedText *string `json:"generated_text"`
	}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return "", malformed(HuggingFace, "decode generated text", raw)
	}
	if len(items) == 0 || items[0].GeneratedText == nil {
		return "", malformed(HuggingFace, "no generated_text", raw)
	}
	text := strings.TrimSpace(*items[0].GeneratedText)
	if text == "" {
		return "", malformed(HuggingFace, "blank generated_text", raw)
	}
	return text, nil
}
