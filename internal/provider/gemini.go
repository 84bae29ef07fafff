package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/career-roadmap/ai-gateway/internal/errx"
)

// GeminiClient wraps the Gemini SDK client for single-turn generation.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*GeminiClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Name() string { return Gemini }

func (g *GeminiClient) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiClient) Generate(ctx context.Context, question string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(careerSystemPrompt)},
	}
	temp := float32(0.7)
	maxTokens := int32(500)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(question))
	if err != nil {
		return "", classifyGemini(err)
	}
	return geminiText(resp)
}

func classifyGemini(err error) *errx.Error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return errx.Provider(Gemini, "response blocked", err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return statusError(Gemini, apiErr.Code, []byte(apiErr.Message))
	}
	return classifyTransport(Gemini, err)
}

// geminiText concatenates the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errx.Provider(Gemini, "malformed response", errors.New("no candidates"))
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", errx.Provider(Gemini, "malformed response", errors.New("candidate has no parts"))
	}

	var text strings.Builder
	for _, part := range content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", errx.Provider(Gemini, "malformed response", errors.New("no text parts"))
	}
	return text.String(), nil
}
