package advisor

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// advisorInstruction frames every Gemini request.
const advisorInstruction = "You are a personal finance advisor. Answer in at most three short paragraphs of plain text. Do not recommend specific securities."

// GeminiAdvisor answers queries with a Gemini model.
type GeminiAdvisor struct {
	client *genai.Client
	model  string
}

// NewGeminiAdvisor creates a Gemini-backed advisor. httpClient may be nil.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GeminiAdvisor, error) {
	return newGeminiAdvisor(ctx, apiKey, model, httpClient, "")
}

func newGeminiAdvisor(ctx context.Context, apiKey, model string, httpClient *http.Client, baseURL string) (*GeminiAdvisor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini advisor")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiAdvisor{client: client, model: model}, nil
}

// GetAdvice implements Advisor.
func (a *GeminiAdvisor) GetAdvice(ctx context.Context, query string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(advisorInstruction, genai.RoleUser),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(query), cfg)
	if err != nil {
		return "", fmt.Errorf("generating advice: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("generating advice: empty response")
	}
	return text, nil
}
