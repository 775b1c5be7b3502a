package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// completionTemperature is sent with every prompt.
const completionTemperature = 0.7

// HTTPAdvisor forwards queries to an external text-completion endpoint that
// accepts {"prompt", "temperature"} and answers {"response"}.
type HTTPAdvisor struct {
	url        string
	httpClient *http.Client
}

// NewHTTPAdvisor creates an HTTPAdvisor posting to url.
func NewHTTPAdvisor(url string, httpClient *http.Client) *HTTPAdvisor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPAdvisor{
		url:        strings.TrimRight(url, "/"),
		httpClient: httpClient,
	}
}

// GetAdvice implements Advisor.
func (a *HTTPAdvisor) GetAdvice(ctx context.Context, query string) (string, error) {
	body := struct {
		Prompt      string  `json:"prompt"`
		Temperature float64 `json:"temperature"`
	}{Prompt: query, Temperature: completionTemperature}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("requesting completion: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if strings.TrimSpace(result.Response) == "" {
		return "", fmt.Errorf("requesting completion: empty response")
	}
	return result.Response, nil
}
