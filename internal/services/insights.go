package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrInsightsDisabled is returned when no API key is configured; callers treat
// it like any other provider failure and use the static fallback.
var ErrInsightsDisabled = errors.New("insights provider disabled")

// OpenAIInsightProvider generates report narratives through an OpenAI-style
// chat completion endpoint.
type OpenAIInsightProvider struct {
	client HTTPClient
	apiKey string
	base   string
	model  string
}

func NewOpenAIInsightProvider(client HTTPClient, apiKey, base, model string) *OpenAIInsightProvider {
	if client == nil {
		client = http.DefaultClient
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIInsightProvider{client: client, apiKey: apiKey, base: base, model: model}
}

func (p *OpenAIInsightProvider) GenerateInsight(resp QuizResponse, model *BusinessModel) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return "", ErrInsightsDisabled
	}
	if model == nil {
		return "", errors.New("nil business model")
	}
	src, err := json.Marshal(map[string]any{
		"business_model": map[string]string{"id": model.ID, "name": model.Name, "summary": model.Summary},
		"answers":        resp,
	})
	if err != nil {
		return "", err
	}
	payload := map[string]any{
		"model":       p.model,
		"temperature": 0.4,
		"messages": []map[string]string{
			{"role": "system", "content": insightPrompt()},
			{"role": "user", "content": string(src)},
		},
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequest(http.MethodPost, normalizeOpenAIEndpoint(p.base), bytes.NewReader(pb))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	res, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("insights provider: status %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&cc); err != nil {
		return "", err
	}
	if len(cc.Choices) == 0 {
		return "", errors.New("insights provider: no choices")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func insightPrompt() string {
	return "You write one short paragraph (3-4 sentences) telling a quiz taker how well a specific online business model fits their answers. Be concrete about which of their answers drive the fit. Plain text, no markdown, no greeting."
}

func normalizeOpenAIEndpoint(base string) string {
	b := strings.TrimRight(strings.TrimSpace(base), "/")
	if b == "" {
		b = "https://api.openai.com"
	}
	if strings.HasSuffix(b, "/chat/completions") {
		return b
	}
	if strings.HasSuffix(b, "/v1") {
		return b + "/chat/completions"
	}
	return b + "/v1/chat/completions"
}
