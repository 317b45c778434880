package services

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type stubHTTPClient struct {
	status   int
	body     string
	err      error
	lastReq  *http.Request
	lastBody []byte
}

func (c *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.lastReq = req
	if req.Body != nil {
		c.lastBody, _ = io.ReadAll(req.Body)
	}
	if c.err != nil {
		return nil, c.err
	}
	return &http.Response{
		StatusCode: c.status,
		Body:       io.NopCloser(bytes.NewBufferString(c.body)),
	}, nil
}

func TestGenerateInsight(t *testing.T) {
	client := &stubHTTPClient{
		status: http.StatusOK,
		body:   `{"choices":[{"message":{"content":"  You should start a channel.  "}}]}`,
	}
	p := NewOpenAIInsightProvider(client, "sk-test", "", "")

	text, err := p.GenerateInsight(NeutralResponse(), CatalogModel("content-creation"))
	if err != nil {
		t.Fatalf("GenerateInsight error: %v", err)
	}
	if text != "You should start a channel." {
		t.Fatalf("unexpected text: %q", text)
	}
	if got := client.lastReq.URL.String(); got != "https://api.openai.com/v1/chat/completions" {
		t.Fatalf("unexpected endpoint: %s", got)
	}
	if got := client.lastReq.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %s", got)
	}

	var payload struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(client.lastBody, &payload); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if payload.Model != "gpt-4o-mini" {
		t.Fatalf("default model not applied: %s", payload.Model)
	}
	if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", payload.Messages)
	}
	if !strings.Contains(payload.Messages[1].Content, "content-creation") {
		t.Fatalf("user message missing the business model: %s", payload.Messages[1].Content)
	}
}

func TestGenerateInsightDisabledWithoutKey(t *testing.T) {
	p := NewOpenAIInsightProvider(&stubHTTPClient{}, "", "", "")
	_, err := p.GenerateInsight(NeutralResponse(), CatalogModel("freelancing"))
	if err != ErrInsightsDisabled {
		t.Fatalf("expected ErrInsightsDisabled, got %v", err)
	}
}

func TestGenerateInsightUpstreamError(t *testing.T) {
	client := &stubHTTPClient{status: http.StatusTooManyRequests, body: `{"error":"rate limited"}`}
	p := NewOpenAIInsightProvider(client, "sk-test", "", "")
	_, err := p.GenerateInsight(NeutralResponse(), CatalogModel("freelancing"))
	if err == nil || !strings.Contains(err.Error(), "status 429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestNormalizeOpenAIEndpoint(t *testing.T) {
	cases := map[string]string{
		"":                       "https://api.openai.com/v1/chat/completions",
		"https://proxy.local":    "https://proxy.local/v1/chat/completions",
		"https://proxy.local/v1": "https://proxy.local/v1/chat/completions",
		"https://proxy.local/v1/chat/completions": "https://proxy.local/v1/chat/completions",
	}
	for in, want := range cases {
		if got := normalizeOpenAIEndpoint(in); got != want {
			t.Fatalf("normalizeOpenAIEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
