package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnalyzeSendsChatCompletionRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq ChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"analysis text"}}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key")

	text, err := c.Analyze(context.Background(), "qwen/qwen2.5-vl-32b-instruct:free", "prompt", "aGVsbG8=")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if text != "analysis text" {
		t.Errorf("analysis = %q, want verbatim message content", text)
	}

	if gotPath != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q, want bearer key", gotAuth)
	}
	if gotReq.Model != "qwen/qwen2.5-vl-32b-instruct:free" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.MaxTokens != 2000 {
		t.Errorf("max_tokens = %d, want 2000", gotReq.MaxTokens)
	}
	if gotReq.Temperature != 0.7 {
		t.Errorf("temperature = %f, want 0.7", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v, want one user message", gotReq.Messages)
	}

	parts, ok := gotReq.Messages[0].Content.([]interface{})
	if !ok || len(parts) != 2 {
		t.Fatalf("content = %+v, want text part and image part", gotReq.Messages[0].Content)
	}
	imagePart, ok := parts[1].(map[string]interface{})
	if !ok {
		t.Fatalf("image part has unexpected shape: %+v", parts[1])
	}
	imageURL, _ := imagePart["image_url"].(map[string]interface{})
	url, _ := imageURL["url"].(string)
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Errorf("image url = %q, want inline data URL", url)
	}
}

func TestAnalyzeTextPartContent(t *testing.T) {
	// Some gateways return content as an array of parts
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":[{"type":"text","text":"from parts"}]}}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k")
	text, err := c.Analyze(context.Background(), "m", "p", "")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if text != "from parts" {
		t.Errorf("analysis = %q, want text extracted from parts", text)
	}
}

func TestAnalyzeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k")
	_, err := c.Analyze(context.Background(), "m", "p", "")
	if err == nil {
		t.Fatal("Analyze succeeded on a 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q does not carry the status", err.Error())
	}
}

func TestAnalyzeNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "k")
	if _, err := c.Analyze(context.Background(), "m", "p", ""); err == nil {
		t.Fatal("Analyze succeeded with no choices")
	}
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	c := NewClient("", "k")
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
}
