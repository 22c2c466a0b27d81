package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Hugging Face serverless inference root; the
	// model identifier is appended to it per request.
	DefaultBaseURL = "https://api-inference.huggingface.co/models"

	requestTimeout = 120 * time.Second

	maxNewTokens = 2000
	temperature  = 0.7
)

// Client calls the Hugging Face Inference API for vision-language models
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type inferenceInputs struct {
	Image string `json:"image"`
	Text  string `json:"text"`
}

type inferenceParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

type inferenceRequest struct {
	Inputs     inferenceInputs     `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

// generation is the shape both list and object responses share. Which
// fields are populated varies by model family.
type generation struct {
	GeneratedText string `json:"generated_text"`
	Text          string `json:"text"`
}

// NewClient creates a new Hugging Face inference client
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Analyze POSTs the image and prompt to {base}/{modelID} and extracts the
// generated text from whichever response shape the model family returns.
func (c *Client) Analyze(ctx context.Context, modelID, prompt, imgB64 string) (string, error) {
	payload := inferenceRequest{
		Inputs: inferenceInputs{
			Image: imgB64,
			Text:  prompt,
		},
		Parameters: inferenceParameters{
			MaxNewTokens: maxNewTokens,
			Temperature:  temperature,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+modelID, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s", extractAPIError(resp.StatusCode, body))
	}

	return extractGeneratedText(body), nil
}

// extractGeneratedText applies the shape-tolerance rules in fixed priority
// order: one-element list with generated_text, object with generated_text,
// object with text, then the raw body. It never fails on an unrecognized
// shape.
func extractGeneratedText(body []byte) string {
	var list []generation
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 && list[0].GeneratedText != "" {
		return list[0].GeneratedText
	}

	var single generation
	if err := json.Unmarshal(body, &single); err == nil {
		if single.GeneratedText != "" {
			return single.GeneratedText
		}
		if single.Text != "" {
			return single.Text
		}
	}

	return strings.TrimSpace(string(body))
}

// extractAPIError pulls a structured error message out of a non-success
// response body, falling back to the raw status and body text
func extractAPIError(status int, body []byte) string {
	var withError struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &withError); err == nil && withError.Error != "" {
		return withError.Error
	}

	var withErrors struct {
		Error []string `json:"error"`
	}
	if err := json.Unmarshal(body, &withErrors); err == nil && len(withErrors.Error) > 0 {
		return strings.Join(withErrors.Error, "; ")
	}

	return fmt.Sprintf("hugging face returned status %d: %s", status, strings.TrimSpace(string(body)))
}
