package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Doer performs HTTP requests. The concrete *http.Client satisfies it;
// tests substitute a fake so no real network endpoint is hit.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// The instructional prompt sent with every analysis request. The
// wording is part of the wire contract: it makes the model answer with
// "Trecho: ... - Fonte: ..." lines that the report parser understands.
const (
	systemPrompt = "Você é um assistente que detecta plágio comparando textos."
	userPrompt   = "Verifique se esse texto possui plágio na internet e destaque os trechos plagiados. " +
		"Para cada trecho, informe também a fonte original (por exemplo, a URL ou outra referência). " +
		"\n\n"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to a chat-completion style plagiarism analysis API
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient Doer
	logger     *log.Logger
}

// NewClient creates a new analysis client
func NewClient(baseURL, apiKey, model string, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(doer Doer) {
	c.httpClient = doer
}

// Analyze sends the subject text with the fixed plagiarism prompt and
// returns the single textual completion. Any non-success status code is
// reported back as an error carrying the status; there is no retry.
func (c *Client) Analyze(ctx context.Context, text string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt + text},
		},
	}

	var response chatResponse
	if err := postJSON(ctx, c.httpClient, c.baseURL+"/v1/chat/completions", c.apiKey, body, &response); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("analysis API returned no completion choices")
	}

	return response.Choices[0].Message.Content, nil
}

// postJSON marshals body, POSTs it with bearer auth and decodes the
// JSON response into result.
func postJSON(ctx context.Context, client Doer, url, apiKey string, body, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
