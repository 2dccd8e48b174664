package analysis

import (
	"context"
	"log"
	"net/http"
	"time"
)

type paraphraseRequest struct {
	Text string `json:"text"`
}

type paraphraseResponse struct {
	ParaphrasedText string `json:"paraphrased_text"`
}

// Paraphraser rewrites text through a remote paraphrasing API
type Paraphraser struct {
	baseURL    string
	apiKey     string
	httpClient Doer
	logger     *log.Logger
}

// NewParaphraser creates a new paraphraser
func NewParaphraser(baseURL, apiKey string, logger *log.Logger) *Paraphraser {
	return &Paraphraser{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (p *Paraphraser) SetHTTPClient(doer Doer) {
	p.httpClient = doer
}

// Paraphrase returns a rewritten version of the text.
func (p *Paraphraser) Paraphrase(ctx context.Context, text string) (string, error) {
	var response paraphraseResponse
	if err := postJSON(ctx, p.httpClient, p.baseURL+"/v1/paraphrase", p.apiKey, paraphraseRequest{Text: text}, &response); err != nil {
		return "", err
	}
	return response.ParaphrasedText, nil
}
