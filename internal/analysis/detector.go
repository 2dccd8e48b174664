package analysis

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// DetectionResult is the document-level verdict of the AI-content
// detection API.
type DetectionResult struct {
	PredictedClass          string  `json:"predicted_class"`
	AverageGeneratedProb    float64 `json:"average_generated_prob"`
	CompletelyGeneratedProb float64 `json:"completely_generated_prob"`
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Documents []DetectionResult `json:"documents"`
}

// Detector talks to a GPTZero-style AI-content detection API
type Detector struct {
	baseURL    string
	apiKey     string
	httpClient Doer
	logger     *log.Logger
}

// NewDetector creates a new AI-content detector
func NewDetector(baseURL, apiKey string, logger *log.Logger) *Detector {
	return &Detector{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (d *Detector) SetHTTPClient(doer Doer) {
	d.httpClient = doer
}

// Detect asks the detection API whether the text was generated by AI.
func (d *Detector) Detect(ctx context.Context, text string) (*DetectionResult, error) {
	var response detectResponse
	if err := postJSON(ctx, d.httpClient, d.baseURL+"/v1/detect", d.apiKey, detectRequest{Text: text}, &response); err != nil {
		return nil, err
	}

	if len(response.Documents) == 0 {
		return nil, fmt.Errorf("detection API returned no documents")
	}

	return &response.Documents[0], nil
}
