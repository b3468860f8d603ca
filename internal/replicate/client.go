package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"interior-design-backend/internal/ai"
)

// Client runs image models on Replicate: create a prediction, then poll it to completion.
type Client struct {
	baseURL      string
	apiToken     string
	version      string
	pollInterval time.Duration
	backoffs     []time.Duration
	httpClient   *http.Client
}

type Option func(*Client)

func WithBackoffs(backoffs ...time.Duration) Option {
	return func(c *Client) { c.backoffs = backoffs }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

type PredictionInput struct {
	Prompt     string `json:"prompt"`
	Image      string `json:"image,omitempty"`
	NumOutputs int    `json:"num_outputs"`
}

type PredictionRequest struct {
	Version string          `json:"version"`
	Input   PredictionInput `json:"input"`
}

type Prediction struct {
	ID      string                 `json:"id"`
	Version string                 `json:"version"`
	Status  string                 `json:"status"` // "starting", "processing", "succeeded", "failed", "canceled"
	Output  json.RawMessage        `json:"output"`
	Error   interface{}            `json:"error"`
	Metrics map[string]interface{} `json:"metrics"`
}

func (p *Prediction) terminal() bool {
	switch p.Status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

// OutputURLs accepts both a single URL and a list of URLs.
func (p *Prediction) OutputURLs() []string {
	if len(p.Output) == 0 {
		return nil
	}
	var many []string
	if err := json.Unmarshal(p.Output, &many); err == nil {
		return many
	}
	var one string
	if err := json.Unmarshal(p.Output, &one); err == nil && one != "" {
		return []string{one}
	}
	return nil
}

func NewClient(baseURL, apiToken, version string, pollInterval time.Duration, opts ...Option) *Client {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiToken:     apiToken,
		version:      version,
		pollInterval: pollInterval,
		backoffs:     []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate submits one prediction and waits for it. The prediction is never resubmitted;
// only the status reads are retried.
func (c *Client) Generate(ctx context.Context, input ai.PromptInput, opts ai.Options) (*ai.Result, error) {
	prompt := ai.BuildPrompt(input)
	in := PredictionInput{Prompt: prompt, NumOutputs: 1}
	if opts.InputImageURL != nil {
		in.Image = *opts.InputImageURL
	}

	prediction, err := c.CreatePrediction(ctx, in)
	if err != nil {
		return nil, err
	}

	prediction, err = c.WaitForPrediction(ctx, prediction)
	if err != nil {
		return nil, err
	}

	if prediction.Status != "succeeded" {
		if prediction.Error != nil {
			return nil, fmt.Errorf("replicate prediction %s %s: %v", prediction.ID, prediction.Status, prediction.Error)
		}
		return nil, fmt.Errorf("replicate prediction %s %s", prediction.ID, prediction.Status)
	}

	urls := prediction.OutputURLs()
	if len(urls) == 0 {
		return nil, fmt.Errorf("replicate prediction %s returned no images", prediction.ID)
	}

	metadata := map[string]interface{}{
		"predictionId": prediction.ID,
		"version":      c.version,
	}
	if len(prediction.Metrics) > 0 {
		metadata["metrics"] = prediction.Metrics
	}
	if opts.InputImageURL != nil {
		metadata["sourceImageUrl"] = *opts.InputImageURL
	}

	return &ai.Result{ImageURLs: urls, Prompt: prompt, Metadata: metadata}, nil
}

func (c *Client) CreatePrediction(ctx context.Context, input PredictionInput) (*Prediction, error) {
	jsonData, err := json.Marshal(PredictionRequest{Version: c.version, Input: input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "create prediction", http.StatusCreated, http.StatusOK)
}

func (c *Client) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, "get prediction", http.StatusOK)
}

func (c *Client) CancelPrediction(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions/"+id+"/cancel", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	_, err = c.do(req, "cancel prediction", http.StatusOK)
	return err
}

// WaitForPrediction polls until the prediction is terminal or ctx ends. On ctx end the
// prediction is cancelled upstream.
func (c *Client) WaitForPrediction(ctx context.Context, prediction *Prediction) (*Prediction, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for !prediction.terminal() {
		select {
		case <-ctx.Done():
			return nil, c.abandon(ctx, prediction.ID)
		case <-ticker.C:
		}

		id := prediction.ID
		err := c.RetryWithBackoff(ctx, func() error {
			next, err := c.GetPrediction(ctx, id)
			if err != nil {
				return err
			}
			prediction = next
			return nil
		}, max(1, len(c.backoffs)))
		if err != nil {
			if ctx.Err() != nil {
				return nil, c.abandon(ctx, id)
			}
			return nil, err
		}
	}
	return prediction, nil
}

func (c *Client) abandon(ctx context.Context, id string) error {
	cancelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	_ = c.CancelPrediction(cancelCtx, id)
	return fmt.Errorf("replicate prediction %s: %w", id, ctx.Err())
}

func (c *Client) do(req *http.Request, op string, okStatuses ...int) (*Prediction, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	ok := false
	for _, status := range okStatuses {
		if resp.StatusCode == status {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("failed to %s: status %d, body: %s", op, resp.StatusCode, string(body))
	}

	var prediction Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}
	return &prediction, nil
}

// RetryWithBackoff executes fn up to maxRetries times, sleeping between attempts.
func (c *Client) RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if i == maxRetries-1 || i >= len(c.backoffs) {
			continue
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(c.backoffs[i]):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
