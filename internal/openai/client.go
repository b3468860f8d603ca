package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"interior-design-backend/internal/ai"
	"interior-design-backend/internal/artifacts"
)

// DefaultMaxSourceBytes matches the images API upload limit.
const DefaultMaxSourceBytes = 50 << 20

// Client talks to the OpenAI images API.
type Client struct {
	baseURL        string
	apiKey         string
	model          string
	size           string
	sink           artifacts.Store
	maxSourceBytes int64
	httpClient     *http.Client
}

type Option func(*Client)

// WithSink persists images that come back base64 encoded so they can be referenced by URL.
func WithSink(store artifacts.Store) Option {
	return func(c *Client) { c.sink = store }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxSourceBytes caps how much of a source photo is downloaded before editing.
func WithMaxSourceBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxSourceBytes = n
		}
	}
}

// SourceImage is a downloaded photo together with its content type.
type SourceImage struct {
	Data        []byte
	ContentType string
}

type GenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size,omitempty"`
}

type ImageData struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

type ImagesResponse struct {
	Created int64       `json:"created"`
	Data    []ImageData `json:"data"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func NewClient(baseURL, apiKey, model, size string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		apiKey:         apiKey,
		model:          model,
		size:           size,
		maxSourceBytes: DefaultMaxSourceBytes,
		httpClient: &http.Client{
			Timeout: 3 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate renders the room. With a source photo and an edit-capable model it edits the photo;
// otherwise it generates from text alone.
func (c *Client) Generate(ctx context.Context, input ai.PromptInput, opts ai.Options) (*ai.Result, error) {
	prompt := ai.BuildPrompt(input)
	metadata := map[string]interface{}{
		"model": c.model,
		"size":  c.size,
	}

	var (
		resp *ImagesResponse
		err  error
	)
	if opts.InputImageURL != nil && c.supportsEdits() {
		metadata["mode"] = "edit"
		metadata["sourceImageUrl"] = *opts.InputImageURL
		var source *SourceImage
		source, err = c.DownloadImage(ctx, *opts.InputImageURL)
		if err != nil {
			return nil, err
		}
		resp, err = c.Edit(ctx, prompt, *source)
	} else {
		metadata["mode"] = "generate"
		if opts.InputImageURL != nil {
			metadata["sourceImageUrl"] = *opts.InputImageURL
		}
		resp, err = c.CreateImage(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	urls, err := c.resolveURLs(ctx, resp.Data)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("openai returned no images")
	}

	effective := prompt
	if revised := resp.Data[0].RevisedPrompt; revised != "" {
		effective = revised
		metadata["originalPrompt"] = prompt
	}
	metadata["created"] = resp.Created

	return &ai.Result{ImageURLs: urls, Prompt: effective, Metadata: metadata}, nil
}

func (c *Client) supportsEdits() bool {
	return strings.HasPrefix(c.model, "gpt-image")
}

func (c *Client) CreateImage(ctx context.Context, prompt string) (*ImagesResponse, error) {
	jsonData, err := json.Marshal(GenerationRequest{Model: c.model, Prompt: prompt, N: 1, Size: c.size})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "generate image")
}

// Edit sends the source photo as a multipart upload alongside the prompt.
func (c *Client) Edit(ctx context.Context, prompt string, source SourceImage) (*ImagesResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for field, value := range map[string]string{"model": c.model, "prompt": prompt, "n": "1", "size": c.size} {
		if err := writer.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", field, err)
		}
	}

	// The edits endpoint rejects image parts typed application/octet-stream.
	contentType := source.ContentType
	ext := artifacts.ExtensionFor(contentType)
	if ext == "" {
		return nil, fmt.Errorf("unsupported source image type %q", contentType)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="room%s"`, ext))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(source.Data); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, "edit image")
}

func (c *Client) do(req *http.Request, op string) (*ImagesResponse, error) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("failed to %s: status %d: %s", op, resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("failed to %s: status %d, body: %s", op, resp.StatusCode, string(body))
	}

	var result ImagesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

func (c *Client) resolveURLs(ctx context.Context, data []ImageData) ([]string, error) {
	urls := make([]string, 0, len(data))
	for _, img := range data {
		switch {
		case img.URL != "":
			urls = append(urls, img.URL)
		case img.B64JSON != "":
			if c.sink == nil {
				return nil, fmt.Errorf("openai returned inline image data but no artifact store is configured")
			}
			raw, err := base64.StdEncoding.DecodeString(img.B64JSON)
			if err != nil {
				return nil, fmt.Errorf("failed to decode inline image: %w", err)
			}
			obj, err := c.sink.Store(ctx, artifacts.GeneratedKey(".png"), raw, "image/png")
			if err != nil {
				return nil, fmt.Errorf("failed to persist generated image: %w", err)
			}
			urls = append(urls, obj.URL)
		}
	}
	return urls, nil
}

// DownloadImage fetches a source photo, refusing anything larger than the configured cap.
func (c *Client) DownloadImage(ctx context.Context, imageURL string) (*SourceImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download source image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download source image: status %d", resp.StatusCode)
	}

	// Read one byte past the cap so an oversized body is detected rather than truncated.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read source image: %w", err)
	}
	if int64(len(data)) > c.maxSourceBytes {
		return nil, fmt.Errorf("source image exceeds %d bytes", c.maxSourceBytes)
	}

	// Storage buckets often serve octet-stream; trust the bytes over the header then.
	contentType := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	if artifacts.ExtensionFor(contentType) == "" {
		contentType = strings.Split(http.DetectContentType(data), ";")[0]
	}
	return &SourceImage{Data: data, ContentType: contentType}, nil
}
