package ai

import "context"

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PromptInput is the structured description of a room the provider renders.
type PromptInput struct {
	RoomType     string     `json:"roomType"`
	Style        string     `json:"style"`
	Dimensions   Dimensions `json:"dimensions"`
	Materials    []string   `json:"materials"`
	AmbientColor *string    `json:"ambientColor,omitempty"`
	CustomPrompt *string    `json:"customPrompt,omitempty"`
}

type Options struct {
	Provider      string
	InputImageURL *string
}

// Result always carries at least one image URL on success.
type Result struct {
	ImageURLs []string
	Prompt    string
	Metadata  map[string]interface{}
}

type Provider interface {
	Generate(ctx context.Context, input PromptInput, opts Options) (*Result, error)
}
