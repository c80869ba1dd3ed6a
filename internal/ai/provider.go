// Package ai provides image tagging backends. Each provider takes one
// image and returns a suggested filename, three one-word tags, and a short
// description.
package ai

import "context"

// Analysis is the tagging result for a single image.
type Analysis struct {
	// Name is a suggested snake_case filename including the extension.
	Name string `json:"name"`
	// Tags are one-word tags describing the image content.
	Tags []string `json:"tags"`
	// Description is a single descriptive sentence.
	Description string `json:"description"`
}

// Provider defines the interface for image analysis backends.
type Provider interface {
	Name() string
	AnalyzeImage(ctx context.Context, originalName string, imageData []byte) (*Analysis, error)

	// Usage tracking.
	GetUsage() *Usage
	ResetUsage()
}

// Usage tracks token usage and calculates cost.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalCost    float64 // in USD
}

// RequestPricing holds input/output prices per 1M tokens.
type RequestPricing struct {
	Input  float64
	Output float64
}
