package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when the model answers without any choice.
var ErrEmptyCompletion = errors.New("model returned no completion choices")

type Provider interface {
	// Complete sends one system and one user message and returns the
	// first completion choice.
	Complete(ctx context.Context, system, user string, opts ...Option) (*Response, error)
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

func WithMaxTokens(n int64) Option {
	return func(o *Options) { o.MaxTokens = n }
}

type Response struct {
	Content string
	Model   string
	Usage   Usage
}
