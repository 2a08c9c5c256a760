package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/sozercan/insight-mole/internal/config"
)

// OpenAI client implementation
type OpenAI struct {
	client openai.Client
	cfg    *config.LLMConfig
}

var _ Provider = (*OpenAI)(nil)

// NewOpenAI builds a chat-completion client for the public API or Azure.
// Retries are disabled: every call is exactly one round trip.
func NewOpenAI(cfg *config.LLMConfig, extra ...option.RequestOption) (*OpenAI, error) {
	var opts []option.RequestOption

	switch cfg.Provider {
	case "azure":
		opts = append(opts,
			azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	default: // "openai"
		opts = append(opts,
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.Endpoint),
		)
	}
	opts = append(opts, option.WithMaxRetries(0))
	opts = append(opts, extra...)

	return &OpenAI{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}, nil
}

func (o *OpenAI) Complete(ctx context.Context, system, user string, opts ...Option) (*Response, error) {
	options := &Options{
		Model:     o.cfg.Model,
		MaxTokens: o.cfg.MaxTokens,
	}
	for _, opt := range opts {
		opt(options)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(options.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(options.Temperature),
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(options.MaxTokens)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
