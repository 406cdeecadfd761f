package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Kind classifies why a completion failed. It only shows up in logs.
type Kind string

const (
	KindTimeout  Kind = "timeout"
	KindCanceled Kind = "canceled"
	KindRequest  Kind = "request"
	KindEmpty    Kind = "empty"
)

// Failure is the error carried by a failed completion result.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("completion %s", f.Kind)
	}
	return fmt.Sprintf("completion %s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

var errNoChoices = errors.New("no choices returned from model")

// Client implements bot.Completer using the OpenAI-compatible API.
type Client struct {
	model   llms.Model
	timeout time.Duration
}

// NewClient creates a client bound to one model. Extra options are applied
// after the credentials, which lets callers swap the HTTP client.
func NewClient(
	apiKey, baseURL, model string, timeout time.Duration, opts ...openai.Option,
) (*Client, error) {
	opts = append(
		[]openai.Option{
			openai.WithToken(apiKey),
			openai.WithBaseURL(baseURL),
			openai.WithModel(model),
		},
		opts...,
	)

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &Client{model: llm, timeout: timeout}, nil
}

// Complete sends the prompt as a single user message, with no system prompt
// and no history. It never retries and never returns a partial result.
func (c *Client) Complete(ctx context.Context, prompt string) mo.Result[string] {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msgs := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	resp, err := c.model.GenerateContent(callCtx, msgs)
	if err != nil {
		return mo.Err[string](classify(ctx, callCtx, err))
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return mo.Err[string](&Failure{Kind: KindEmpty, Err: errNoChoices})
	}

	content := resp.Choices[0].Content
	if content == "" {
		return mo.Err[string](&Failure{Kind: KindEmpty, Err: errors.New("empty completion content")})
	}

	return mo.Ok(content)
}

// classify looks at the contexts rather than the error chain; the transport
// does not always wrap context errors.
func classify(parent, call context.Context, err error) *Failure {
	switch {
	case parent.Err() != nil:
		return &Failure{Kind: KindCanceled, Err: err}
	case errors.Is(call.Err(), context.DeadlineExceeded):
		return &Failure{Kind: KindTimeout, Err: err}
	default:
		return &Failure{Kind: KindRequest, Err: err}
	}
}
