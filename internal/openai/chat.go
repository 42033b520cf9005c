package openai

import (
	"context"
	"errors"
	"fmt"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// ChatOption adjusts a single chat request.
type ChatOption func(*chatRequest)

// WithTemperature sets the sampling temperature for the request.
func WithTemperature(t float64) ChatOption {
	return func(r *chatRequest) {
		r.Temperature = &t
	}
}

// Chat sends messages to the chat completions endpoint and returns
// the assistant reply.
func (c *Client) Chat(ctx context.Context, model string, messages []Message, opts ...ChatOption) (string, error) {
	if model == "" {
		model = DefaultModel
	}

	req := chatRequest{Model: model, Messages: messages}
	for _, opt := range opts {
		opt(&req)
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Completions binds a Client to a model and temperature so callers
// can request completions without carrying configuration around.
type Completions struct {
	client      *Client
	model       string
	temperature float64
}

// NewCompletions returns a Completions bound to model. A zero
// temperature means the API default.
func NewCompletions(client *Client, model string, temperature float64) *Completions {
	if model == "" {
		model = DefaultModel
	}
	return &Completions{client: client, model: model, temperature: temperature}
}

// Complete sends prompt as a single user message and returns the
// model's reply.
func (c *Completions) Complete(ctx context.Context, prompt string) (string, error) {
	opts := []ChatOption{}
	if c.temperature != 0 {
		opts = append(opts, WithTemperature(c.temperature))
	}
	return c.client.Chat(ctx, c.model, []Message{{Role: "user", Content: prompt}}, opts...)
}
