// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/CrawX/go-mail-triage/domain"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel      = openai.GPT4oMini
	CompletionTimeout = 60 * time.Second
)

// OpenAICompleter talks to the OpenAI chat completion API or any compatible endpoint.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

func NewOpenAICompleter(apiKey, baseURL, model string) *OpenAICompleter {
	config := openai.DefaultConfig(apiKey)
	if len(baseURL) > 0 {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: CompletionTimeout,
	}

	if len(model) == 0 {
		model = DefaultModel
	}

	return &OpenAICompleter{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		if isRateLimit(err) {
			return "", fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
		return "", fmt.Errorf("could not create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func isRateLimit(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}

	return false
}
