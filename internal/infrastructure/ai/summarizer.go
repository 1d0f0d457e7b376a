package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Summarizer produces short post summaries from plain text
type Summarizer interface {
	Summarize(ctx context.Context, plainText string) (string, error)
	Enabled() bool
}

const summaryPrompt = "Summarize the following blog post in two or three sentences. " +
	"Write in the same language as the post. Return only the summary."

// Posts can be very long; the opening covers what a teaser summary needs
const maxInputRunes = 12000

// OpenAISummarizer implements Summarizer on the OpenAI chat completion API
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISummarizer(apiKey, model string) *OpenAISummarizer {
	if apiKey == "" {
		return &OpenAISummarizer{client: nil, model: model}
	}
	return &OpenAISummarizer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Enabled reports whether an API key was configured
func (s *OpenAISummarizer) Enabled() bool {
	return s.client != nil
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, plainText string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("summarizer is not configured")
	}

	input := plainText
	if runes := []rune(input); len(runes) > maxInputRunes {
		input = string(runes[:maxInputRunes])
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
		MaxTokens:   256,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
