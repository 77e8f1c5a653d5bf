package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAI interface {
	ChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error)
	Embedding(ctx context.Context, text string) ([]float64, error)
}

type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
}

type OpenAIOption func(*OpenAIClient)

func WithChatModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.chatModel = model
	}
}

func WithEmbeddingModel(model openai.EmbeddingModel) OpenAIOption {
	return func(c *OpenAIClient) {
		c.embeddingModel = model
	}
}

func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		client:         openai.NewClient(apiKey),
		chatModel:      openai.GPT3Dot5Turbo,
		embeddingModel: openai.AdaEmbeddingV2,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", goerr.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Embedding(ctx context.Context, text string) ([]float64, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create embedding")
	}
	if len(resp.Data) == 0 {
		return nil, goerr.New("embedding response has no data")
	}

	vec := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float64(v)
	}
	return vec, nil
}
