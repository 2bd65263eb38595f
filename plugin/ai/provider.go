// Package ai wraps the OpenAI-compatible API used for chat completion
// and embedding generation.
package ai

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/babynest/babynest/internal/profile"
)

// Config holds the AI provider configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	MaxRetries     int
	Timeout        time.Duration
	// RequestsPerSecond caps outgoing API calls.
	RequestsPerSecond float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api.openai.com/v1",
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "gpt-4o-mini",
		MaxRetries:     3,
		Timeout:        30 * time.Second,

		RequestsPerSecond: 5,
	}
}

// NewConfigFromProfile builds a provider config from the server profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := DefaultConfig()
	cfg.APIKey = p.AIAPIKey
	if p.AIBaseURL != "" {
		cfg.BaseURL = p.AIBaseURL
	}
	if p.AIChatModel != "" {
		cfg.ChatModel = p.AIChatModel
	}
	if p.AIEmbedModel != "" {
		cfg.EmbeddingModel = p.AIEmbedModel
	}
	return cfg
}

// Message represents a chat message.
type Message struct {
	Role    string
	Content string
}

// Provider provides LLM chat and embedding capabilities.
type Provider struct {
	client  *openai.Client
	config  *Config
	limiter *rate.Limiter
}

// NewProvider creates a new AI provider.
func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)),
	}
}

// Embedding generates an embedding vector for the given text.
func (p *Provider) Embedding(ctx context.Context, text string) ([]float32, error) {
	var result []float32
	err := p.doWithRetry(ctx, func() error {
		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(p.config.EmbeddingModel),
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return errors.New("empty embedding response")
		}
		result = resp.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate embedding")
	}
	return result, nil
}

// Chat performs a chat completion.
func (p *Provider) Chat(ctx context.Context, messages []Message) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		llmMessages := make([]openai.ChatCompletionMessage, len(messages))
		for i, msg := range messages {
			llmMessages[i] = openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			}
		}

		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    p.config.ChatModel,
			Messages: llmMessages,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to complete chat")
	}
	return result, nil
}

// Validate checks the provider configuration by issuing a test request.
func (p *Provider) Validate(ctx context.Context) error {
	if p.config.APIKey == "" {
		return errors.New("API key is required, set BABYNEST_AI_API_KEY")
	}
	if _, err := p.Embedding(ctx, "test"); err != nil {
		return errors.Wrap(err, "embedding validation failed")
	}
	slog.Info("AI provider validated",
		"embedding_model", p.config.EmbeddingModel,
		"chat_model", p.config.ChatModel)
	return nil
}

// doWithRetry executes a function with exponential backoff retry,
// waiting on the request rate limiter before each attempt.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("AI request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}
