package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Manoj5621/Fashion-virtual/internal/config"
)

// Generator produces one image for a prompt. The source photos are never
// transmitted; they only inform the prompt text and size checks upstream.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// The provider is asked for exactly one square frame at a fixed resolution.
const (
	candidateCount = 1
	outputSize     = "1024x1024"
)

var ErrNoImage = errors.New("provider returned no image payload")

type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg config.ProviderConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	count := int32(candidateCount)
	model.CandidateCount = &count

	full := fmt.Sprintf("%s\n\nReturn exactly one %s square image.", prompt, outputSize)

	resp, err := model.GenerateContent(ctx, genai.Text(full))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return blob.Data, nil
		}
	}

	return nil, ErrNoImage
}
