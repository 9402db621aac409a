package service

import (
	"context"
	"strings"

	"descontamina/internal/config"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// GenAIClient generates text through the Google Gen AI SDK
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates an SDK backed generator for the Gemini API backend
func NewGenAIClient(ctx context.Context, cfg *config.AIConfig) (*GenAIClient, error) {
	if !cfg.IsEnabled() {
		return nil, goerr.New("GenAI API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	// The SDK wants the host root, not the models collection URL
	if base := strings.TrimSuffix(cfg.BaseURL, "/v1beta/models"); base != cfg.BaseURL {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base + "/"}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GenAI client")
	}
	return &GenAIClient{client: client, model: cfg.Model}, nil
}

func (c *GenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", goerr.Wrap(err, "genai generate failed", goerr.V("model", c.model))
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", goerr.New("empty response from Gemini", goerr.V("model", c.model))
	}
	part := resp.Candidates[0].Content.Parts[0]
	if part == nil || part.Text == "" {
		return "", goerr.New("empty response from Gemini", goerr.V("model", c.model))
	}
	return part.Text, nil
}
