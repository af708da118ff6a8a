package prompts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrEmptyResponse indicates the model answered without any text.
var ErrEmptyResponse = errors.New("empty response from model")

// Request is a single text generation call.
type Request struct {
	Contents          string
	SystemInstruction string
	Temperature       *float32
	Schema            *genai.Schema
}

// Generator produces text for a request.
type Generator interface {
	GenerateContent(ctx context.Context, req Request) (string, error)
}

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a client for the Gemini developer API.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// GenerateContent runs the request and returns the concatenated response text.
func (g *Gemini) GenerateContent(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Contents), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
