package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/metrics"
	"github.com/vlogit/core/internal/models"
)

// Static answers used whenever generation fails.
const (
	FallbackComment      = "Awesome vlog! 👏"
	EmptyCommentFallback = "Love this! 🔥"
)

// FallbackPrompt is the daily challenge used when generation fails.
var FallbackPrompt = models.DailyPrompt{
	Title:       "Outfit Check",
	Description: "Show us your fit for the day in 10 seconds or less.",
	Difficulty:  models.DifficultyEasy,
}

const (
	promptContents = "Generate a fun, Gen-Z friendly daily vlog challenge idea for a group of friends. " +
		"It should be spontaneous and easy to film in under 30 seconds."
	promptInstruction = "You are a creative director for a trendy social media app. " +
		"Keep prompts short, viral-worthy, and energetic."
	commentTemplate = "Write a very short, supportive, 1-sentence comment for a friend who just posted a vlog about: %s. Use emojis."
)

var promptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":       {Type: genai.TypeString, Description: "A catchy, short title for the vlog challenge (max 5 words)."},
		"description": {Type: genai.TypeString, Description: "A fun, brief instruction on what to film (max 20 words)."},
		"difficulty":  {Type: genai.TypeString, Enum: []string{"Easy", "Medium", "Hard"}},
	},
	Required: []string{"title", "description", "difficulty"},
}

var errInvalidPrompt = errors.New("generated prompt is incomplete")

// Service asks the generator for prompts and comments and never fails: every
// error is logged and replaced by a static answer.
type Service struct {
	generator Generator
	timeout   time.Duration
}

// NewService wraps generator. A nil generator makes the service answer with fallbacks only.
func NewService(generator Generator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{generator: generator, timeout: timeout}
}

// DailyPrompt returns today's challenge.
func (s *Service) DailyPrompt(ctx context.Context) models.DailyPrompt {
	prompt, err := s.generatePrompt(ctx)
	if err != nil {
		s.fallback(ctx, "prompt", err)
		return FallbackPrompt
	}
	return prompt
}

// Comment returns a short supportive comment for a vlog about title.
func (s *Service) Comment(ctx context.Context, title string) string {
	if s.generator == nil {
		s.fallback(ctx, "comment", errors.New("generator not configured"))
		return FallbackComment
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.GenerateContent(ctx, Request{Contents: fmt.Sprintf(commentTemplate, title)})
	if errors.Is(err, ErrEmptyResponse) || (err == nil && strings.TrimSpace(text) == "") {
		return EmptyCommentFallback
	}
	if err != nil {
		s.fallback(ctx, "comment", err)
		return FallbackComment
	}
	return strings.TrimSpace(text)
}

func (s *Service) generatePrompt(ctx context.Context) (models.DailyPrompt, error) {
	if s.generator == nil {
		return models.DailyPrompt{}, errors.New("generator not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	temperature := float32(1.2)
	text, err := s.generator.GenerateContent(ctx, Request{
		Contents:          promptContents,
		SystemInstruction: promptInstruction,
		Temperature:       &temperature,
		Schema:            promptSchema,
	})
	if err != nil {
		return models.DailyPrompt{}, err
	}
	return parsePrompt(text)
}

func parsePrompt(text string) (models.DailyPrompt, error) {
	var prompt models.DailyPrompt
	if err := json.Unmarshal([]byte(text), &prompt); err != nil {
		return models.DailyPrompt{}, fmt.Errorf("parse prompt: %w", err)
	}
	prompt.Title = strings.TrimSpace(prompt.Title)
	prompt.Description = strings.TrimSpace(prompt.Description)
	if prompt.Title == "" || prompt.Description == "" || !prompt.Difficulty.Valid() {
		return models.DailyPrompt{}, errInvalidPrompt
	}
	return prompt, nil
}

func (s *Service) fallback(ctx context.Context, call string, err error) {
	metrics.AIFallbacks.WithLabelValues(call).Inc()
	logging.FromContext(ctx).Warn("generation failed, using fallback", "call", call, "error", err)
}
