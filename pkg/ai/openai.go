package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second
	DefaultRPM     = 30
)

// Config configures the OpenAI-compatible transformer.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // empty uses the public endpoint

	// Timeout bounds each call.
	Timeout time.Duration

	// RequestsPerMinute throttles outgoing calls. Zero or less disables throttling.
	RequestsPerMinute int

	Logger *slog.Logger
}

// OpenAI implements Transformer on the chat completion API.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewOpenAI creates a transformer. A missing API key yields ErrAIDisabled.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: no api key configured", ErrAIDisabled)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	cfg.Logger.Debug("initializing ai client", "model", cfg.Model, "base_url", clientCfg.BaseURL)
	return &OpenAI{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: limiter,
		logger:  cfg.Logger,
	}, nil
}

const systemPrompt = "You are a careful note-taking assistant. Follow the instructions exactly."

func (o *OpenAI) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAICollaborator, err)
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		o.logger.Error("ai call failed", "model", o.model, "error", err)
		return "", fmt.Errorf("%w: %v", ErrAICollaborator, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrAICollaborator)
	}
	o.logger.Debug("ai call finished",
		"model", o.model,
		"duration", time.Since(start),
		"finish_reason", resp.Choices[0].FinishReason,
	)
	return resp.Choices[0].Message.Content, nil
}

var fencePattern = regexp.MustCompile("```(?:json)?\\s*")

// parseJSON decodes a model reply, tolerating markdown code fences around it.
func parseJSON(text string, v any) error {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
	if cleaned == "" {
		return fmt.Errorf("%w: empty reply", ErrAICollaborator)
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: malformed reply: %v", ErrAICollaborator, err)
	}
	return nil
}

func (o *OpenAI) Summarize(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf(`Write a very short, factual summary (one sentence at most) of the note below.
Return only the plain summary text, without quotes or preamble.

Title: %s
Content: %s`, title, content)
	out, err := o.complete(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(out), `"`), nil
}

func (o *OpenAI) Improve(ctx context.Context, title, content string, categories []string) (Suggestion, error) {
	list := "none defined yet"
	if len(categories) > 0 {
		list = strings.Join(categories, ", ")
	}
	if strings.TrimSpace(title) == "" {
		title = "(empty)"
	}
	prompt := fmt.Sprintf(`You are a professional note editor. Analyze and improve the text below.
1. Write a one-sentence summary ("summary").
2. Fix grammar and style, keeping the original language ("improvedText").
3. Propose a better, concise title ("suggestedTitle"). If the current title is empty, derive one from the content.
4. Pick the fitting labels ONLY from the existing categories below ("suggestedCategories").
5. If none fits, propose ONE new name in "newCategoryRecommendation" and do NOT add it to "suggestedCategories".
Reply with a single JSON object with exactly those keys.

EXISTING CATEGORIES: [%s]

Current title: %s
Content: %s`, list, title, content)

	out, err := o.complete(ctx, prompt, true)
	if err != nil {
		return Suggestion{}, err
	}
	var s Suggestion
	if err := parseJSON(out, &s); err != nil {
		return Suggestion{}, err
	}
	s.SuggestedCategories = restrictCategories(s.SuggestedCategories, categories)
	return s, nil
}

func (o *OpenAI) VerifyFacts(ctx context.Context, content string) (Verification, error) {
	prompt := fmt.Sprintf(`Check the facts in the text below. Point out mistakes and cite sources.
Reply with a JSON object: {"text": "<annotated text>", "sources": [{"title": "...", "url": "..."}]}.

Text to verify: %s`, content)

	out, err := o.complete(ctx, prompt, true)
	if err != nil {
		return Verification{}, err
	}
	var v Verification
	if err := parseJSON(out, &v); err != nil {
		return Verification{}, err
	}
	if strings.TrimSpace(v.Text) == "" {
		v.Text = "The facts could not be verified."
	}
	return v, nil
}

func (o *OpenAI) Translate(ctx context.Context, title, content, language string) (Translation, error) {
	prompt := fmt.Sprintf(`Translate the title and content of the note into: %s.
Keep the tone and formatting. Reply with a JSON object {"title": "...", "content": "..."}.

Title: %s
Content: %s`, language, title, content)

	out, err := o.complete(ctx, prompt, true)
	if err != nil {
		return Translation{}, err
	}
	var tr Translation
	if err := parseJSON(out, &tr); err != nil {
		return Translation{}, err
	}
	if tr.Title == "" && tr.Content == "" {
		return Translation{}, fmt.Errorf("%w: empty translation", ErrAICollaborator)
	}
	return tr, nil
}

var _ Transformer = (*OpenAI)(nil)
