package content

import (
	"context"
	"echoes-server/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// LLMGenerator - живой генератор поверх OpenAI-совместимого chat completions API
type LLMGenerator struct {
	client openai.Client
	model  string
}

// NewLLMGenerator. Повторы делает Service, поэтому встроенные повторы клиента выключены.
func NewLLMGenerator(apiKey, baseURL, model string) *LLMGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &LLMGenerator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// IsQuotaError - ошибка квоты или лимита запросов
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuota) {
		return true
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

// complete отправляет пару промптов и возвращает текст ответа
func (g *LLMGenerator) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformed)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty content", ErrMalformed)
	}
	return content, nil
}

// completeJSON - ответ модели разбирается как JSON-объект
func completeJSON[T any](ctx context.Context, g *LLMGenerator, systemPrompt, userPrompt string) (T, error) {
	var out T
	content, err := g.complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out, nil
}

// stripFences убирает ```json ... ``` вокруг ответа
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (g *LLMGenerator) GenerateIntro(ctx context.Context, difficulty domain.Difficulty, players []domain.PlayerSummary) (domain.Intro, error) {
	sys, user := introPrompts(difficulty, players)
	intro, err := completeJSON[domain.Intro](ctx, g, sys, user)
	if err != nil {
		return intro, err
	}
	if intro.Title == "" || intro.IntroText == "" {
		return intro, fmt.Errorf("%w: intro without title or text", ErrMalformed)
	}
	return intro, nil
}

func (g *LLMGenerator) GenerateRoomDiscovery(ctx context.Context, req domain.RoomRequest) (domain.RoomDescriptor, error) {
	sys, user := roomPrompts(req)
	desc, err := completeJSON[domain.RoomDescriptor](ctx, g, sys, user)
	if err != nil {
		return desc, err
	}
	if desc.Name == "" {
		return desc, fmt.Errorf("%w: room without name", ErrMalformed)
	}
	return desc, nil
}

func (g *LLMGenerator) GenerateInvestigationOutcome(ctx context.Context, description string, success bool, storyContext, foundObject string) (string, error) {
	sys, user := investigationPrompts(description, success, storyContext, foundObject)
	return g.complete(ctx, sys, user)
}

func (g *LLMGenerator) GenerateMythosEvent(ctx context.Context, storyContext string, threat int) (domain.MythosEvent, error) {
	sys, user := mythosPrompts(storyContext, threat)
	ev, err := completeJSON[domain.MythosEvent](ctx, g, sys, user)
	if err != nil {
		return ev, err
	}
	ev.Kind = domain.MythosKind(strings.ToUpper(strings.TrimSpace(string(ev.Kind))))
	switch ev.Kind {
	case domain.MythosSpawn, domain.MythosTest, domain.MythosFlavor:
	default:
		return ev, fmt.Errorf("%w: unknown mythos kind %q", ErrMalformed, ev.Kind)
	}
	if ev.Narrative == "" {
		return ev, fmt.Errorf("%w: empty narrative", ErrMalformed)
	}
	return ev, nil
}

func (g *LLMGenerator) GenerateInsanityCondition(ctx context.Context, storyContext string) (string, error) {
	sys, user := insanityPrompts(storyContext)
	return g.complete(ctx, sys, user)
}
