package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ryotak25/kaidoku/internal/classify"
	"github.com/ryotak25/kaidoku/internal/model"
	"github.com/ryotak25/kaidoku/internal/semantic"
)

// OpenAIProvider implements Provider over the Chat Completions API
type OpenAIProvider struct {
	client  *openai.Client
	cfg     model.LLMConfig
	limiter *rate.Limiter
}

// NewOpenAIProvider creates a rate-gated OpenAI provider
func NewOpenAIProvider(cfg model.LLMConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 20
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rpm/60), 1),
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string { return "openai" }

// IsAvailable checks the API with a lightweight call
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Reconstruct asks the model to re-attribute the dump and converts the
// reply into an AnalysisResult using the same classifiers and grouping
// as the heuristic pipeline.
func (p *OpenAIProvider) Reconstruct(ctx context.Context, raw string) (*model.AnalysisResult, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate gate: %w", err)
	}

	timeout := time.Duration(p.cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	mdl := p.cfg.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}
	maxTokens := p.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4000
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     mdl,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You reconstruct chat transcripts from messy copy-pastes. You only ever answer with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(raw),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	return p.parseReply(resp.Choices[0].Message.Content)
}

type replyMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type reply struct {
	Messages []replyMessage `json:"messages"`
}

// parseReply validates the model output and runs the symbolic
// classifiers over it so the result shape matches the heuristic path
func (p *OpenAIProvider) parseReply(content string) (*model.AnalysisResult, error) {
	content = strings.TrimSpace(content)
	// Models sometimes wrap JSON in a fence despite instructions
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var r reply
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, fmt.Errorf("parse reconstruction: %w", err)
	}

	cfg := model.DefaultConfig()
	msgs := make([]model.Message, 0, len(r.Messages))
	vectors := make([]semantic.Vector, 0, len(r.Messages))
	for _, m := range r.Messages {
		role := model.RoleUser
		if m.Role == string(model.RoleAI) || m.Role == "assistant" {
			role = model.RoleAI
		}
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		topics := classify.Topics(text)
		msgs = append(msgs, model.Message{
			ID:         len(msgs),
			Role:       role,
			Text:       text,
			Confidence: 1.0,
			Intents:    classify.Intents(text),
			Artifacts:  classify.Artifacts(text),
			Topics:     topics,
		})
		vectors = append(vectors, semantic.BuildVector(text, topics, cfg.Grouping))
	}

	msgs, groups := semantic.NewGrouper(cfg).Group(msgs, vectors)
	msgs = semantic.NewSmoother(cfg).Smooth(msgs, groups)

	if msgs == nil {
		msgs = []model.Message{}
	}
	if groups == nil {
		groups = []model.SemanticGroup{}
	}
	return &model.AnalysisResult{Messages: msgs, Groups: groups}, nil
}
