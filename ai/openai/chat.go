package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/mailroom/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	// ErrNoMessages is returned when a chat request carries no messages.
	ErrNoMessages = errors.New("chat request has no messages")

	// ErrNoChoices is returned when the service answers without any choices.
	ErrNoChoices = errors.New("no choices returned from model")
)

const schemaInstruction = `Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, or markdown. Start your response directly with the opening brace { and end with the closing brace }.

%s`

// ChatModel implements ai.ChatModel using OpenAI-compatible chat APIs.
type ChatModel struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.ChatModel = (*ChatModel)(nil)

// newChatModel is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChatModel(config *ai.Config) (*ChatModel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return newChatModelWithClient(client), nil
}

func newChatModelWithClient(client llms.Model) *ChatModel {
	return &ChatModel{
		client: client,
		logger: slog.Default().With("component", "openai-chat"),
	}
}

// NewChatModel creates a new chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(config *ai.Config) (ai.ChatModel, error) {
	return newChatModel(config)
}

// Chat sends the request to the model and returns the cleaned reply.
// Reasoning blocks emitted by thinking models are removed. When the request
// carries a schema, JSON mode is enabled, the schema is appended as a system
// instruction, and the reply is stripped of code fences. The payload itself is
// returned as the model wrote it.
func (m *ChatModel) Chat(ctx context.Context, req *ai.ChatRequest) (*ai.ChatResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}

	content := messageContent(req)
	response, err := m.client.GenerateContent(ctx, content, callOptions(req)...)
	if err != nil {
		m.logger.Error("failed to generate content", "model", req.Model, "err", err)
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(response.Choices) < 1 {
		m.logger.Debug("no choices returned from model", "model", req.Model)
		return nil, ErrNoChoices
	}

	text := stripThinking(response.Choices[0].Content)
	if len(req.Format) > 0 {
		text = stripCodeFences(text)
	}

	return &ai.ChatResponse{Content: text}, nil
}

// messageContent converts request messages into langchaingo message content.
func messageContent(req *ai.ChatRequest) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(req.Messages)+1)
	for _, msg := range req.Messages {
		content = append(content, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}
	if len(req.Format) > 0 {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem,
			fmt.Sprintf(schemaInstruction, string(req.Format))))
	}
	return content
}

func chatMessageType(role ai.Role) llms.ChatMessageType {
	switch role {
	case ai.RoleSystem:
		return llms.ChatMessageTypeSystem
	case ai.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// callOptions maps the request's model, sampling parameters, and format onto call options.
func callOptions(req *ai.ChatRequest) []llms.CallOption {
	var opts []llms.CallOption
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if o := req.Options; o != nil {
		opts = append(opts,
			llms.WithTemperature(o.Temperature),
			llms.WithTopP(o.TopP),
			llms.WithFrequencyPenalty(o.FrequencyPenalty),
			llms.WithPresencePenalty(o.PresencePenalty),
		)
		if o.MaxTokens > 0 {
			opts = append(opts, llms.WithMaxTokens(o.MaxTokens))
		}
	}
	if len(req.Format) > 0 {
		opts = append(opts, llms.WithJSONMode())
	}
	return opts
}
