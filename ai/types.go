package ai

import "encoding/json"

// Role tags the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// SystemMessage returns a message with the system role.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a message with the user role.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ChatRequest describes one call to a ChatModel.
type ChatRequest struct {
	// Model overrides the provider's default chat model when non-empty.
	Model string

	// Messages are sent in order.
	Messages []Message

	// Format, when set, is a JSON Schema the reply must conform to.
	// The reply Content is then a JSON document.
	Format json.RawMessage

	// Options carries sampling parameters. Nil uses the service defaults.
	Options *GenerationConfig
}

// ChatResponse is the reply to a ChatRequest.
type ChatResponse struct {
	Content string
}

// GenerationConfig holds sampling parameters for a generation call.
type GenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	TopP             float64 `json:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
}

// DefaultGenerationConfig returns the sampling parameters used for synthetic records.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:      1.0,
		MaxTokens:        2048,
		TopP:             1.0,
		FrequencyPenalty: 0.0,
		PresencePenalty:  0.0,
	}
}
