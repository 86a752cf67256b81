// Package chat provides a chat-model layer over the Responses API. Messages go
// in, and an AI message comes back whose content is a list of kind-tagged blocks
// (reasoning summaries followed by answer text) or, without reasoning, a plain
// string.
package chat

import (
	"encoding/json"
	"errors"
)

// MessageType identifies the author of a message.
type MessageType string

const (
	MessageTypeSystem MessageType = "system"
	MessageTypeHuman  MessageType = "human"
	MessageTypeAI     MessageType = "ai"
	MessageTypeTool   MessageType = "tool"
)

// ContentBlockType represents the "type" field in content blocks.
type ContentBlockType string

const (
	ContentBlockTypeReasoning ContentBlockType = "reasoning"
	ContentBlockTypeText      ContentBlockType = "text"
)

// SummaryText is one fragment of a reasoning block summary.
type SummaryText struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ContentBlock is one element of block-form message content.
type ContentBlock struct {
	Type    ContentBlockType `json:"type"`
	ID      string           `json:"id,omitempty"`
	Text    string           `json:"text,omitempty"`
	Summary []SummaryText    `json:"summary,omitempty"`
}

// Content is either a plain string or an ordered list of blocks. Blocks takes
// precedence when non-nil.
type Content struct {
	Text   string
	Blocks []ContentBlock
}

// IsBlocks reports whether the content is in block form.
func (c Content) IsBlocks() bool { return c.Blocks != nil }

// MarshalJSON writes blocks as an array and plain content as a string.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.Blocks != nil {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts an array of blocks or a string.
func (c *Content) UnmarshalJSON(data []byte) error {
	var blocks []ContentBlock
	if err := json.Unmarshal(data, &blocks); err == nil {
		if blocks == nil {
			blocks = []ContentBlock{}
		}
		*c = Content{Blocks: blocks}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = Content{Text: text}
		return nil
	}

	return errors.New("content must be a string or an array of blocks")
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Args    map[string]any `json:"args"`
	RawArgs string         `json:"-"`
}

// OutputTokenDetails breaks down output token usage.
type OutputTokenDetails struct {
	Reasoning *int `json:"reasoning,omitempty"`
}

// UsageMetadata is the token accounting attached to an AI message.
type UsageMetadata struct {
	InputTokens        *int                `json:"input_tokens,omitempty"`
	OutputTokens       *int                `json:"output_tokens,omitempty"`
	TotalTokens        *int                `json:"total_tokens,omitempty"`
	OutputTokenDetails *OutputTokenDetails `json:"output_token_details,omitempty"`
}

// ResponseMetadata describes the response an AI message was built from.
type ResponseMetadata struct {
	ID        string `json:"id"`
	ModelName string `json:"model_name"`
	Status    string `json:"status"`
}

// Message is one turn of a conversation.
type Message struct {
	Type             MessageType       `json:"type"`
	Content          Content           `json:"content"`
	Name             string            `json:"name,omitempty"`
	ToolCallID       string            `json:"tool_call_id,omitempty"`
	ToolCalls        []ToolCall        `json:"tool_calls,omitempty"`
	UsageMetadata    *UsageMetadata    `json:"usage_metadata,omitempty"`
	ResponseMetadata *ResponseMetadata `json:"response_metadata,omitempty"`
}

// SystemMessage builds a system instruction message.
func SystemMessage(text string) Message {
	return Message{Type: MessageTypeSystem, Content: Content{Text: text}}
}

// HumanMessage builds a user message.
func HumanMessage(text string) Message {
	return Message{Type: MessageTypeHuman, Content: Content{Text: text}}
}

// ToolMessage builds the result of a tool call.
func ToolMessage(name, callID, output string) Message {
	return Message{Type: MessageTypeTool, Name: name, ToolCallID: callID, Content: Content{Text: output}}
}

// Text returns the message text: the plain content, or the concatenated text
// blocks.
func (m Message) Text() string {
	if !m.Content.IsBlocks() {
		return m.Content.Text
	}
	var text string
	for _, block := range m.Content.Blocks {
		if block.Type == ContentBlockTypeText {
			text += block.Text
		}
	}
	return text
}
