package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"foundrydemo/internal/foundry"
	"foundrydemo/internal/items"
	"foundrydemo/internal/model"
)

// ErrDanglingToolMessage is returned when tool results follow an AI message
// that has no response ID to continue from.
var ErrDanglingToolMessage = errors.New("tool message does not follow an AI message with a response id")

// Model invokes a deployment through a Responder and returns block-form AI
// messages.
type Model struct {
	Responder  foundry.Responder
	Deployment string
	Reasoning  foundry.Reasoning
	Tools      []foundry.Tool
}

// WithTools returns a copy of m that offers tools to the model.
func (m *Model) WithTools(tools []foundry.Tool) *Model {
	clone := *m
	clone.Tools = append([]foundry.Tool(nil), tools...)
	return &clone
}

// Invoke sends the conversation and returns the model's AI message.
//
// When the conversation ends with tool messages answering the last AI message,
// only those results are sent, chained to the AI message's response ID.
func (m *Model) Invoke(ctx context.Context, messages []Message) (Message, error) {
	if len(messages) == 0 {
		return Message{}, errors.New("no messages to send")
	}

	req, err := m.buildRequest(messages)
	if err != nil {
		return Message{}, err
	}

	result, err := m.Responder.Create(ctx, req)
	if err != nil {
		return Message{}, err
	}

	payload, err := items.Decode(result.Raw)
	if err != nil {
		return Message{}, err
	}
	return messageFromPayload(payload), nil
}

func (m *Model) buildRequest(messages []Message) (foundry.Request, error) {
	req := foundry.Request{
		Model:     m.Deployment,
		Reasoning: m.Reasoning,
		Tools:     m.Tools,
	}

	tail := len(messages)
	for tail > 0 && messages[tail-1].Type == MessageTypeTool {
		tail--
	}
	if tail < len(messages) {
		if tail == 0 || messages[tail-1].Type != MessageTypeAI ||
			messages[tail-1].ResponseMetadata == nil || messages[tail-1].ResponseMetadata.ID == "" {
			return foundry.Request{}, ErrDanglingToolMessage
		}
		req.PreviousResponseID = messages[tail-1].ResponseMetadata.ID
		for _, msg := range messages[tail:] {
			req.ToolOutputs = append(req.ToolOutputs, foundry.ToolOutput{CallID: msg.ToolCallID, Output: msg.Text()})
		}
		return req, nil
	}

	for _, msg := range messages {
		var role foundry.Role
		switch msg.Type {
		case MessageTypeSystem:
			role = foundry.RoleSystem
		case MessageTypeHuman:
			role = foundry.RoleUser
		case MessageTypeAI:
			role = foundry.RoleAssistant
		default:
			return foundry.Request{}, fmt.Errorf("unsupported message type %q", msg.Type)
		}
		req.Messages = append(req.Messages, foundry.InputMessage{Role: role, Content: msg.Text()})
	}
	return req, nil
}

func messageFromPayload(payload *items.Payload) Message {
	reply := payload.Reply()
	blocks := make([]ContentBlock, 0, len(reply.Blocks))
	for _, block := range reply.Blocks {
		switch block.Kind {
		case model.KindReasoning:
			out := ContentBlock{Type: ContentBlockTypeReasoning}
			for _, part := range block.Summary {
				if part.Text == nil {
					continue
				}
				out.Summary = append(out.Summary, SummaryText{Type: part.Type, Text: *part.Text})
			}
			blocks = append(blocks, out)
		case model.KindMessage:
			for _, part := range block.Parts {
				if part.Text == nil {
					continue
				}
				blocks = append(blocks, ContentBlock{Type: ContentBlockTypeText, Text: *part.Text})
			}
		}
	}

	msg := Message{
		Type:          MessageTypeAI,
		Content:       Content{Blocks: blocks},
		UsageMetadata: usageMetadataFrom(reply.Usage),
		ResponseMetadata: &ResponseMetadata{
			ID:        payload.ID,
			ModelName: payload.Model,
			Status:    payload.Status,
		},
	}

	for _, call := range payload.FunctionCalls() {
		tc := ToolCall{ID: call.CallID, Name: call.Name, RawArgs: call.Arguments}
		if strings.TrimSpace(call.Arguments) != "" {
			var args map[string]any
			if err := json.Unmarshal([]byte(call.Arguments), &args); err == nil {
				tc.Args = args
			}
		}
		msg.ToolCalls = append(msg.ToolCalls, tc)
	}
	return msg
}
