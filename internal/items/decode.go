package items

import (
	"encoding/json"
	"errors"
	"fmt"

	"foundrydemo/internal/model"
)

// ErrNoOutput is returned when a payload has no "output" field at all.
var ErrNoOutput = errors.New("response payload has no output field")

// Decode parses a raw Responses API object.
func Decode(raw []byte) (*Payload, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if _, ok := keys["output"]; !ok {
		return nil, ErrNoOutput
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal response output: %w", err)
	}
	return &payload, nil
}

// Reply converts the payload into the normalized reply, preserving item order.
func (p *Payload) Reply() model.Reply {
	reply := model.Reply{Form: model.FormItems, Usage: p.usage()}
	for _, item := range p.Output {
		block := model.Block{Kind: model.Kind(item.Type)}
		switch ItemType(item.Type) {
		case ItemTypeReasoning:
			for _, part := range item.Summary {
				block.Summary = append(block.Summary, model.SummaryPart{Type: part.Type, Text: part.Text})
			}
		case ItemTypeMessage:
			block.Parts = decodeContentParts(item.Content)
		}
		reply.Blocks = append(reply.Blocks, block)
	}
	return reply
}

// FunctionCalls returns the function_call items in output order.
func (p *Payload) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, item := range p.Output {
		if ItemType(item.Type) != ItemTypeFunctionCall {
			continue
		}
		calls = append(calls, FunctionCall{
			CallID:    item.CallID,
			Name:      item.Name,
			Arguments: item.Arguments,
		})
	}
	return calls
}

func (p *Payload) usage() *model.Usage {
	if p.Usage == nil {
		return nil
	}
	u := &model.Usage{
		InputTokens:  p.Usage.InputTokens,
		OutputTokens: p.Usage.OutputTokens,
		TotalTokens:  p.Usage.TotalTokens,
	}
	if p.Usage.OutputTokensDetails != nil {
		u.ReasoningTokens = p.Usage.OutputTokensDetails.ReasoningTokens
	}
	return u
}

func decodeContentParts(raw json.RawMessage) []model.ContentPart {
	if len(raw) == 0 {
		return nil
	}

	var array []textPart
	if err := json.Unmarshal(raw, &array); err == nil {
		parts := make([]model.ContentPart, 0, len(array))
		for _, item := range array {
			parts = append(parts, model.ContentPart{Type: item.Type, Text: item.Text})
		}
		return parts
	}

	// Fallback to string representation.
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return []model.ContentPart{{Type: "output_text", Text: &asString}}
	}

	return nil
}
