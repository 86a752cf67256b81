// Package items decodes Responses API payloads, where the output is an ordered
// list of kind-tagged items.
package items

import "encoding/json"

// ItemType captures the "output[].type" values of a Responses API payload.
type ItemType string

const (
	ItemTypeReasoning    ItemType = "reasoning"
	ItemTypeMessage      ItemType = "message"
	ItemTypeFunctionCall ItemType = "function_call"
)

// FunctionCall is a tool invocation requested by the model.
type FunctionCall struct {
	CallID    string
	Name      string
	Arguments string
}

// Payload is the subset of a Responses API object this package reads.
type Payload struct {
	ID     string       `json:"id"`
	Model  string       `json:"model"`
	Status string       `json:"status"`
	Output []outputItem `json:"output"`
	Usage  *usage       `json:"usage"`
}

type outputItem struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Role      string          `json:"role"`
	Summary   []textPart      `json:"summary"`
	Content   json.RawMessage `json:"content"`
	CallID    string          `json:"call_id"`
	Name      string          `json:"name"`
	Arguments string          `json:"arguments"`
}

type textPart struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type usage struct {
	InputTokens         *int          `json:"input_tokens"`
	OutputTokens        *int          `json:"output_tokens"`
	TotalTokens         *int          `json:"total_tokens"`
	OutputTokensDetails *tokenDetails `json:"output_tokens_details"`
}

type tokenDetails struct {
	ReasoningTokens *int `json:"reasoning_tokens"`
}
