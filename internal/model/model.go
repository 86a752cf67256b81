// Package model provides the normalized response types shared by every request path.
//
// The Responses API returns an ordered list of output items while the chat model
// returns a message whose content is a list of blocks. Both are reduced to a Reply
// so a single formatter can render them.
package model

// Kind is the tag carried by a block of model output.
type Kind string

const (
	// KindReasoning marks a reasoning block carrying summary fragments.
	KindReasoning Kind = "reasoning"
	// KindText marks a plain answer block.
	KindText Kind = "text"
	// KindMessage marks an assistant message with nested content parts.
	KindMessage Kind = "message"
)

// SummaryPart is one fragment of a reasoning summary.
type SummaryPart struct {
	Type string
	Text *string
}

// ContentPart is one part of a message block.
type ContentPart struct {
	Type string
	Text *string
}

// Block is a kind-tagged element of a reply. Only the fields relevant to
// Kind are populated; blocks of unknown kinds are kept as-is.
type Block struct {
	Kind    Kind
	Summary []SummaryPart
	Parts   []ContentPart
	Text    string
}

// Usage holds token accounting. A nil field means the backend did not report it.
type Usage struct {
	InputTokens     *int
	OutputTokens    *int
	TotalTokens     *int
	ReasoningTokens *int
}

// ToolRun records one tool invocation observed during an agent conversation.
type ToolRun struct {
	Name   string
	Output string
}

// Form is the response shape a reply was normalized from. The shapes differ in
// how reasoning summaries are laid out.
type Form string

const (
	// FormItems is a Responses API payload. It is the zero value.
	FormItems Form = ""
	// FormBlocks is a chat-model message with content blocks.
	FormBlocks Form = "blocks"
)

// Reply is a single model response ready for display.
type Reply struct {
	Form     Form
	Blocks   []Block
	Plain    string
	Usage    *Usage
	ToolRuns []ToolRun
}

// Empty reports whether the reply carries neither blocks nor plain text.
func (r Reply) Empty() bool {
	return len(r.Blocks) == 0 && r.Plain == ""
}

// String returns a pointer to s. Used when building optional text fields.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }
