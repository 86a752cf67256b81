package chat

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foundrydemo/internal/format"
	"foundrydemo/internal/foundry"
	"foundrydemo/internal/model"
)

type fakeResponder struct {
	raw      []byte
	err      error
	requests []foundry.Request
}

func (f *fakeResponder) Create(_ context.Context, req foundry.Request) (*foundry.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &foundry.Result{Raw: f.raw}, nil
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return raw
}

func TestInvokeReturnsBlocks(t *testing.T) {
	responder := &fakeResponder{raw: readFixture(t, "reasoning.json")}
	m := &Model{
		Responder:  responder,
		Deployment: "gpt-5.2-chat",
		Reasoning:  foundry.Reasoning{Effort: "medium", Summary: "auto"},
	}

	msg, err := m.Invoke(context.Background(), []Message{
		SystemMessage("You are a helpful assistant."),
		HumanMessage("When do the trains meet?"),
	})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}

	if msg.Type != MessageTypeAI {
		t.Fatalf("expected ai message, got %q", msg.Type)
	}
	blocks := msg.Content.Blocks
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %#v", blocks)
	}
	if blocks[0].Type != ContentBlockTypeReasoning || len(blocks[0].Summary) != 2 {
		t.Fatalf("unexpected reasoning block: %#v", blocks[0])
	}
	if blocks[1].Type != ContentBlockTypeText || blocks[1].Text != "They meet at 11:00 AM, 160 km from Station A." {
		t.Fatalf("unexpected text block: %#v", blocks[1])
	}
	if msg.UsageMetadata == nil || *msg.UsageMetadata.TotalTokens != 374 {
		t.Fatalf("unexpected usage metadata: %#v", msg.UsageMetadata)
	}
	if msg.UsageMetadata.OutputTokenDetails == nil || *msg.UsageMetadata.OutputTokenDetails.Reasoning != 192 {
		t.Fatalf("expected reasoning tokens 192, got %#v", msg.UsageMetadata.OutputTokenDetails)
	}
	if msg.ResponseMetadata == nil || msg.ResponseMetadata.ID != "resp_123" {
		t.Fatalf("unexpected response metadata: %#v", msg.ResponseMetadata)
	}

	if len(responder.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(responder.requests))
	}
	req := responder.requests[0]
	if req.Model != "gpt-5.2-chat" || req.Reasoning.Effort != "medium" {
		t.Fatalf("unexpected request: %#v", req)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != foundry.RoleSystem || req.Messages[1].Role != foundry.RoleUser {
		t.Fatalf("unexpected request messages: %#v", req.Messages)
	}
}

func TestInvokeParsesToolCalls(t *testing.T) {
	responder := &fakeResponder{raw: readFixture(t, "function_call.json")}
	m := &Model{Responder: responder, Deployment: "gpt-5.2-chat"}
	m = m.WithTools([]foundry.Tool{{Name: "calculate"}})

	msg, err := m.Invoke(context.Background(), []Message{HumanMessage("What is 80 + 120?")})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}

	if len(msg.ToolCalls) != 1 {
		t.Fatalf("expected one tool call, got %#v", msg.ToolCalls)
	}
	call := msg.ToolCalls[0]
	if call.ID != "call_abc" || call.Name != "calculate" || call.Args["expression"] != "80 + 120" {
		t.Fatalf("unexpected tool call: %#v", call)
	}
	if !msg.Content.IsBlocks() {
		t.Fatalf("expected block content even without text")
	}
	if len(responder.requests[0].Tools) != 1 {
		t.Fatalf("expected tools on request, got %#v", responder.requests[0].Tools)
	}
}

func TestInvokeChainsToolResults(t *testing.T) {
	responder := &fakeResponder{raw: readFixture(t, "reasoning.json")}
	m := &Model{Responder: responder, Deployment: "gpt-5.2-chat"}

	history := []Message{
		HumanMessage("What is 80 + 120?"),
		{
			Type:             MessageTypeAI,
			Content:          Content{Blocks: []ContentBlock{}},
			ToolCalls:        []ToolCall{{ID: "call_abc", Name: "calculate"}},
			ResponseMetadata: &ResponseMetadata{ID: "resp_456"},
		},
		ToolMessage("calculate", "call_abc", "Result: 200"),
	}
	if _, err := m.Invoke(context.Background(), history); err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}

	req := responder.requests[0]
	if req.PreviousResponseID != "resp_456" {
		t.Fatalf("expected previous response id resp_456, got %q", req.PreviousResponseID)
	}
	if len(req.Messages) != 0 {
		t.Fatalf("expected no replayed messages, got %#v", req.Messages)
	}
	if len(req.ToolOutputs) != 1 || req.ToolOutputs[0].CallID != "call_abc" || req.ToolOutputs[0].Output != "Result: 200" {
		t.Fatalf("unexpected tool outputs: %#v", req.ToolOutputs)
	}
}

func TestInvokeRejectsDanglingToolMessage(t *testing.T) {
	responder := &fakeResponder{}
	m := &Model{Responder: responder}

	_, err := m.Invoke(context.Background(), []Message{
		HumanMessage("hi"),
		ToolMessage("calculate", "call_abc", "Result: 2"),
	})
	if !errors.Is(err, ErrDanglingToolMessage) {
		t.Fatalf("expected ErrDanglingToolMessage, got %v", err)
	}
	if len(responder.requests) != 0 {
		t.Fatalf("expected no request to be sent")
	}
}

func TestInvokePropagatesResponderError(t *testing.T) {
	boom := errors.New("boom")
	m := &Model{Responder: &fakeResponder{err: boom}}

	if _, err := m.Invoke(context.Background(), []Message{HumanMessage("hi")}); !errors.Is(err, boom) {
		t.Fatalf("expected responder error, got %v", err)
	}
}

func TestContentJSON(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"type":"ai","content":"Hello"}`), &msg); err != nil {
		t.Fatalf("unmarshal string content: %v", err)
	}
	if msg.Content.IsBlocks() || msg.Text() != "Hello" {
		t.Fatalf("unexpected string content: %#v", msg.Content)
	}

	if err := json.Unmarshal([]byte(`{"type":"ai","content":[{"type":"reasoning","summary":[]},{"type":"text","text":"Hi"}]}`), &msg); err != nil {
		t.Fatalf("unmarshal block content: %v", err)
	}
	if !msg.Content.IsBlocks() || len(msg.Content.Blocks) != 2 || msg.Text() != "Hi" {
		t.Fatalf("unexpected block content: %#v", msg.Content)
	}

	encoded, err := json.Marshal(msg.Content)
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	if string(encoded) != `[{"type":"reasoning"},{"type":"text","text":"Hi"}]` {
		t.Fatalf("unexpected encoding: %s", encoded)
	}

	if err := json.Unmarshal([]byte(`{"type":"ai","content":42}`), &msg); err == nil {
		t.Fatalf("expected error for numeric content")
	}
}

func TestToReply(t *testing.T) {
	plain := ToReply(Message{Type: MessageTypeAI, Content: Content{Text: "Hello"}})
	if plain.Plain != "Hello" || len(plain.Blocks) != 0 || plain.Usage != nil {
		t.Fatalf("unexpected plain reply: %#v", plain)
	}

	msg := Message{
		Type: MessageTypeAI,
		Content: Content{Blocks: []ContentBlock{
			{Type: ContentBlockTypeReasoning, Summary: []SummaryText{{Type: "summary_text", Text: "Think."}}},
			{Type: ContentBlockTypeText, Text: "Answer."},
		}},
		UsageMetadata: &UsageMetadata{
			InputTokens:        model.Int(10),
			OutputTokens:       model.Int(20),
			TotalTokens:        model.Int(30),
			OutputTokenDetails: &OutputTokenDetails{Reasoning: model.Int(5)},
		},
	}
	reply := ToReply(msg)
	if len(reply.Blocks) != 2 || reply.Blocks[0].Kind != model.KindReasoning || reply.Blocks[1].Kind != model.KindText {
		t.Fatalf("unexpected blocks: %#v", reply.Blocks)
	}
	if *reply.Blocks[0].Summary[0].Text != "Think." || reply.Blocks[1].Text != "Answer." {
		t.Fatalf("unexpected block content: %#v", reply.Blocks)
	}
	if reply.Usage == nil || *reply.Usage.ReasoningTokens != 5 || *reply.Usage.TotalTokens != 30 {
		t.Fatalf("unexpected usage: %#v", reply.Usage)
	}
}

func TestInvokeRendersReasoningPerFragment(t *testing.T) {
	emptySummary := []byte(`{"id":"resp_9","output":[` +
		`{"type":"reasoning","summary":[]},` +
		`{"type":"message","role":"assistant","content":[{"type":"output_text","text":"Three."}]}]}`)
	cases := []struct {
		name     string
		raw      []byte
		headings int
	}{
		{name: "two fragments", raw: readFixture(t, "reasoning.json"), headings: 2},
		{name: "empty summary", raw: emptySummary, headings: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &Model{Responder: &fakeResponder{raw: tc.raw}, Deployment: "gpt-5.2-chat"}
			msg, err := m.Invoke(context.Background(), []Message{HumanMessage("Go.")})
			if err != nil {
				t.Fatalf("Invoke returned error: %v", err)
			}
			reply := ToReply(msg)
			if reply.Form != model.FormBlocks {
				t.Fatalf("expected blocks form, got %q", reply.Form)
			}
			got := format.RenderReply("label", reply, format.Options{})
			if n := strings.Count(got, "--- Reasoning Summary ---"); n != tc.headings {
				t.Fatalf("expected %d reasoning headings, got %d:\n%s", tc.headings, n, got)
			}
			if strings.Contains(got, "no summary returned") {
				t.Fatalf("blocks form should not print a placeholder:\n%s", got)
			}
			if !strings.Contains(got, "--- Answer ---") {
				t.Fatalf("answer section missing:\n%s", got)
			}
		})
	}
}
