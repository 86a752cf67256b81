package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"foundrydemo/internal/chat"
	"foundrydemo/internal/model"
)

// DefaultMaxSteps bounds the number of model calls per Invoke.
const DefaultMaxSteps = 8

// ErrMaxSteps is returned when the model keeps calling tools past MaxSteps.
var ErrMaxSteps = errors.New("agent exceeded maximum steps")

// Agent alternates model calls and tool executions until the model answers.
type Agent struct {
	Model        *chat.Model
	Tools        *Registry
	SystemPrompt string
	MaxSteps     int
	Logger       *slog.Logger
}

// Result is the full conversation of one Invoke. The final answer is last.
type Result struct {
	Messages []chat.Message
}

// Final returns the last message, or false when the conversation is empty.
func (r Result) Final() (chat.Message, bool) {
	if len(r.Messages) == 0 {
		return chat.Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

// ToolMessages returns the tool results in conversation order.
func (r Result) ToolMessages() []chat.Message {
	var out []chat.Message
	for _, msg := range r.Messages {
		if msg.Type == chat.MessageTypeTool {
			out = append(out, msg)
		}
	}
	return out
}

// Reply normalizes the final message for display and attaches the tool runs.
func (r Result) Reply() model.Reply {
	final, ok := r.Final()
	if !ok {
		return model.Reply{}
	}
	reply := chat.ToReply(final)
	for _, msg := range r.ToolMessages() {
		reply.ToolRuns = append(reply.ToolRuns, model.ToolRun{Name: msg.Name, Output: msg.Text()})
	}
	return reply
}

// Invoke runs the loop starting from the given messages.
func (a *Agent) Invoke(ctx context.Context, messages []chat.Message) (Result, error) {
	if a.Model == nil {
		return Result{}, errors.New("agent has no model")
	}

	m := a.Model
	tools := a.Tools
	if tools == nil {
		tools = &Registry{}
	}
	if defs := tools.Definitions(); len(defs) > 0 {
		m = m.WithTools(defs)
	}

	maxSteps := a.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	conversation := make([]chat.Message, 0, len(messages)+1)
	if a.SystemPrompt != "" {
		conversation = append(conversation, chat.SystemMessage(a.SystemPrompt))
	}
	conversation = append(conversation, messages...)

	for step := 1; step <= maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return Result{Messages: conversation}, err
		}

		msg, err := m.Invoke(ctx, conversation)
		if err != nil {
			return Result{Messages: conversation}, fmt.Errorf("step %d: %w", step, err)
		}
		conversation = append(conversation, msg)

		if len(msg.ToolCalls) == 0 {
			return Result{Messages: conversation}, nil
		}

		for _, call := range msg.ToolCalls {
			output := tools.Execute(ctx, call.Name, call.Args, call.RawArgs)
			logger.Debug("tool executed", "step", step, "tool", call.Name, "call_id", call.ID)
			conversation = append(conversation, chat.ToolMessage(call.Name, call.ID, output))
		}
	}

	return Result{Messages: conversation}, ErrMaxSteps
}
