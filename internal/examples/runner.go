package examples

import (
	"context"
	"fmt"
	"log/slog"

	"foundrydemo/internal/agent"
	"foundrydemo/internal/chat"
	"foundrydemo/internal/foundry"
	"foundrydemo/internal/items"
	"foundrydemo/internal/view"
)

const agentUsageTitle = "Token Usage (final message)"

// Runner issues examples one at a time and prints each result.
type Runner struct {
	Responder  foundry.Responder
	Deployment string
	Printer    *view.Printer
	Logger     *slog.Logger
}

// Run prints the title, runs the examples in order and prints the trailer.
// The first failing example stops the run.
func (r *Runner) Run(ctx context.Context, title string, examples []Example) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := r.Printer.Header(title); err != nil {
		return err
	}
	for _, ex := range examples {
		logger.Debug("running example", "name", ex.Name, "mode", ex.Mode)
		if err := r.runOne(ctx, ex); err != nil {
			return fmt.Errorf("%s: %w", ex.Name, err)
		}
	}
	return r.Printer.Done()
}

func (r *Runner) runOne(ctx context.Context, ex Example) error {
	switch ex.Mode {
	case ModeResponses:
		return r.runResponses(ctx, ex)
	case ModeChat:
		return r.runChat(ctx, ex)
	case ModeAgent:
		return r.runAgent(ctx, ex)
	default:
		return fmt.Errorf("unknown mode %q", ex.Mode)
	}
}

func (r *Runner) runResponses(ctx context.Context, ex Example) error {
	req := foundry.Request{Model: r.Deployment, Reasoning: ex.Reasoning}
	if ex.System == "" {
		req.Prompt = ex.Prompt
	} else {
		req.Messages = []foundry.InputMessage{
			{Role: foundry.RoleDeveloper, Content: ex.System},
			{Role: foundry.RoleUser, Content: ex.Prompt},
		}
	}

	result, err := r.Responder.Create(ctx, req)
	if err != nil {
		return err
	}
	if ex.Dump {
		return r.Printer.Raw(ex.Label, result.Raw)
	}

	payload, err := items.Decode(result.Raw)
	if err != nil {
		return err
	}
	return r.Printer.Turn(view.Turn{Label: ex.Label, Prompt: ex.Prompt, Reply: payload.Reply()})
}

func (r *Runner) runChat(ctx context.Context, ex Example) error {
	m := &chat.Model{Responder: r.Responder, Deployment: r.Deployment, Reasoning: ex.Reasoning}

	var messages []chat.Message
	if ex.System != "" {
		messages = append(messages, chat.SystemMessage(ex.System))
	}
	messages = append(messages, chat.HumanMessage(ex.Prompt))

	msg, err := m.Invoke(ctx, messages)
	if err != nil {
		return err
	}
	if err := r.Printer.Turn(view.Turn{Label: ex.Label, Prompt: ex.Prompt, Reply: chat.ToReply(msg)}); err != nil {
		return err
	}
	if !ex.Dump {
		return nil
	}
	if err := r.Printer.JSON("Full usage_metadata", msg.UsageMetadata); err != nil {
		return err
	}
	return r.Printer.JSON("Full response_metadata", msg.ResponseMetadata)
}

func (r *Runner) runAgent(ctx context.Context, ex Example) error {
	builtin := agent.Builtin()
	registry, err := agent.NewRegistry()
	if err != nil {
		return err
	}
	for _, name := range ex.Tools {
		tool, ok := builtin[name]
		if !ok {
			return fmt.Errorf("unknown tool %q", name)
		}
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	a := &agent.Agent{
		Model:        &chat.Model{Responder: r.Responder, Deployment: r.Deployment, Reasoning: ex.Reasoning},
		Tools:        registry,
		SystemPrompt: ex.System,
		Logger:       r.Logger,
	}
	result, err := a.Invoke(ctx, []chat.Message{chat.HumanMessage(ex.Prompt)})
	if err != nil {
		return err
	}
	return r.Printer.Turn(view.Turn{
		Label:      ex.Label,
		Prompt:     ex.Prompt,
		UsageTitle: agentUsageTitle,
		Reply:      result.Reply(),
	})
}
