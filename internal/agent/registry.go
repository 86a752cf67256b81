// Package agent runs a tool-using conversation loop over the chat model.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"foundrydemo/internal/foundry"
)

// Tool is a function the model may call. Run receives the decoded arguments
// and returns the text handed back to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Run         func(ctx context.Context, args map[string]any) (string, error)
}

// Registry keeps the mapping between tool names and implementations.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry holding the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool)}
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register inserts a tool when its name is not in use.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if tool.Run == nil {
		return fmt.Errorf("tool %s has no implementation", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tools == nil {
		r.tools = make(map[string]Tool)
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

// Get fetches a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// Definitions returns the tool declarations sent to the model, sorted by name.
func (r *Registry) Definitions() []foundry.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]foundry.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		defs = append(defs, foundry.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Execute runs the named tool. Failures are reported in the returned text so
// the model can see them; Execute itself never fails.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any, rawArgs string) string {
	tool, ok := r.Get(name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q", name)
	}
	if args == nil && rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	out, err := tool.Run(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}
