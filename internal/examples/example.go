// Package examples holds the example prompts and runs them against a deployment.
package examples

import (
	"errors"
	"fmt"
	"os"

	"foundrydemo/internal/agent"
	"foundrydemo/internal/foundry"

	"gopkg.in/yaml.v3"
)

// Mode selects the request path an example is issued through.
type Mode string

const (
	// ModeResponses calls the Responses API directly and renders output items.
	ModeResponses Mode = "responses"
	// ModeChat goes through the chat model and renders content blocks.
	ModeChat Mode = "chat"
	// ModeAgent runs the tool-using agent loop.
	ModeAgent Mode = "agent"
)

// Modes lists every mode in run order.
var Modes = []Mode{ModeResponses, ModeChat, ModeAgent}

// Description returns the one-line help for the mode's subcommand.
func (m Mode) Description() string {
	switch m {
	case ModeResponses:
		return "Call the Responses API directly and print output items"
	case ModeChat:
		return "Go through the chat model and print content blocks"
	case ModeAgent:
		return "Run the tool-using agent examples"
	default:
		return ""
	}
}

// Example is one fixed prompt.
//
// System is sent as a developer message in responses mode, a system message in
// chat mode, and the agent system prompt in agent mode. Dump prints the raw
// response (responses mode) or the usage and response metadata (chat mode).
type Example struct {
	Name      string            `yaml:"name"`
	Label     string            `yaml:"label"`
	Mode      Mode              `yaml:"mode"`
	System    string            `yaml:"system,omitempty"`
	Prompt    string            `yaml:"prompt"`
	Reasoning foundry.Reasoning `yaml:"reasoning"`
	Tools     []string          `yaml:"tools,omitempty"`
	Dump      bool              `yaml:"dump,omitempty"`
}

// Catalog is the document layout of an examples file.
type Catalog struct {
	Examples []Example `yaml:"examples"`
}

// Validate checks that the example can be run.
func (e Example) Validate() error {
	if e.Name == "" {
		return errors.New("example name cannot be empty")
	}
	if e.Prompt == "" {
		return fmt.Errorf("example %s: prompt cannot be empty", e.Name)
	}
	switch e.Mode {
	case ModeResponses, ModeChat:
		if len(e.Tools) > 0 {
			return fmt.Errorf("example %s: tools are only supported in agent mode", e.Name)
		}
	case ModeAgent:
		if e.Dump {
			return fmt.Errorf("example %s: dump is not supported in agent mode", e.Name)
		}
		builtin := agent.Builtin()
		for _, name := range e.Tools {
			if _, ok := builtin[name]; !ok {
				return fmt.Errorf("example %s: unknown tool %q", e.Name, name)
			}
		}
	default:
		return fmt.Errorf("example %s: unknown mode %q", e.Name, e.Mode)
	}
	if err := e.Reasoning.Validate(); err != nil {
		return fmt.Errorf("example %s: %w", e.Name, err)
	}
	return nil
}

// LoadFile reads a YAML catalog and validates every entry.
func LoadFile(path string) ([]Example, error) {
	if path == "" {
		return nil, errors.New("examples path cannot be empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read examples: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("unmarshal examples: %w", err)
	}
	if len(catalog.Examples) == 0 {
		return nil, fmt.Errorf("examples file %s has no examples", path)
	}

	seen := make(map[string]struct{}, len(catalog.Examples))
	for i := range catalog.Examples {
		ex := &catalog.Examples[i]
		if ex.Label == "" {
			ex.Label = ex.Name
		}
		if err := ex.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[ex.Name]; dup {
			return nil, fmt.Errorf("duplicate example name %q", ex.Name)
		}
		seen[ex.Name] = struct{}{}
	}
	return catalog.Examples, nil
}

// Filter returns the examples of the given mode, in order.
func Filter(all []Example, mode Mode) []Example {
	var out []Example
	for _, ex := range all {
		if ex.Mode == mode {
			out = append(out, ex)
		}
	}
	return out
}

// Select returns the named examples in catalog order. An unknown name is an
// error.
func Select(all []Example, names []string) ([]Example, error) {
	if len(names) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = false
	}

	var out []Example
	for _, ex := range all {
		if _, ok := want[ex.Name]; ok {
			want[ex.Name] = true
			out = append(out, ex)
		}
	}
	for _, name := range names {
		if !want[name] {
			return nil, fmt.Errorf("unknown example %q", name)
		}
	}
	return out, nil
}

// Title is the run header for the given mode. An empty mode means all modes.
func Title(deployment string, mode Mode) string {
	base := fmt.Sprintf("Azure AI Foundry - %s Reasoning Examples", deployment)
	switch mode {
	case ModeChat:
		return base + " (Chat Model)"
	case ModeAgent:
		return base + " (Agent)"
	default:
		return base
	}
}
