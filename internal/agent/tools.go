package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// Calculate evaluates an arithmetic expression.
var Calculate = Tool{
	Name:        "calculate",
	Description: "Evaluate a mathematical expression and return the result.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "A math expression to evaluate (e.g. '2 + 3 * 4').",
			},
		},
		"required": []string{"expression"},
	},
	Run: func(_ context.Context, args map[string]any) (string, error) {
		expression, err := stringArg(args, "expression")
		if err != nil {
			return "", err
		}
		return calculate(expression), nil
	},
}

// CountCharacters counts occurrences of a character in a text.
var CountCharacters = Tool{
	Name:        "count_characters",
	Description: "Count how many times a specific character appears in a text.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The text to search in.",
			},
			"character": map[string]any{
				"type":        "string",
				"description": "The single character to count.",
			},
		},
		"required": []string{"text", "character"},
	},
	Run: func(_ context.Context, args map[string]any) (string, error) {
		text, err := stringArg(args, "text")
		if err != nil {
			return "", err
		}
		character, err := stringArg(args, "character")
		if err != nil {
			return "", err
		}
		if character == "" {
			return "", fmt.Errorf("character must not be empty")
		}
		return countCharacters(text, character), nil
	},
}

// Builtin returns the tools available to catalog examples, keyed by name.
func Builtin() map[string]Tool {
	return map[string]Tool{
		Calculate.Name:       Calculate,
		CountCharacters.Name: CountCharacters,
	}
}

func calculate(expression string) string {
	result, err := expr.Eval(expression, nil)
	if err != nil {
		return fmt.Sprintf("Error evaluating '%s': %v", expression, err)
	}
	return fmt.Sprintf("Result: %v", result)
}

func countCharacters(text, character string) string {
	count := strings.Count(strings.ToLower(text), strings.ToLower(character))
	return fmt.Sprintf("The character '%s' appears %d time(s) in '%s'.", character, count, text)
}

func stringArg(args map[string]any, key string) (string, error) {
	value, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	return s, nil
}
