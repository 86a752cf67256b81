package examples

import "foundrydemo/internal/foundry"

const (
	trainsPrompt = "A train leaves Station A at 9:00 AM traveling at 80 km/h. " +
		"Another train leaves Station B (320 km away) at 10:00 AM " +
		"traveling toward Station A at 120 km/h. " +
		"At what time do they meet, and how far from Station A?"
	bracketsPrompt = "Write a Python function that determines if a given string " +
		"of parentheses, brackets, and braces is balanced. " +
		"Explain your approach first, then provide the code."
	strawberryPrompt = "How many r's are in the word 'strawberry'?"
	petsPrompt       = "Alice, Bob, and Carol each own exactly one pet: a cat, a dog, or a fish. " +
		"Alice does not own the dog. Bob owns neither the dog nor the fish. " +
		"Who owns which pet?"

	tutorSystem    = "You are a helpful math tutor. Show your work step by step."
	engineerSystem = "You are a senior software engineer. Think carefully before answering."
)

var (
	detailed = foundry.Reasoning{Effort: "medium", Summary: "detailed"}
	auto     = foundry.Reasoning{Effort: "medium", Summary: "auto"}
)

// Builtin returns the built-in catalog: three examples per mode.
func Builtin() []Example {
	return []Example{
		{
			Name:      "math",
			Label:     "Example 1 - Math Problem (reasoning + summary)",
			Mode:      ModeResponses,
			System:    tutorSystem,
			Prompt:    trainsPrompt,
			Reasoning: detailed,
		},
		{
			Name:      "brackets",
			Label:     "Example 2 - Balanced Brackets (reasoning + summary)",
			Mode:      ModeResponses,
			System:    engineerSystem,
			Prompt:    bracketsPrompt,
			Reasoning: detailed,
		},
		{
			Name:      "raw-response",
			Label:     "Example 3 - Raw JSON Response",
			Mode:      ModeResponses,
			Prompt:    strawberryPrompt,
			Reasoning: auto,
			Dump:      true,
		},
		{
			Name:      "chat-math",
			Label:     "Example 1 - Math Problem (reasoning + summary)",
			Mode:      ModeChat,
			System:    tutorSystem,
			Prompt:    trainsPrompt,
			Reasoning: auto,
		},
		{
			Name:      "chat-brackets",
			Label:     "Example 2 - Balanced Brackets (reasoning + summary)",
			Mode:      ModeChat,
			System:    engineerSystem,
			Prompt:    bracketsPrompt,
			Reasoning: auto,
		},
		{
			Name:      "strawberry",
			Label:     "Example 3 - Strawberry Question (reasoning metadata)",
			Mode:      ModeChat,
			Prompt:    strawberryPrompt,
			Reasoning: auto,
			Dump:      true,
		},
		{
			Name:      "agent-math",
			Label:     "Example 1 - Math + Tool Use (Agent)",
			Mode:      ModeAgent,
			System:    "You are a helpful math tutor. When you need to compute a numerical result, use the 'calculate' tool. Show your reasoning.",
			Prompt:    trainsPrompt + " Use the calculate tool to verify your math.",
			Tools:     []string{"calculate"},
			Reasoning: auto,
		},
		{
			Name:      "character-count",
			Label:     "Example 2 - Character Counting (Agent)",
			Mode:      ModeAgent,
			System:    "You are a precise assistant. Use the 'count_characters' tool when asked to count letters.",
			Prompt:    "How many times does the letter 'r' appear in 'strawberry'? Use the count_characters tool to check.",
			Tools:     []string{"count_characters"},
			Reasoning: auto,
		},
		{
			Name:      "logic-puzzle",
			Label:     "Example 3 - Pure Reasoning (Agent)",
			Mode:      ModeAgent,
			System:    "You are a careful logician. Reason step by step and only use tools if they are needed.",
			Prompt:    petsPrompt,
			Tools:     []string{"calculate", "count_characters"},
			Reasoning: auto,
		},
	}
}
