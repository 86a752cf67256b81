package foundry

import "fmt"

// Reasoning is the reasoning configuration sent with a request.
type Reasoning struct {
	Effort  string `yaml:"effort"`
	Summary string `yaml:"summary"`
}

var (
	validEfforts   = []string{"minimal", "low", "medium", "high"}
	validSummaries = []string{"auto", "concise", "detailed"}
)

// IsZero reports whether no reasoning option is set.
func (r Reasoning) IsZero() bool {
	return r.Effort == "" && r.Summary == ""
}

// Validate rejects effort or summary values the API does not recognize. Empty
// values are allowed and leave the server default in place.
func (r Reasoning) Validate() error {
	if r.Effort != "" && !contains(validEfforts, r.Effort) {
		return fmt.Errorf("unknown reasoning effort %q", r.Effort)
	}
	if r.Summary != "" && !contains(validSummaries, r.Summary) {
		return fmt.Errorf("unknown reasoning summary %q", r.Summary)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
