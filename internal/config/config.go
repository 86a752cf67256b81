// Package config resolves the Azure AI Foundry connection settings.
//
// Settings are read from the process environment after an optional .env file has
// been loaded. Values already present in the environment take precedence over
// values from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvEndpoint     = "AZURE_OPENAI_ENDPOINT"
	EnvAPIKey       = "AZURE_OPENAI_API_KEY"
	EnvDeployment   = "AZURE_OPENAI_DEPLOYMENT"
	EnvExamplesFile = "FOUNDRY_EXAMPLES_FILE"
)

// DefaultDeployment is used when AZURE_OPENAI_DEPLOYMENT is unset.
const DefaultDeployment = "gpt-5.2-chat"

const (
	projectMarker = "/api/projects/"
	apiSuffix     = "/openai/v1/"
)

// ErrMissingCredentials is returned when the endpoint or API key is absent.
var ErrMissingCredentials = errors.New("missing endpoint or API key")

// MissingCredentialsHint is the corrective instruction shown to the user.
const MissingCredentialsHint = "Set AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY in your .env file."

// Settings holds the resolved connection parameters.
type Settings struct {
	Endpoint     string
	BaseURL      string
	APIKey       string
	Deployment   string
	ExamplesFile string
}

// String renders the settings with the API key masked.
func (s Settings) String() string {
	return fmt.Sprintf("endpoint=%s base_url=%s deployment=%s api_key=%s",
		s.Endpoint, s.BaseURL, s.Deployment, MaskKey(s.APIKey))
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing default .env file is not
// an error; a missing explicit path is.
func LoadEnvFile(path string, explicit bool) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// FromEnv resolves settings from the process environment.
func FromEnv() (Settings, error) {
	return Resolve(os.Getenv)
}

// Resolve builds Settings from lookup. Endpoint and key are required; the
// deployment falls back to DefaultDeployment.
func Resolve(lookup func(string) string) (Settings, error) {
	endpoint := strings.TrimSpace(lookup(EnvEndpoint))
	key := strings.TrimSpace(lookup(EnvAPIKey))
	if endpoint == "" || key == "" {
		return Settings{}, ErrMissingCredentials
	}

	deployment := strings.TrimSpace(lookup(EnvDeployment))
	if deployment == "" {
		deployment = DefaultDeployment
	}

	return Settings{
		Endpoint:     endpoint,
		BaseURL:      NormalizeEndpoint(endpoint),
		APIKey:       key,
		Deployment:   deployment,
		ExamplesFile: strings.TrimSpace(lookup(EnvExamplesFile)),
	}, nil
}

// NormalizeEndpoint maps a project-scoped endpoint to the resource-level v1 base
// URL: the project path is dropped, trailing slashes are trimmed and /openai/v1/
// is appended.
func NormalizeEndpoint(endpoint string) string {
	if idx := strings.Index(endpoint, projectMarker); idx >= 0 {
		endpoint = endpoint[:idx]
	}
	return strings.TrimRight(endpoint, "/") + apiSuffix
}

// MaskKey hides all but the last four characters of key.
func MaskKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
