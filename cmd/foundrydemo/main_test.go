package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foundrydemo/internal/config"
	"foundrydemo/internal/examples"
	"foundrydemo/internal/foundry"
)

type countingResponder struct {
	raw      []byte
	requests []foundry.Request
}

func (c *countingResponder) Create(_ context.Context, req foundry.Request) (*foundry.Result, error) {
	c.requests = append(c.requests, req)
	return &foundry.Result{Raw: c.raw}, nil
}

type factoryCounter struct {
	calls     int
	responder *countingResponder
	settings  config.Settings
}

func (f *factoryCounter) factory(settings config.Settings, _ *slog.Logger) foundry.Responder {
	f.calls++
	f.settings = settings
	return f.responder
}

func newFactory(t *testing.T) *factoryCounter {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "reasoning.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return &factoryCounter{responder: &countingResponder{raw: raw}}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvEndpoint, config.EnvAPIKey, config.EnvDeployment, config.EnvExamplesFile, "NO_COLOR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func setCredentials(t *testing.T) {
	t.Helper()
	clearEnv(t)
	t.Setenv(config.EnvEndpoint, "https://demo.services.ai.azure.com/api/projects/demo")
	t.Setenv(config.EnvAPIKey, "sk-test-1234")
}

func TestMissingCredentialsExitsBeforeRequest(t *testing.T) {
	clearEnv(t)
	f := newFactory(t)

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"responses"}, &stdout, &stderr, f.factory)

	if code == 0 {
		t.Fatalf("expected non-zero exit code")
	}
	if f.calls != 0 || len(f.responder.requests) != 0 {
		t.Fatalf("no client should be built without credentials (factory calls %d)", f.calls)
	}
	if got := stderr.String(); got != "foundrydemo: "+config.MissingCredentialsHint+"\n" {
		t.Fatalf("unexpected stderr: %q", got)
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
}

func TestResponsesCommand(t *testing.T) {
	setCredentials(t)
	f := newFactory(t)

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"responses", "--no-color"}, &stdout, &stderr, f.factory)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	if f.settings.BaseURL != "https://demo.services.ai.azure.com/openai/v1/" {
		t.Fatalf("unexpected base URL %q", f.settings.BaseURL)
	}
	if f.settings.Deployment != config.DefaultDeployment {
		t.Fatalf("unexpected deployment %q", f.settings.Deployment)
	}
	if len(f.responder.requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(f.responder.requests))
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "Azure AI Foundry - gpt-5.2-chat Reasoning Examples\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "  Reasoning tokens: 192\n") || !strings.HasSuffix(out, "\nDone.\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestModeSubcommands(t *testing.T) {
	root := newRootCmd(&app{})
	for _, mode := range examples.Modes {
		cmd, _, err := root.Find([]string{string(mode)})
		if err != nil || cmd.Name() != string(mode) {
			t.Fatalf("no subcommand for mode %s (err %v)", mode, err)
		}
		if cmd.Short == "" || cmd.Short != mode.Description() {
			t.Fatalf("unexpected help for %s: %q", mode, cmd.Short)
		}
	}
}

func TestDefaultRunsEveryExample(t *testing.T) {
	setCredentials(t)
	f := newFactory(t)

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"--deployment", "o4-mini"}, &stdout, &stderr, f.factory)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if len(f.responder.requests) != 9 {
		t.Fatalf("expected 9 requests, got %d", len(f.responder.requests))
	}
	for _, req := range f.responder.requests {
		if req.Model != "o4-mini" {
			t.Fatalf("deployment flag not applied: %q", req.Model)
		}
	}
	if !strings.Contains(stdout.String(), "--- Token Usage (final message) ---") {
		t.Fatalf("agent examples missing from output:\n%s", stdout.String())
	}
}

func TestOnlyFlagSelectsExamples(t *testing.T) {
	setCredentials(t)
	f := newFactory(t)

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"chat", "--only", "strawberry"}, &stdout, &stderr, f.factory)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if len(f.responder.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(f.responder.requests))
	}
	if !strings.Contains(stdout.String(), "--- Full response_metadata ---") {
		t.Fatalf("metadata dump missing:\n%s", stdout.String())
	}

	stderr.Reset()
	code = execute(context.Background(), []string{"chat", "--only", "math"}, &stdout, &stderr, f.factory)
	if code == 0 || !strings.Contains(stderr.String(), `unknown example "math"`) {
		t.Fatalf("expected unknown example error, got code %d stderr %q", code, stderr.String())
	}
}

func TestExamplesFile(t *testing.T) {
	setCredentials(t)
	f := newFactory(t)

	path := filepath.Join(t.TempDir(), "examples.yaml")
	body := "examples:\n  - name: haiku\n    mode: responses\n    prompt: Write a haiku.\n    reasoning: {effort: low, summary: concise}\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"--examples", path}, &stdout, &stderr, f.factory)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if len(f.responder.requests) != 1 || f.responder.requests[0].Prompt != "Write a haiku." {
		t.Fatalf("unexpected requests: %#v", f.responder.requests)
	}
}

func TestInvalidFlagsFail(t *testing.T) {
	setCredentials(t)
	cases := [][]string{
		{"--format", "html"},
		{"--usage-style", "csv"},
		{"--color", "--no-color"},
		{"bogus"},
	}
	for _, args := range cases {
		f := newFactory(t)
		var stdout, stderr bytes.Buffer
		if code := execute(context.Background(), args, &stdout, &stderr, f.factory); code == 0 {
			t.Fatalf("expected failure for %v", args)
		}
		if !strings.HasPrefix(stderr.String(), "foundrydemo: ") {
			t.Fatalf("unexpected stderr for %v: %q", args, stderr.String())
		}
		if len(f.responder.requests) != 0 {
			t.Fatalf("no request expected for %v", args)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	setCredentials(t)
	f := newFactory(t)

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"config"}, &stdout, &stderr, f.factory)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if strings.Contains(out, "sk-test-1234") {
		t.Fatalf("API key leaked:\n%s", out)
	}
	for _, want := range []string{
		"Base URL     : https://demo.services.ai.azure.com/openai/v1/\n",
		"API Key      : ********1234\n",
		"Deployment   : gpt-5.2-chat\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("config output missing %q:\n%s", want, out)
		}
	}
	if f.calls != 0 {
		t.Fatalf("config should not build a client")
	}

	stdout.Reset()
	code = execute(context.Background(), []string{"config", "--format", "json"}, &stdout, &stderr, f.factory)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	var payload configPayload
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		t.Fatalf("decode config json: %v", err)
	}
	if payload.APIKey != "********1234" || payload.Deployment != "gpt-5.2-chat" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestEnvFileFlag(t *testing.T) {
	clearEnv(t)
	f := newFactory(t)

	path := filepath.Join(t.TempDir(), "demo.env")
	body := config.EnvEndpoint + "=https://file.services.ai.azure.com/\n" + config.EnvAPIKey + "=file-key-9876\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// godotenv sets these; restore the cleared values afterwards.
	t.Setenv(config.EnvEndpoint, "")
	t.Setenv(config.EnvAPIKey, "")
	os.Unsetenv(config.EnvEndpoint)
	os.Unsetenv(config.EnvAPIKey)

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"config", "--env-file", path}, &stdout, &stderr, f.factory)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Base URL     : https://file.services.ai.azure.com/openai/v1/\n") {
		t.Fatalf("env file not applied:\n%s", stdout.String())
	}

	code = execute(context.Background(), []string{"config", "--env-file", filepath.Join(t.TempDir(), "missing.env")}, &stdout, &stderr, f.factory)
	if code == 0 {
		t.Fatalf("expected failure for a missing explicit env file")
	}
}

func TestWriteKV(t *testing.T) {
	var buf bytes.Buffer
	writeKV(&buf, 10, "Endpoint", "value")
	if got := buf.String(); got != "Endpoint  : value\n" {
		t.Fatalf("writeKV unexpected output: %q", got)
	}
}
