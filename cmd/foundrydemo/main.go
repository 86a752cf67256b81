// Package main provides the foundrydemo CLI, which runs reasoning examples
// against an Azure AI Foundry deployment and prints the summaries, answers and
// token usage.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"foundrydemo/internal/config"
	"foundrydemo/internal/examples"
	"foundrydemo/internal/foundry"
	"foundrydemo/internal/view"

	"github.com/spf13/cobra"
)

var version = "dev"

// responderFactory builds the Responder used for a run.
type responderFactory func(settings config.Settings, logger *slog.Logger) foundry.Responder

func newClientResponder(settings config.Settings, logger *slog.Logger) foundry.Responder {
	return foundry.New(settings, logger)
}

type app struct {
	stdout       io.Writer
	stderr       io.Writer
	newResponder responderFactory

	envFile      string
	deployment   string
	examplesFile string
	only         []string
	wrap         int
	usageStyle   string
	formatFlag   string
	forceColor   bool
	forceNoColor bool
	verbose      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, newClientResponder)
	stop()
	os.Exit(code)
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, factory responderFactory) int {
	a := &app{stdout: stdout, stderr: stderr, newResponder: factory}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, config.ErrMissingCredentials) {
			fmt.Fprintf(stderr, "foundrydemo: %s\n", config.MissingCredentialsHint) //nolint:errcheck
			return 1
		}
		fmt.Fprintf(stderr, "foundrydemo: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "foundrydemo",
		Short:         "Run reasoning examples against an Azure AI Foundry deployment",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), "")
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", "", "load environment variables from this file (default: .env if present)")
	flags.StringVar(&a.deployment, "deployment", "", "deployment name (env: AZURE_OPENAI_DEPLOYMENT, default: "+config.DefaultDeployment+")")
	flags.StringVar(&a.examplesFile, "examples", "", "YAML examples catalog to run instead of the built-in one (env: FOUNDRY_EXAMPLES_FILE)")
	flags.StringSliceVar(&a.only, "only", nil, "run only the named examples")
	flags.IntVar(&a.wrap, "wrap", 0, "wrap text at the given width (chat format defaults to the terminal width)")
	flags.StringVar(&a.usageStyle, "usage-style", "text", "token usage style: text or table")
	flags.StringVar(&a.formatFlag, "format", "text", "output format: text or chat")
	flags.BoolVar(&a.forceColor, "color", false, "force ANSI colors")
	flags.BoolVar(&a.forceNoColor, "no-color", false, "disable ANSI colors")
	flags.BoolVar(&a.verbose, "verbose", false, "log requests to stderr")

	for _, mode := range examples.Modes {
		root.AddCommand(newModeCmd(a, mode))
	}
	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run every example (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), "")
		},
	})
	root.AddCommand(newConfigCmd(a))

	return root
}

func newModeCmd(a *app, mode examples.Mode) *cobra.Command {
	return &cobra.Command{
		Use:   string(mode),
		Short: mode.Description(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), mode)
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved connection settings with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := a.settings()
			if err != nil {
				return err
			}

			payload := configPayload{
				Endpoint:     settings.Endpoint,
				BaseURL:      settings.BaseURL,
				Deployment:   settings.Deployment,
				APIKey:       config.MaskKey(settings.APIKey),
				ExamplesFile: settings.ExamplesFile,
			}

			switch strings.ToLower(formatFlag) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			case "text":
				renderConfigText(cmd.OutOrStdout(), payload)
				return nil
			default:
				return fmt.Errorf("unsupported format: %s", formatFlag)
			}
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "text", "output format: text or json")
	return cmd
}

type configPayload struct {
	Endpoint     string `json:"endpoint"`
	BaseURL      string `json:"base_url"`
	Deployment   string `json:"deployment"`
	APIKey       string `json:"api_key"`
	ExamplesFile string `json:"examples_file,omitempty"`
}

func renderConfigText(out io.Writer, payload configPayload) {
	const labelWidth = 13
	writeKV(out, labelWidth, "Endpoint", payload.Endpoint)
	writeKV(out, labelWidth, "Base URL", payload.BaseURL)
	writeKV(out, labelWidth, "Deployment", payload.Deployment)
	writeKV(out, labelWidth, "API Key", payload.APIKey)
	if payload.ExamplesFile != "" {
		writeKV(out, labelWidth, "Examples File", payload.ExamplesFile)
	}
}

func writeKV(out io.Writer, width int, label string, value string) {
	fmt.Fprintf(out, "%-*s: %s\n", width, label, value) //nolint:errcheck
}

// settings loads the env file, resolves the environment and applies flag
// overrides.
func (a *app) settings() (config.Settings, error) {
	if err := config.LoadEnvFile(a.envFile, a.envFile != ""); err != nil {
		return config.Settings{}, err
	}
	settings, err := config.FromEnv()
	if err != nil {
		return config.Settings{}, err
	}
	if a.deployment != "" {
		settings.Deployment = a.deployment
	}
	if a.examplesFile != "" {
		settings.ExamplesFile = a.examplesFile
	}
	return settings, nil
}

func (a *app) logger() *slog.Logger {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// run executes the examples of mode, or all examples when mode is empty.
func (a *app) run(ctx context.Context, mode examples.Mode) error {
	if a.forceColor && a.forceNoColor {
		return errors.New("--color cannot be used with --no-color")
	}

	settings, err := a.settings()
	if err != nil {
		return err
	}
	logger := a.logger()

	catalog := examples.Builtin()
	if settings.ExamplesFile != "" {
		catalog, err = examples.LoadFile(settings.ExamplesFile)
		if err != nil {
			return err
		}
	}
	if mode != "" {
		catalog = examples.Filter(catalog, mode)
	}
	selected, err := examples.Select(catalog, a.only)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no examples to run")
	}

	opts := view.Options{
		Format:       a.formatFlag,
		Wrap:         a.wrap,
		UsageStyle:   a.usageStyle,
		ForceColor:   a.forceColor,
		ForceNoColor: a.forceNoColor,
		Out:          a.stdout,
	}
	if file, ok := a.stdout.(*os.File); ok {
		opts.OutFile = file
	}
	printer, err := view.NewPrinter(opts)
	if err != nil {
		return err
	}

	logger.Debug("resolved settings", "settings", settings.String(), "examples", len(selected))

	runner := &examples.Runner{
		Responder:  a.newResponder(settings, logger),
		Deployment: settings.Deployment,
		Printer:    printer,
		Logger:     logger,
	}
	return runner.Run(ctx, examples.Title(settings.Deployment, mode), selected)
}
