// Package cli provides the command-line interface for tsffi.
//
// The CLI is a thin example over the same pipeline the shared library
// exports: it transpiles one file and prints the input, the output, the
// optional source map and the diagnostics.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tsffi/internal/config"
	"github.com/leapstack-labs/tsffi/internal/engine"
	"github.com/leapstack-labs/tsffi/internal/pipeline"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitUsage = 1
)

// errUsage signals that no file name was given.
var errUsage = errors.New("missing <file_name> argument")

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "tsffi <file_name>",
		Short: "tsffi - TypeScript to JavaScript transpiler",
		Long: `tsffi transpiles a TypeScript file to JavaScript and prints the input,
the emitted code, the optional source map and any diagnostics.

It drives the same pipeline that libtsffi exposes over its C ABI.`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			loaded, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := loaded.NewLogger(cmd.ErrOrStderr())
			if loaded.File != "" {
				logger.Debug("using config file", "path", loaded.File)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, loaded.Config)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errUsage
			}
			return runTranspile(cmd, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
TypeScript transpiler with a C ABI, built with Go and esbuild
`)

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./tsffi.yaml)")
	flags.String("target", "", "Language target (esnext, es5, es2015..es2022)")
	flags.String("format", "", "Module format (preserve|esm|cjs|iife)")
	flags.String("jsx", "", "JSX handling (transform|preserve|automatic)")
	flags.Bool("source-map", false, "Emit and print a source map")
	flags.Bool("minify", false, "Minify the emitted code")
	flags.Bool("keep-names", false, "Preserve function and class names")
	flags.String("color", "", "Colorize output (auto|always|never)")
	flags.BoolP("watch", "w", false, "Re-transpile when the file changes")
	flags.BoolP("verbose", "v", false, "Verbose output (debug logging)")
	flags.String("log-level", "", "Log level (off|debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return engine.Targets(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkFlagFilename("config", "yaml", "yml")

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ExecuteArgs(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs runs the root command with explicit arguments and streams.
func ExecuteArgs(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprintf(stderr, "Usage: %s <file_name>\n", rootCmd.Name())
			return ExitUsage
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUsage
	}
	return ExitOK
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// CreatePipeline builds a pipeline from the current configuration.
func CreatePipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	return pipeline.Build(cfg.PipelineSettings(), logger)
}
