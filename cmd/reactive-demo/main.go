package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/internal/config"
	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(newRootCmd(), os.Stderr))
}

// run executes the root command and returns the process exit code. Errors
// are printed with their code, detail and suggestion when they carry one.
func run(rootCmd *cobra.Command, stderr io.Writer) int {
	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(stderr, err)
		return 1
	}
	return 0
}

// app holds what every subcommand needs after flags and configuration
// are resolved.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
		a          = &app{}
	)

	rootCmd := &cobra.Command{
		Use:   "reactive-demo",
		Short: "Demonstrates reactive component state",
		Long: `reactive-demo drives reactive components outside of a UI framework.

Components declare state cells, bind them to asynchronous sources and
receive one Update per change-detection cycle with the changes that
happened since the previous one.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}

			level := slog.LevelInfo
			if cfg.Debug {
				level = slog.LevelDebug
			}
			reactive.DebugMode = cfg.Debug

			a.cfg = cfg
			a.out = cmd.OutOrStdout()
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default ./reactive.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		runCmd(a),
		watchCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.out, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.out, "  %s\n", fmt.Sprintf(format, args...))
}
