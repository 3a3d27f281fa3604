package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/pkg/host"
	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/sources"
)

// Settings is the document read by the watch command.
type Settings struct {
	Name  string   `json:"name" yaml:"name" validate:"required"`
	Level int      `json:"level" yaml:"level" validate:"gte=0"`
	Tags  []string `json:"tags" yaml:"tags"`
}

func (s Settings) String() string {
	return fmt.Sprintf("name=%s level=%d tags=[%s]", s.Name, s.Level, strings.Join(s.Tags, ","))
}

// SettingsView mirrors a settings source into its Settings cell.
type SettingsView struct {
	reactive.Reactive

	Settings *reactive.State[Settings]

	source   reactive.Source[Settings]
	logger   *slog.Logger
	onChange func(Settings)
}

// NewSettingsView creates a view bound to source on its first update.
func NewSettingsView(inj reactive.Injector, source reactive.Source[Settings], logger *slog.Logger, onChange func(Settings)) *SettingsView {
	v := &SettingsView{
		Settings: reactive.NewState(Settings{}),
		source:   source,
		logger:   logger,
		onChange: onChange,
	}
	v.Setup(v, inj, reactive.WithLogger(logger))
	return v
}

// Update implements reactive.Updater.
func (v *SettingsView) Update(changes reactive.Changes, first bool) {
	if first {
		if err := reactive.Bind(v.Settings, v.source); err != nil {
			v.logger.Error("bind settings", "error", err)
		}
	}

	if change := changes["Settings"]; reactive.UpdateOn(change) {
		current, _ := reactive.Current[Settings](change)
		v.logger.Debug("settings changed", "settings", current.String())
		if v.onChange != nil {
			if err := reactive.ViewUpdate(func() { v.onChange(current) }); err != nil {
				v.logger.Error("publish settings", "error", err)
			}
		}
	}
}

// Render implements host.Renderer.
func (v *SettingsView) Render() string {
	return "settings: " + v.Settings.Peek().String()
}

func parseFormat(s string) (sources.Format, error) {
	switch s {
	case "", "auto":
		return sources.FormatAuto, nil
	case "json":
		return sources.FormatJSON, nil
	case "yaml", "yml":
		return sources.FormatYAML, nil
	default:
		return sources.FormatAuto, fmt.Errorf("unknown format %q", s)
	}
}

func watchCmd(a *app) *cobra.Command {
	var (
		format string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Print a settings file every time it changes",
		Long: `Print a settings file every time it changes.

The file is decoded as YAML or JSON and validated: name is required and
level must not be negative. Invalid contents are reported and skipped.

Examples:
  reactive-demo watch settings.yaml
  reactive-demo watch settings.json --format=json
  reactive-demo watch settings.yaml --changes=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				a.cfg.Watch.Format = format
			}
			f, err := parseFormat(a.cfg.Watch.Format)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src := sources.File[Settings](args[0],
				sources.WithFormat(f),
				sources.WithLogger(a.logger),
			)
			return a.watchSettings(ctx, src, limit)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "File format: auto, json or yaml (default from config)")
	cmd.Flags().IntVar(&limit, "changes", 0, "Exit after this many changes, 0 watches until interrupted")

	return cmd
}

// watchSettings prints every settings value delivered by src until limit
// changes were seen (when positive) or ctx is done.
func (a *app) watchSettings(ctx context.Context, src reactive.Source[Settings], limit int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	seen := 0
	h := host.New(host.WithLogger(a.logger))
	v := NewSettingsView(h.Injector(), src, a.logger, func(s Settings) {
		seen++
		a.info("%s", s)
		if limit > 0 && seen >= limit {
			cancel()
		}
	})

	f := h.Mount(v)
	defer f.Destroy()

	if err := f.Run(ctx, nil); err != nil {
		return err
	}
	a.success("Saw %d changes", seen)
	return nil
}
