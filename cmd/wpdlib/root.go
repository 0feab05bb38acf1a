package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/felixarntz/wpdlib/component"
	"github.com/felixarntz/wpdlib/config"
	"github.com/felixarntz/wpdlib/fieldtype"
	"github.com/felixarntz/wpdlib/metric"
	"github.com/felixarntz/wpdlib/pkg/cache"
)

// app carries what the subcommands share
type app struct {
	opts   *globalOptions
	out    io.Writer
	logger *slog.Logger
}

// session is a loaded manifest applied to a fresh registry
type session struct {
	manifest *config.Manifest
	fields   *fieldtype.Manager
	registry *component.Registry
	result   *config.Result
	metrics  *metric.MetricsRegistry
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{opts: defaultGlobalOptions(), out: out, logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Inspect WPDLib component manifests",
		Long: `wpdlib loads component manifests, registers them into a component
registry and inspects the resulting tree and fields.

Manifests are YAML or JSON files. Several manifests may be given; later ones
add components and override settings of earlier ones.`,
		Version:       fmt.Sprintf("%s (built: %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.opts.validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}
			a.logger = setupLogger(a.opts.LogLevel, a.opts.LogFormat, errOut)
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().StringSliceVarP(&a.opts.Manifests, "manifest", "m", a.opts.Manifests,
		"manifest file, repeatable (env: WPDLIB_MANIFEST, comma-separated)")
	rootCmd.PersistentFlags().StringVar(&a.opts.LogLevel, "log-level", a.opts.LogLevel,
		"log level: debug, info, warn, error (env: WPDLIB_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&a.opts.LogFormat, "log-format", a.opts.LogFormat,
		"log format: json, text (env: WPDLIB_LOG_FORMAT)")

	rootCmd.AddCommand(newValidateCommand(a))
	rootCmd.AddCommand(newTreeCommand(a))
	rootCmd.AddCommand(newGetCommand(a))
	rootCmd.AddCommand(newMenuCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newRenderCommand(a))
	rootCmd.AddCommand(newFormatCommand(a))
	rootCmd.AddCommand(newSchemaCommand(a))
	rootCmd.AddCommand(newMetricsCommand(a))

	return rootCmd
}

// open loads the manifests and applies them
func (a *app) open(ctx context.Context) (*session, error) {
	if len(a.opts.Manifests) == 0 {
		return nil, fmt.Errorf("no manifest given: use --manifest or WPDLIB_MANIFEST")
	}

	loader := config.NewLoader(a.logger)
	for _, path := range a.opts.Manifests {
		loader.AddLayer(path)
	}
	m, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	mr := metric.NewMetricsRegistry()
	fm, err := m.NewFieldManager(
		fieldtype.WithLogger(a.logger),
		fieldtype.WithMetrics(mr.CoreMetrics()),
	)
	if err != nil {
		return nil, fmt.Errorf("build field manager: %w", err)
	}
	reg := component.NewRegistry(
		component.WithLogger(a.logger),
		component.WithMetrics(mr.CoreMetrics()),
	)

	res, err := config.Apply(ctx, m, reg, fm,
		config.WithApplyLogger(a.logger),
		config.WithSourceCache(cache.WithMetrics[fieldtype.Options](mr, "options")),
	)
	if err != nil {
		return nil, fmt.Errorf("apply manifest: %w", err)
	}

	return &session{
		manifest: m,
		fields:   fm,
		registry: reg,
		result:   res,
		metrics:  mr,
	}, nil
}

// field returns the field of the component at path
func (s *session) field(path string) (fieldtype.Field, error) {
	f, ok := s.result.Field(path)
	if !ok {
		return nil, fmt.Errorf("no field at %s", path)
	}
	return f, nil
}
