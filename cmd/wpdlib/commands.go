package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/felixarntz/wpdlib/component"
	"github.com/felixarntz/wpdlib/config"
	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/fieldtype"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and apply the manifests, reporting any error",
		Example: `  # Validate a manifest
  wpdlib validate -m admin.yaml

  # Validate a base manifest with a local override
  wpdlib validate -m admin.yaml -m admin.local.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			total := 0
			for _, c := range s.registry.Components() {
				total += countTree(c)
			}
			_, err = fmt.Fprintf(a.out, "manifest is valid: %d components, %d fields\n",
				total, len(s.result.FieldPaths()))
			return err
		},
	}
}

func countTree(c *component.Component) int {
	n := 1
	for _, child := range c.Children("") {
		n += countTree(child)
	}
	return n
}

func newTreeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the registered component tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range s.registry.Components() {
				writeTree(a.out, c, 0)
			}
			return nil
		},
	}
}

func writeTree(w io.Writer, c *component.Component, depth int) {
	line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", depth), c.Kind().Name(), c.Slug())
	if f, ok := c.Get(config.FieldProperty).(fieldtype.Field); ok {
		line += " <" + f.Type() + ">"
	}
	if scope := c.Scope(); scope != "" {
		line += " [" + scope + "]"
	}
	_, _ = fmt.Fprintln(w, line)
	for _, child := range c.Children("") {
		writeTree(w, child, depth+1)
	}
}

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [kind-path]",
		Short: "Print the properties of the components matching a dotted path",
		Example: `  # One component
  wpdlib get -m admin.yaml my-menu.settings

  # Every field of a section, restricted by kind
  wpdlib get -m admin.yaml 'my-menu.settings.general.*' menu.page.section.field`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			kindPath := ""
			if len(args) > 1 {
				kindPath = args[1]
			}
			matches := s.registry.Get(args[0], kindPath)
			if len(matches) == 0 {
				return fmt.Errorf("no component matches %s", args[0])
			}

			out := make([]map[string]any, 0, len(matches))
			for _, c := range matches {
				out = append(out, describeComponent(c))
			}
			return writeJSON(a.out, out)
		},
	}
}

func describeComponent(c *component.Component) map[string]any {
	props := c.Properties()
	props["kind"] = c.Kind().Name()
	props["path"] = c.Path()
	if f, ok := props[config.FieldProperty].(fieldtype.Field); ok {
		fargs := f.Args()
		props[config.FieldProperty] = map[string]any{
			"type": f.Type(),
			"id":   fargs.String("id", ""),
			"name": fargs.String("name", ""),
		}
	}
	return props
}

func newMenuCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Print where the pages of each menu are placed in the admin menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "MODE\tSLUG\tPARENT\tLABEL\tICON\tPOSITION")
			for _, c := range s.registry.Components() {
				if c.Kind().Name() != component.MenuKindName {
					continue
				}
				for _, e := range component.MenuEntries(c, nil) {
					pos := "-"
					if e.Position != nil {
						pos = fmt.Sprint(*e.Position)
					}
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						e.Mode, e.Slug, orDash(e.ParentSlug), orDash(e.Label), orDash(e.Icon), pos)
				}
			}
			return tw.Flush()
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newCheckCommand(a *app) *cobra.Command {
	var input, at string

	cmd := &cobra.Command{
		Use:   "check <field-path> [value]",
		Short: "Validate a value against a field",
		Long: `Validate a value against the field of a component and print the stored
value and its formatted display. Values that are valid JSON are decoded,
anything else is taken as a string. With --input the value is read from a
JSON document, optionally selected by a gjson path given with --at.`,
		Example: `  wpdlib check -m admin.yaml my-menu.settings.general.size Medium
  wpdlib check -m admin.yaml my-menu.settings.general.related '["10"]'
  wpdlib check -m admin.yaml my-menu.settings.general.title --input post.json --at meta.title`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			f, err := s.field(args[0])
			if err != nil {
				return err
			}

			var value any
			switch {
			case input != "":
				value, err = readInput(input, at)
				if err != nil {
					return err
				}
			case len(args) > 1:
				value = parseValue(args[1])
			}

			stored, err := f.Validate(value)
			if err != nil {
				if werr := writeJSON(a.out, map[string]any{
					"valid":   false,
					"code":    errors.CodeOf(err),
					"message": err.Error(),
				}); werr != nil {
					return werr
				}
				return fmt.Errorf("value rejected by %s: %w", args[0], err)
			}
			return writeJSON(a.out, map[string]any{
				"valid":   true,
				"value":   stored,
				"display": f.Parse(stored, fieldtype.Formatted),
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "JSON document to read the value from")
	cmd.Flags().StringVar(&at, "at", "", "gjson path of the value inside --input")
	return cmd
}

// parseValue decodes raw when it is valid JSON and returns it unchanged
// otherwise
func parseValue(raw string) any {
	if gjson.Valid(raw) {
		return gjson.Parse(raw).Value()
	}
	return raw
}

func readInput(path, at string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("input %s is not valid JSON", path)
	}
	res := gjson.ParseBytes(data)
	if at != "" {
		res = res.Get(at)
	}
	if !res.Exists() {
		return nil, nil
	}
	return res.Value(), nil
}

func newRenderCommand(a *app) *cobra.Command {
	var (
		value  string
		assets bool
	)

	cmd := &cobra.Command{
		Use:   "render <field-path>",
		Short: "Print the control markup of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			f, err := s.field(args[0])
			if err != nil {
				return err
			}

			var v any
			if cmd.Flags().Changed("value") {
				v = parseValue(value)
			}
			if err := fieldtype.Render(a.out, f, v); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(a.out); err != nil {
				return err
			}
			if assets {
				return writeJSON(a.out, s.fields.CollectAssets(f))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "current value, decoded as JSON when valid")
	cmd.Flags().BoolVar(&assets, "assets", false, "also print the script dependencies and variables")
	return cmd
}

func newFormatCommand(a *app) *cobra.Command {
	var (
		kind, mode       string
		locale, timezone string
		asJSON           bool
		options          map[string]string
	)

	cmd := &cobra.Command{
		Use:   "format <value>",
		Short: "Convert a value with the field formatting pipeline",
		Example: `  wpdlib format --kind float --option decimals=2 1234.5
  wpdlib format --kind date --mode input "March 5, 2025"
  wpdlib format --kind byte --locale de-DE 1536`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := fieldtype.ParseLocale(locale, timezone)
			if err != nil {
				return fmt.Errorf("parse locale: %w", err)
			}
			fm := fieldtype.NewManager(fieldtype.WithLocale(loc), fieldtype.WithLogger(a.logger))

			var value any = args[0]
			if asJSON {
				value = parseValue(args[0])
			}
			opts := make(fieldtype.Args, len(options))
			for k, v := range options {
				opts[k] = parseValue(v)
			}

			result := fm.Format(value, kind, mode, opts)
			if s, ok := result.(string); ok {
				_, err = fmt.Fprintln(a.out, s)
				return err
			}
			return writeJSON(a.out, result)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", fieldtype.KindString,
		"string, html, url, boolean, integer, float, date, time, datetime or byte")
	cmd.Flags().StringVar(&mode, "mode", fieldtype.ModeOutput, "input or output")
	cmd.Flags().StringVar(&locale, "locale", getEnv("WPDLIB_LOCALE", ""), "BCP 47 locale (env: WPDLIB_LOCALE)")
	cmd.Flags().StringVar(&timezone, "timezone", getEnv("WPDLIB_TIMEZONE", ""), "IANA timezone (env: WPDLIB_TIMEZONE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "decode the value as JSON")
	cmd.Flags().StringToStringVar(&options, "option", nil, "formatting option as key=value, repeatable")
	return cmd
}

func newSchemaCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema manifests are checked against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.out.Write(config.Schema())
			return err
		},
	}
}

func newMetricsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Apply the manifests and print the collected metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			families, err := s.metrics.PrometheusRegistry().Gather()
			if err != nil {
				return fmt.Errorf("gather metrics: %w", err)
			}
			for _, mf := range families {
				if _, err := expfmt.MetricFamilyToText(a.out, mf); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
