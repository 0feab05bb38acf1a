package config

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/felixarntz/wpdlib/component"
	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/fieldtype"
	"github.com/felixarntz/wpdlib/pkg/cache"
)

// FieldProperty is the component property a declared field is stored under
const FieldProperty = "field"

// Result is what Apply registered.
type Result struct {
	// Components holds the stored top-level components in declaration
	// order. Merged declarations appear once.
	Components []*component.Component

	fields map[string]fieldtype.Field
	paths  []string
}

// Field returns the field of the component at path
func (r *Result) Field(path string) (fieldtype.Field, bool) {
	f, ok := r.fields[path]
	return f, ok
}

// FieldPaths returns the component paths that carry fields, in declaration
// order
func (r *Result) FieldPaths() []string {
	return slices.Clone(r.paths)
}

// Fields returns the created fields in declaration order
func (r *Result) Fields() []fieldtype.Field {
	out := make([]fieldtype.Field, 0, len(r.paths))
	for _, p := range r.paths {
		out = append(out, r.fields[p])
	}
	return out
}

// ApplyOption configures Apply.
type ApplyOption func(*applier)

// WithApplyLogger sets the logger Apply reports progress to
func WithApplyLogger(logger *slog.Logger) ApplyOption {
	return func(a *applier) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithDataSource overrides the source field options are resolved from
func WithDataSource(ds fieldtype.DataSource) ApplyOption {
	return func(a *applier) {
		if ds != nil {
			a.source = ds
		}
	}
}

// WithSourceCache configures the cache of the manifest data source. It has
// no effect together with WithDataSource.
func WithSourceCache(opts ...cache.Option[fieldtype.Options]) ApplyOption {
	return func(a *applier) {
		a.cacheOpts = append(a.cacheOpts, opts...)
	}
}

type applier struct {
	m      *Manifest
	reg    *component.Registry
	fm     *fieldtype.Manager
	kinds  map[string]component.Kind
	source fieldtype.DataSource
	logger *slog.Logger
	res    *Result

	cacheOpts []cache.Option[fieldtype.Options]
}

// NewFieldManager returns a field manager using the manifest locale and
// media
func (m *Manifest) NewFieldManager(opts ...fieldtype.ManagerOption) (*fieldtype.Manager, error) {
	loc, err := m.Locale.BuildLocale()
	if err != nil {
		return nil, err
	}
	base := []fieldtype.ManagerOption{
		fieldtype.WithLocale(loc),
		fieldtype.WithMediaStore(fieldtype.NewMemoryMediaStore(m.Media...)),
	}
	return fieldtype.NewManager(append(base, opts...)...), nil
}

// DataSource returns a cached source over the manifest option tables
func (m *Manifest) DataSource(opts ...cache.Option[fieldtype.Options]) (*fieldtype.CachedSource, error) {
	src := m.Sources
	if src == nil {
		src = &fieldtype.StaticSource{}
	}
	return fieldtype.NewCachedSource(src, opts...)
}

// Apply registers the manifest hierarchy and components into reg. The
// components are added while the registry gate fires, so registration is
// closed afterwards. Declared fields are created with fm, stored on their
// component under FieldProperty and have their option sources resolved.
func Apply(ctx context.Context, m *Manifest, reg *component.Registry, fm *fieldtype.Manager, opts ...ApplyOption) (*Result, error) {
	if m == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "config", "Apply", "read manifest")
	}

	a := &applier{
		m:      m,
		reg:    reg,
		fm:     fm,
		kinds:  m.ComponentKinds(),
		logger: slog.Default(),
		res:    &Result{fields: make(map[string]fieldtype.Field)},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.source == nil {
		ds, err := m.DataSource(a.cacheOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "config", "Apply", "build data source")
		}
		a.source = ds
	}

	reg.RegisterHierarchy(m.Hierarchy)
	if err := reg.Gate().Run(a.addAll); err != nil {
		return nil, errors.Wrap(err, "config", "Apply", "register components")
	}

	if err := fieldtype.Resolve(ctx, a.source, a.res.Fields()...); err != nil {
		return nil, errors.Wrap(err, "config", "Apply", "resolve field options")
	}

	a.logger.Info("manifest applied",
		"registry", reg.ID().String(),
		"components", len(a.res.Components),
		"fields", len(a.res.paths))
	return a.res, nil
}

func (a *applier) kind(name string) component.Kind {
	if k, ok := a.kinds[name]; ok {
		return k
	}
	return KindConfig{}.Kind(name)
}

func (a *applier) addAll() error {
	for _, cc := range a.m.Components {
		scope := cc.Scope
		if scope == "" {
			scope = a.m.Scope
		}
		a.reg.SetScope(scope)

		c, err := a.reg.Add(component.New(a.kind(cc.Kind), cc.Slug, cc.Props))
		if err != nil {
			return fmt.Errorf("component %s: %w", cc.Slug, err)
		}
		if !slices.Contains(a.res.Components, c) {
			a.res.Components = append(a.res.Components, c)
		}
		if err := a.complete(c, cc); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) addChildren(parent *component.Component, children []ComponentConfig) error {
	for _, cc := range children {
		c, err := parent.Add(component.New(a.kind(cc.Kind), cc.Slug, cc.Props))
		if err != nil {
			return fmt.Errorf("component %s.%s: %w", parent.Path(), cc.Slug, err)
		}
		if err := a.complete(c, cc); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) complete(c *component.Component, cc ComponentConfig) error {
	if cc.Field != nil {
		if err := a.addField(c, cc.Field); err != nil {
			return err
		}
	}
	return a.addChildren(c, cc.Children)
}

func (a *applier) addField(c *component.Component, declared fieldtype.Args) error {
	args := maps.Clone(declared)
	if args.String("id", "") == "" {
		args["id"] = c.Slug()
	}
	if args.String("name", "") == "" {
		args["name"] = c.Slug()
	}

	path := c.Path()
	typ := args.String("type", "")
	if !a.fm.IsSupported(typ) {
		return errors.Newf(errors.CodeUnknownFieldType, c.Scope(),
			"the field type %q of component %s is not supported", typ, path)
	}
	f, ok := a.fm.GetInstance(args, false)
	if !ok {
		return fmt.Errorf("%w: the %s field of component %s could not be built", errors.ErrInvalidConfig, typ, path)
	}

	c.Set(FieldProperty, f)
	if _, seen := a.res.fields[path]; !seen {
		a.res.paths = append(a.res.paths, path)
	}
	a.res.fields[path] = f
	a.logger.Debug("field created", "path", path, "type", f.Type())
	return nil
}
