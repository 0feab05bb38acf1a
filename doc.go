// Package wpdlib declares admin interfaces as trees of components carrying
// typed form fields.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│          Manifests (config)         │  YAML / JSON layers,
//	│   schema check, merge, env override │  validated and merged
//	└─────────────────────────────────────┘
//	           ↓ Apply
//	┌─────────────────────────────────────┐
//	│       Component registry            │  menus, pages, sections,
//	│  (component: kinds, slugs, scopes)  │  fields as a forest
//	└─────────────────────────────────────┘
//	           ↓ field property
//	┌─────────────────────────────────────┐
//	│          Field types                │  validate, parse, format,
//	│ (fieldtype: Manager, Locale, Media) │  render controls
//	└─────────────────────────────────────┘
//
// # Packages
//
//   - component: the Registry, component Kinds and the Menu kind
//   - fieldtype: the field types, their Manager and the formatting pipeline
//   - config: manifest loading, validation and Apply
//   - errors: classified and coded errors shared by every package
//   - metric: Prometheus metrics for registration and validation
//   - pkg/cache, pkg/retry: the cache and backoff behind option data sources
//   - cmd/wpdlib: a CLI to validate and inspect manifests
//
// # Quick Start
//
//	loader := config.NewLoader(logger)
//	loader.AddLayer("admin.yaml")
//	m, err := loader.Load()
//	if err != nil {
//		return err
//	}
//	fm, err := m.NewFieldManager()
//	if err != nil {
//		return err
//	}
//	reg := component.NewRegistry(component.WithLogger(logger))
//	res, err := config.Apply(ctx, m, reg, fm)
//	if err != nil {
//		return err
//	}
//	title, _ := res.Field("my-menu.settings.general.title")
//	stored, err := title.Validate(input)
package wpdlib
