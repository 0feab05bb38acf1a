// Package config loads declarative manifests and applies them to a component
// registry and field manager.
//
// A manifest names the component hierarchy, declares kinds and their slug
// rules, lists the components to register with the fields they carry, and
// supplies the option tables and media that fields draw on. Manifests are
// written in YAML or JSON.
//
// # Core Components
//
// Manifest: The decoded document. Validate checks its structure with struct
// tags, ComponentKinds turns kind declarations into component kinds, and
// NewFieldManager builds a field manager for its locale and media.
//
// Loader: Loads manifests from layered files. Each layer is checked against
// the embedded JSON Schema before decoding; later layers add components and
// override scalar settings of earlier ones.
//
// Apply: Registers the hierarchy and components inside the registry gate,
// creates the declared fields and resolves their option sources.
//
// # Basic Usage
//
//	loader := config.NewLoader(logger)
//	loader.AddLayer("admin.yaml")
//	loader.AddLayer("admin.local.yaml")
//
//	m, err := loader.Load()
//	if err != nil {
//		return err
//	}
//
//	fm, err := m.NewFieldManager(fieldtype.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	reg := component.NewRegistry(component.WithLogger(logger))
//
//	res, err := config.Apply(ctx, m, reg, fm)
//	if err != nil {
//		return err
//	}
//	field, _ := res.Field("my-menu.my-page.general.title")
//
// # Manifest Format
//
//	version: 1.0.0
//	scope: my-plugin
//	locale:
//	  tag: de-DE
//	  timezone: Europe/Berlin
//	kinds:
//	  section:
//	    slugs: within
//	    within: page
//	hierarchy:
//	  menu:
//	    page:
//	      section:
//	        field:
//	components:
//	  - kind: menu
//	    slug: my-menu
//	    children:
//	      - kind: page
//	        slug: my-page
//	        children:
//	          - kind: section
//	            slug: general
//	            children:
//	              - kind: field
//	                slug: title
//	                field:
//	                  type: text
//
// # Environment Variable Overrides
//
//	# Override the registration scope
//	export WPDLIB_SCOPE="my-plugin"
//
//	# Override the locale and timezone
//	export WPDLIB_LOCALE="de-DE"
//	export WPDLIB_TIMEZONE="Europe/Berlin"
//
// # Security
//
// Manifest files are limited to 10MB, must be regular files with a .yaml,
// .yml or .json extension, and JSON documents may nest at most 100 levels.
package config
