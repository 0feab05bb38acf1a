// Package component implements the hierarchical component registry.
//
// # Overview
//
// A Registry owns a forest of Components. Each component has a Kind, a slug,
// open properties and per-kind buckets of children. Which kinds may nest under
// which is declared up front with a Hierarchy:
//
//	registry := component.NewRegistry(component.WithLogger(logger))
//	registry.RegisterHierarchy(component.Hierarchy{
//		component.MenuKindName: {
//			"screen": {
//				"section": {"field": {}},
//			},
//		},
//	})
//
// Registries are explicit values. Tests and tenants create their own instead
// of sharing process-wide state.
//
// # Registration
//
// Top-level components go through Registry.Add, children through
// Component.Add. Both validate the component (defaults are merged into absent
// properties once, the current scope is stamped) and check slug uniqueness
// according to the kind's SlugPolicy. Adding a top-level component whose kind
// and slug are already registered merges it into the stored one, so several
// plugins can contribute to the same menu:
//
//	registry.SetScope("my-plugin")
//	main, err := registry.Add(component.New(component.Menu, "main", nil))
//	if err != nil {
//		return err
//	}
//	screen, err := main.Add(component.New(screenKind, "settings", map[string]any{
//		"position": 10,
//	}))
//
// A component that is not registered yet stages its children instead. The
// whole staged tree is checked, validated and bound once its root is added,
// so a plugin can build its contribution first and merge it in one call:
//
//	contrib := component.New(component.Menu, "main", nil)
//	contrib.Add(component.New(screenKind, "tools", nil))
//	registry.Add(contrib) // "tools" joins the stored "main" menu
//
// All failures are *errors.Error values with a code and the scope they
// happened in.
//
// # Registration deadline
//
// Every registry has a Gate. Registration is open until the gate fires;
// Gate.Run keeps it open while the handler runs. Afterwards Add fails with
// errors.ErrTooLate:
//
//	err := registry.Gate().Run(func() error {
//		return registerEverything(registry)
//	})
//
// # Queries
//
// Get resolves dotted slug paths. A "*" segment matches every component at
// that level, and an optional parallel kind path narrows the bucket searched:
//
//	registry.Get("main.*.general", "")          // every "general" two levels down
//	registry.GetOne("main.settings", "menu.screen")
//
// # Ordering
//
// Children carry an optional numeric "position". Buckets are kept stable
// sorted with positioned children first; children without a position keep
// their insertion order.
package component
