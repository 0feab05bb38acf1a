package component

// Kinds shared by the tests in this package

var (
	testScreenKind = &KindSpec{
		KindName: "screen",
		Props:    map[string]any{"title": "", "capability": "manage_options"},
		Slugs:    SlugUnique(),
	}
	testSectionKind = &KindSpec{
		KindName: "section",
		Props:    map[string]any{"title": ""},
		Slugs:    SlugUniqueWithin("screen"),
	}
	testFieldKind = &KindSpec{
		KindName:    "field",
		Props:       map[string]any{"type": "text"},
		MultiParent: true,
		Slugs:       SlugUniqueWithin("section"),
	}
)

func testHierarchy() Hierarchy {
	return Hierarchy{
		MenuKindName: {
			"screen": {
				"section": {
					"field": {},
				},
			},
		},
	}
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.RegisterHierarchy(testHierarchy())
	return r
}
