package component

// Kind describes a component class: its name in the hierarchy schema, the
// property defaults merged in at validation, and its parenting and slug rules.
type Kind interface {
	Name() string
	Defaults() map[string]any
	SupportsMultiParents() bool
	SlugPolicy() SlugPolicy
}

// PostValidator is implemented by kinds that post-process a component's
// properties after its first validation.
type PostValidator interface {
	Validated(c *Component) error
}

// SlugPolicy decides where a component slug has to be unique.
type SlugPolicy struct {
	shared bool
	within string
}

// SlugShared allows any number of components of a kind to use the same slug.
// The slug is still recorded as seen.
func SlugShared() SlugPolicy {
	return SlugPolicy{shared: true}
}

// SlugUnique requires slugs to be unique across the whole kind.
func SlugUnique() SlugPolicy {
	return SlugPolicy{}
}

// SlugUniqueWithin requires slugs to be unique below the nearest ancestor of
// the given kind. Components without such an ancestor fall back to
// SlugUnique.
func SlugUniqueWithin(kind string) SlugPolicy {
	return SlugPolicy{within: kind}
}

// Shared reports whether slugs may be reused.
func (p SlugPolicy) Shared() bool { return p.shared }

// Within returns the ancestor kind slugs are scoped to, if any.
func (p SlugPolicy) Within() string { return p.within }

// String returns a short description of the policy
func (p SlugPolicy) String() string {
	switch {
	case p.shared:
		return "shared"
	case p.within != "":
		return "unique within " + p.within
	default:
		return "unique"
	}
}

// KindSpec is a declarative Kind.
type KindSpec struct {
	KindName    string
	Props       map[string]any
	MultiParent bool
	Slugs       SlugPolicy
	// OnValidated runs once after the first validation of each component.
	OnValidated func(c *Component) error
}

var (
	_ Kind          = (*KindSpec)(nil)
	_ PostValidator = (*KindSpec)(nil)
)

// Name implements Kind
func (k *KindSpec) Name() string { return k.KindName }

// Defaults implements Kind. The returned map is a copy.
func (k *KindSpec) Defaults() map[string]any {
	out := make(map[string]any, len(k.Props))
	for key, v := range k.Props {
		out[key] = v
	}
	return out
}

// SupportsMultiParents implements Kind
func (k *KindSpec) SupportsMultiParents() bool { return k.MultiParent }

// SlugPolicy implements Kind
func (k *KindSpec) SlugPolicy() SlugPolicy { return k.Slugs }

// Validated implements PostValidator
func (k *KindSpec) Validated(c *Component) error {
	if k.OnValidated == nil {
		return nil
	}
	return k.OnValidated(c)
}
