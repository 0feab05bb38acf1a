package component

import (
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/metric"
)

// Hierarchy maps a component kind to the hierarchy of its allowed children.
type Hierarchy map[string]Hierarchy

type seenKey struct {
	hint string
	slug string
}

// Registry owns a component forest: the hierarchy schema, the current scope,
// the top-level components and the slug-existence memo.
// It is safe for concurrent use.
type Registry struct {
	id      uuid.UUID
	gate    *Gate
	logger  *slog.Logger
	metrics *metric.Metrics

	mu         sync.RWMutex
	topLevel   []string
	childKinds map[string][]string
	scopes     []string
	scope      string
	components map[string]map[string]*Component
	order      map[string][]*Component
	seen       map[string]map[seenKey]struct{}
	journal    *bindJournal
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the registry logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records registrations on m
func WithMetrics(m *metric.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithGate ties the registry to a shared lifecycle gate
func WithGate(g *Gate) Option {
	return func(r *Registry) {
		if g != nil {
			r.gate = g
		}
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		id:         uuid.New(),
		logger:     slog.Default(),
		childKinds: make(map[string][]string),
		components: make(map[string]map[string]*Component),
		order:      make(map[string][]*Component),
		seen:       make(map[string]map[seenKey]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.gate == nil {
		r.gate = NewGate(DefaultGateName)
	}
	r.logger = r.logger.With("registry_id", r.id.String())
	return r
}

// ID returns the registry identity
func (r *Registry) ID() uuid.UUID {
	return r.id
}

// Gate returns the registration gate
func (r *Registry) Gate() *Gate {
	return r.gate
}

// RegisterHierarchy records which kinds may nest under which. Calls are
// additive: child kind sets accumulate without duplicates. First-level keys
// become top-level kinds.
func (r *Registry) RegisterHierarchy(h Hierarchy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerHierarchyLocked(h, true)
}

func (r *Registry) registerHierarchyLocked(h Hierarchy, topLevel bool) {
	kinds := make([]string, 0, len(h))
	for kind := range h {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		children := h[kind]
		if topLevel && !slices.Contains(r.topLevel, kind) {
			r.topLevel = append(r.topLevel, kind)
		}

		childNames := make([]string, 0, len(children))
		for child := range children {
			childNames = append(childNames, child)
		}
		sort.Strings(childNames)

		existing := r.childKinds[kind]
		if existing == nil {
			existing = []string{}
		}
		for _, child := range childNames {
			if !slices.Contains(existing, child) {
				existing = append(existing, child)
			}
		}
		r.childKinds[kind] = existing

		r.registerHierarchyLocked(children, false)
	}
}

// ChildKinds returns the kinds allowed directly below kind
func (r *Registry) ChildKinds(kind string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.childKinds[kind])
}

// IsTopLevel reports whether kind may be registered at the top level
func (r *Registry) IsTopLevel(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.topLevel, kind)
}

// TopLevelKinds returns the top-level kinds in registration order
func (r *Registry) TopLevelKinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.topLevel)
}

// SetScope sets the scope stamped onto components as they validate
func (r *Registry) SetScope(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.scopes, scope) {
		r.scopes = append(r.scopes, scope)
	}
	r.scope = scope
}

// Scope returns the current scope
func (r *Registry) Scope() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scope
}

// Scopes returns every scope that has been set, in order
func (r *Registry) Scopes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.scopes)
}

// Add registers a top-level component. A component with the same kind and
// slug as a stored one is merged into it and the stored one is returned.
// Children staged on c are checked, validated and bound along with it.
func (r *Registry) Add(c *Component) (*Component, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, outcome, adopted, err := r.addLocked(c)
	if err != nil {
		r.rejected(err, c)
		return nil, err
	}

	r.metrics.RecordRegistration(stored.kind.Name(), outcome)
	for _, d := range adopted {
		if d != stored {
			r.metrics.RecordRegistration(d.kind.Name(), metric.OutcomeAttached)
		}
	}
	r.logger.Debug("component registered",
		"scope", r.scope,
		"kind", stored.kind.Name(),
		"slug", stored.slug,
		"outcome", outcome,
		"staged", len(adopted))
	return stored, nil
}

func (r *Registry) addLocked(c *Component) (*Component, string, []*Component, error) {
	if r.gate.TooLate() {
		return nil, "", nil, r.tooLateError()
	}
	if c == nil {
		return nil, "", nil, errors.New(errors.CodeNotAComponent, r.scope, "the object is not a component")
	}

	kindName := c.kind.Name()
	if !slices.Contains(r.topLevel, kindName) {
		return nil, "", nil, errors.Newf(errors.CodeNotTopLevel, r.scope,
			"the component %s of kind %s is not a valid toplevel component", c.slug, kindName)
	}
	if c.registry != nil && c.registry != r {
		return nil, "", nil, errors.Newf(errors.CodeForeignComponent, r.scope,
			"the component %s belongs to another registry", c.slug)
	}

	if existing := r.components[kindName][c.slug]; existing != nil {
		var adopted []*Component
		var err error
		if existing != c {
			adopted, err = r.mergeLocked(existing, c)
		}
		if err != nil {
			return nil, "", nil, err
		}
		return existing, metric.OutcomeMerged, adopted, nil
	}

	adopted, err := r.bindLocked(func(j *bindJournal) error {
		if c.registry == nil {
			c.registry = r
			j.bound = append(j.bound, c)
		}
		if _, err := c.validateLocked(nil); err != nil {
			return err
		}
		if !c.isValidSlugLocked() {
			return errors.Newf(errors.CodeDuplicateSlug, r.scope,
				"the component %s of kind %s is already registered", c.slug, kindName)
		}
		return r.adoptStagedLocked(c, j)
	})
	if err != nil {
		return nil, "", nil, err
	}

	if r.components[kindName] == nil {
		r.components[kindName] = make(map[string]*Component)
	}
	r.components[kindName][c.slug] = c
	r.order[kindName] = append(r.order[kindName], c)
	return c, metric.OutcomeStored, adopted, nil
}

// mergeLocked folds src into dst: src property values win, parents are
// unioned and children are merged recursively by kind and slug. Children
// moved over from a detached src are bound to r like staged children. The
// first child that fails to bind stays with src and its error is returned;
// everything merged before it stays merged.
func (r *Registry) mergeLocked(dst, src *Component) ([]*Component, error) {
	src.mu.RLock()
	props := make(map[string]any, len(src.extra))
	for k, v := range src.extra {
		props[k] = v
	}
	pos := src.position
	src.mu.RUnlock()

	dst.mu.Lock()
	for k, v := range props {
		dst.extra[k] = v
	}
	if pos != nil {
		p := *pos
		dst.position = &p
	}
	dst.mu.Unlock()

	for _, p := range src.parents {
		if _, ok := dst.parentIndex[p.slug]; !ok {
			dst.parentIndex[p.slug] = len(dst.parents)
			dst.parents = append(dst.parents, p)
		}
	}

	var adopted []*Component
	for _, kind := range src.childKinds {
		for _, child := range src.children[kind] {
			if same := dst.childBySlug(kind, child.slug); same != nil {
				if same != child {
					more, err := r.mergeLocked(same, child)
					adopted = append(adopted, more...)
					if err != nil {
						return adopted, err
					}
				}
				continue
			}

			child.relinkParent(src, dst)
			if child.registry != r {
				bound, err := r.bindLocked(func(j *bindJournal) error {
					return r.adoptLocked(dst, child, j)
				})
				if err != nil {
					child.relinkParent(dst, src)
					return adopted, err
				}
				adopted = append(adopted, bound...)
			}

			if dst.children[kind] == nil {
				dst.childKinds = append(dst.childKinds, kind)
			}
			dst.children[kind] = insertOrdered(dst.children[kind], child)
		}
	}
	return adopted, nil
}

// Get resolves a dotted slug path against the forest. Each segment may be
// "*". kindPath optionally restricts the kind searched at each level; empty
// or "*" segments search every kind.
func (r *Registry) Get(path, kindPath string) []*Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.queryLocked(path, kindPath)
}

// GetOne returns the first match of Get, or nil
func (r *Registry) GetOne(path, kindPath string) *Component {
	matches := r.Get(path, kindPath)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// Components returns all top-level components grouped by kind
func (r *Registry) Components() []*Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Component
	for _, kind := range r.topLevel {
		all = append(all, r.order[kind]...)
	}
	return all
}

// Exists reports whether slug was already seen for kind (below parentHint,
// if given) and records it as seen.
func (r *Registry) Exists(slug, kind, parentHint string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.existsLocked(slug, kind, parentHint)
}

func (r *Registry) existsLocked(slug, kind, parentHint string) bool {
	byKind := r.seen[kind]
	if byKind == nil {
		byKind = make(map[seenKey]struct{})
		r.seen[kind] = byKind
	}
	key := seenKey{hint: parentHint, slug: slug}
	if _, ok := byKind[key]; ok {
		return true
	}
	byKind[key] = struct{}{}
	if r.journal != nil {
		r.journal.seen = append(r.journal.seen, seenRecord{kind: kind, key: key})
	}
	return false
}

func (r *Registry) tooLateError() error {
	return errors.Newf(errors.CodeTooLate, r.scope,
		"components must not be added later than the %s event", r.gate.Name())
}

func (r *Registry) rejected(err error, c *Component) {
	code := errors.CodeOf(err)
	r.metrics.RecordRegistrationError(string(code))

	attrs := []any{"scope", r.scope, "code", string(code)}
	if c != nil {
		attrs = append(attrs, "kind", c.kind.Name(), "slug", c.slug)
	}
	r.logger.Debug("component rejected", attrs...)
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
