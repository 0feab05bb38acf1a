package component

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/metric"
)

// Component is a node in a registry's component forest.
//
// Tree state (parents and children) is guarded by the owning registry's
// lock. Properties, scope and the validated flag are guarded by the
// component's own lock, so a kind's PostValidator may use Get and Set while
// the registry is validating. It must not call tree accessors.
type Component struct {
	kind Kind
	slug string

	mu       sync.RWMutex
	position *float64
	extra    map[string]any

	scope       string
	parents     []*Component
	parentIndex map[string]int
	children    map[string][]*Component
	childKinds  []string
	validated   bool
	validSlug   *bool
	registry    *Registry
}

// New creates an unattached component. A "position" property is lifted into
// the component's sort position when it is numeric.
func New(kind Kind, slug string, props map[string]any) *Component {
	c := &Component{
		kind:        kind,
		slug:        slug,
		extra:       make(map[string]any, len(props)),
		parentIndex: make(map[string]int),
		children:    make(map[string][]*Component),
	}
	for key, v := range props {
		c.setLocked(key, v)
	}
	return c
}

// Slug returns the component slug
func (c *Component) Slug() string { return c.slug }

// Kind returns the component kind
func (c *Component) Kind() Kind { return c.kind }

// Registry returns the registry the component is attached to, or nil
func (c *Component) Registry() *Registry { return c.registry }

// Scope returns the scope stamped at validation
func (c *Component) Scope() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scope
}

// Validated reports whether the component has been validated
func (c *Component) Validated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validated
}

// Position returns the sort position, if set
func (c *Component) Position() (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.position == nil {
		return 0, false
	}
	return *c.position, true
}

// Get returns a property. Named fields (slug, kind, scope, position) are
// checked before the open property map.
func (c *Component) Get(key string) any {
	switch key {
	case "slug":
		return c.slug
	case "kind":
		return c.kind.Name()
	case "scope":
		return c.Scope()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if key == "position" {
		if c.position == nil {
			return nil
		}
		return *c.position
	}
	return c.extra[key]
}

// Set updates a property and reports whether it was applied. slug, kind and
// scope are read-only; position accepts numbers, numeric strings or nil.
func (c *Component) Set(key string, value any) bool {
	switch key {
	case "slug", "kind", "scope":
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(key, value)
}

func (c *Component) setLocked(key string, value any) bool {
	if key != "position" {
		c.extra[key] = value
		return true
	}
	if value == nil {
		c.position = nil
		return true
	}
	f, ok := toFloat(value)
	if !ok {
		return false
	}
	c.position = &f
	return true
}

// Properties returns a copy of all properties, named fields included
func (c *Component) Properties() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := maps.Clone(c.extra)
	if out == nil {
		out = make(map[string]any)
	}
	out["slug"] = c.slug
	out["scope"] = c.scope
	if c.position != nil {
		out["position"] = *c.position
	} else {
		out["position"] = nil
	}
	return out
}

// Add attaches child below c and returns it. On a component that is not
// registered yet the child is only staged: hierarchy, validation and slug
// checks run for the whole staged tree once its root is added to a registry.
// Staging is not safe for concurrent use.
func (c *Component) Add(child *Component) (*Component, error) {
	r := c.registry
	if r == nil {
		return c.stage(child)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	added, adopted, err := c.addLocked(child)
	if err != nil {
		r.rejected(err, child)
		return nil, err
	}
	r.metrics.RecordRegistration(added.kind.Name(), metric.OutcomeAttached)
	for _, d := range adopted {
		if d != added {
			r.metrics.RecordRegistration(d.kind.Name(), metric.OutcomeAttached)
		}
	}
	r.logger.Debug("component attached",
		"scope", r.scope,
		"kind", added.kind.Name(),
		"path", added.pathLocked(),
		"staged", len(adopted))
	return added, nil
}

func (c *Component) addLocked(child *Component) (*Component, []*Component, error) {
	r := c.registry

	if r.gate.TooLate() {
		return nil, nil, r.tooLateError()
	}
	if child == nil {
		return nil, nil, errors.New(errors.CodeNotAComponent, r.scope, "the object is not a component")
	}

	linked := len(child.parents)
	adopted, err := r.bindLocked(func(j *bindJournal) error {
		return r.adoptLocked(c, child, j)
	})
	if err != nil {
		if len(child.parents) > linked {
			child.unlinkParent(c)
		}
		return nil, nil, err
	}

	kindName := child.kind.Name()
	bucket := c.children[kindName]
	if slices.Contains(bucket, child) {
		return child, adopted, nil
	}
	if bucket == nil {
		c.childKinds = append(c.childKinds, kindName)
	}
	c.children[kindName] = insertOrdered(bucket, child)
	return child, adopted, nil
}

// Validate links parent (if given) and, on the first call only, fills in the
// kind defaults and stamps the registry scope. It returns true for the first
// successful call.
func (c *Component) Validate(parent *Component) (bool, error) {
	unlock := c.lockTree()
	defer unlock()
	return c.validateLocked(parent)
}

func (c *Component) validateLocked(parent *Component) (bool, error) {
	scope := ""
	if c.registry != nil {
		scope = c.registry.scope
	}

	if !c.validated && c.slug == "" {
		return false, errors.Newf(errors.CodeEmptySlug, scope,
			"a component of kind %s was registered without a slug", c.kind.Name())
	}

	if parent != nil {
		if _, ok := c.parentIndex[parent.slug]; !ok {
			if len(c.parents) > 0 && !c.kind.SupportsMultiParents() {
				return false, errors.Newf(errors.CodeMultiParent, scope,
					"the component %s of kind %s already has a parent and does not support multiple parents",
					c.slug, c.kind.Name())
			}
			c.parentIndex[parent.slug] = len(c.parents)
			c.parents = append(c.parents, parent)
		}
	}

	if c.validated {
		return false, nil
	}

	c.mu.Lock()
	for key, def := range c.kind.Defaults() {
		if key == "position" {
			if c.position == nil && def != nil {
				c.setLocked(key, def)
			}
			continue
		}
		if _, ok := c.extra[key]; !ok {
			c.extra[key] = def
		}
	}
	c.scope = scope
	c.validated = true
	c.mu.Unlock()

	if pv, ok := c.kind.(PostValidator); ok {
		if err := pv.Validated(c); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (c *Component) unlinkParent(parent *Component) {
	idx, ok := c.parentIndex[parent.slug]
	if !ok || c.parents[idx] != parent {
		return
	}
	c.parents = slices.Delete(c.parents, idx, idx+1)
	delete(c.parentIndex, parent.slug)
	for slug, i := range c.parentIndex {
		if i > idx {
			c.parentIndex[slug] = i - 1
		}
	}
}

// relinkParent points the link to from at to, keeping its position
func (c *Component) relinkParent(from, to *Component) {
	if idx, ok := c.parentIndex[from.slug]; ok && c.parents[idx] == from {
		c.parents[idx] = to
	}
}

// IsValidSlug reports whether the slug is unique under the kind's slug
// policy. The result is memoised; the first call records the slug as seen.
func (c *Component) IsValidSlug() bool {
	if c.registry == nil {
		return c.slug != ""
	}
	c.registry.mu.Lock()
	defer c.registry.mu.Unlock()
	return c.isValidSlugLocked()
}

func (c *Component) isValidSlugLocked() bool {
	if c.validSlug != nil {
		return *c.validSlug
	}

	r := c.registry
	policy := c.kind.SlugPolicy()
	kindName := c.kind.Name()

	var valid bool
	switch {
	case policy.Shared():
		r.existsLocked(c.slug, kindName, "")
		valid = true
	case policy.Within() != "":
		hint := ""
		if anc := c.ancestorOfKind(policy.Within()); anc != nil {
			hint = anc.slug
		}
		valid = !r.existsLocked(c.slug, kindName, hint)
	default:
		valid = !r.existsLocked(c.slug, kindName, "")
	}

	c.validSlug = &valid
	return valid
}

func (c *Component) ancestorOfKind(kind string) *Component {
	for p := c.firstParent(); p != nil; p = p.firstParent() {
		if p.kind.Name() == kind {
			return p
		}
	}
	return nil
}

func (c *Component) firstParent() *Component {
	if len(c.parents) == 0 {
		return nil
	}
	return c.parents[0]
}

// Path returns the dotted slug path from the root, following first parents
func (c *Component) Path() string {
	unlock := c.rlockTree()
	defer unlock()
	return c.pathLocked()
}

func (c *Component) pathLocked() string {
	var parts []string
	for n := c; n != nil; n = n.firstParent() {
		parts = append(parts, n.slug)
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

// KindPath returns the dotted kind path from the root, following first parents
func (c *Component) KindPath() string {
	unlock := c.rlockTree()
	defer unlock()

	var parts []string
	for n := c; n != nil; n = n.firstParent() {
		parts = append(parts, n.kind.Name())
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

// Children returns the children of one kind, or of all kinds in position
// order when kindFilter is empty or "*".
func (c *Component) Children(kindFilter string) []*Component {
	unlock := c.rlockTree()
	defer unlock()
	return c.childrenLocked(kindFilter)
}

func (c *Component) childrenLocked(kindFilter string) []*Component {
	if kindFilter != "" && kindFilter != "*" {
		return slices.Clone(c.children[kindFilter])
	}
	var all []*Component
	for _, kind := range c.childKinds {
		all = append(all, c.children[kind]...)
	}
	sortByPosition(all)
	return all
}

func (c *Component) childBySlug(kind, slug string) *Component {
	for _, ch := range c.children[kind] {
		if ch.slug == slug {
			return ch
		}
	}
	return nil
}

// Parent returns the index-th immediate parent, then follows first parents
// for the remaining depth-1 generations. It returns nil when the chain is
// shorter than depth.
func (c *Component) Parent(index, depth int) *Component {
	unlock := c.rlockTree()
	defer unlock()

	if depth < 1 || index < 0 || index >= len(c.parents) {
		return nil
	}
	p := c.parents[index]
	for i := 1; i < depth && p != nil; i++ {
		p = p.firstParent()
	}
	return p
}

// Parents returns all parents in link order
func (c *Component) Parents() []*Component {
	unlock := c.rlockTree()
	defer unlock()
	return slices.Clone(c.parents)
}

// String returns kind:path
func (c *Component) String() string {
	return fmt.Sprintf("%s:%s", c.kind.Name(), c.Path())
}

func (c *Component) lockTree() func() {
	if r := c.registry; r != nil {
		r.mu.Lock()
		return r.mu.Unlock
	}
	return func() {}
}

func (c *Component) rlockTree() func() {
	if r := c.registry; r != nil {
		r.mu.RLock()
		return r.mu.RUnlock
	}
	return func() {}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
