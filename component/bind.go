package component

import (
	"slices"

	"github.com/felixarntz/wpdlib/errors"
)

// bindJournal records what a bind changed so a failed bind can be undone.
type bindJournal struct {
	bound []*Component
	seen  []seenRecord
}

type seenRecord struct {
	kind string
	key  seenKey
}

// stage links child below the detached component c. Staged children
// are checked and validated once the root of their tree reaches a registry.
func (c *Component) stage(child *Component) (*Component, error) {
	if child == nil {
		return nil, errors.New(errors.CodeNotAComponent, "", "the object is not a component")
	}
	if child.registry != nil {
		return nil, errors.Newf(errors.CodeForeignComponent, "",
			"the component %s is registered and cannot be staged below the detached component %s",
			child.slug, c.slug)
	}

	kindName := child.kind.Name()
	bucket := c.children[kindName]
	if slices.Contains(bucket, child) {
		return child, nil
	}
	if existing := c.childBySlug(kindName, child.slug); existing != nil {
		return nil, errors.Newf(errors.CodeDuplicateSlug, "",
			"the component %s of kind %s is already staged below %s", child.slug, kindName, c.slug)
	}

	if _, ok := child.parentIndex[c.slug]; !ok {
		if len(child.parents) > 0 && !child.kind.SupportsMultiParents() {
			return nil, errors.Newf(errors.CodeMultiParent, "",
				"the component %s of kind %s already has a parent and does not support multiple parents",
				child.slug, kindName)
		}
		child.parentIndex[c.slug] = len(child.parents)
		child.parents = append(child.parents, c)
	}

	if bucket == nil {
		c.childKinds = append(c.childKinds, kindName)
	}
	c.children[kindName] = insertOrdered(bucket, child)
	return child, nil
}

// bindLocked runs fn with a fresh journal. If fn fails, every component it
// bound is detached again and every slug it recorded is forgotten. It
// returns the components bound by a successful fn.
func (r *Registry) bindLocked(fn func(j *bindJournal) error) ([]*Component, error) {
	j := &bindJournal{}
	r.journal = j
	err := fn(j)
	r.journal = nil
	if err == nil {
		return j.bound, nil
	}

	for _, c := range j.bound {
		c.registry = nil
		c.validSlug = nil
	}
	for _, s := range j.seen {
		delete(r.seen[s.kind], s.key)
	}
	return nil, err
}

// adoptLocked checks child against the hierarchy below parent, binds it to r,
// validates it, checks its slug and then adopts its staged children.
func (r *Registry) adoptLocked(parent, child *Component, j *bindJournal) error {
	kindName := child.kind.Name()
	if child.registry != nil && child.registry != r {
		return errors.Newf(errors.CodeForeignComponent, r.scope,
			"the component %s belongs to another registry", child.slug)
	}
	if !slices.Contains(r.childKinds[parent.kind.Name()], kindName) {
		return errors.Newf(errors.CodeInvalidChild, r.scope,
			"the component %s of kind %s is not a valid child for the component %s", child.slug, kindName, parent.slug)
	}

	if child.registry == nil {
		child.registry = r
		j.bound = append(j.bound, child)
	}
	if _, err := child.validateLocked(parent); err != nil {
		return err
	}
	if !child.isValidSlugLocked() {
		return errors.Newf(errors.CodeDuplicateSlug, r.scope,
			"the component %s of kind %s is already registered", child.slug, kindName)
	}
	return r.adoptStagedLocked(child, j)
}

// adoptStagedLocked adopts every child of parent that is not bound yet
func (r *Registry) adoptStagedLocked(parent *Component, j *bindJournal) error {
	for _, kind := range parent.childKinds {
		for _, child := range parent.children[kind] {
			if child.registry == r {
				continue
			}
			if err := r.adoptLocked(parent, child, j); err != nil {
				return err
			}
		}
	}
	return nil
}
