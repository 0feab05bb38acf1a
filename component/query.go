package component

// Wildcard matches every slug or kind at one path level.
const Wildcard = "*"

func (r *Registry) queryLocked(path, kindPath string) []*Component {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil
	}
	kinds := splitPath(kindPath)
	kindAt := func(level int) string {
		if level >= len(kinds) || kinds[level] == Wildcard {
			return ""
		}
		return kinds[level]
	}

	var current []*Component
	for _, kind := range r.topLevel {
		if filter := kindAt(0); filter != "" && filter != kind {
			continue
		}
		for _, c := range r.order[kind] {
			if matchSegment(segments[0], c.slug) {
				current = append(current, c)
			}
		}
	}

	for level := 1; level < len(segments) && len(current) > 0; level++ {
		var next []*Component
		for _, parent := range current {
			for _, child := range parent.childrenLocked(kindAt(level)) {
				if matchSegment(segments[level], child.slug) {
					next = append(next, child)
				}
			}
		}
		current = next
	}

	return dedupe(current)
}

func matchSegment(segment, slug string) bool {
	return segment == Wildcard || segment == slug
}

func dedupe(list []*Component) []*Component {
	if len(list) < 2 {
		return list
	}
	seen := make(map[*Component]struct{}, len(list))
	out := list[:0]
	for _, c := range list {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
