package component

import (
	"cmp"
	"math"
	"slices"
)

// insertOrdered appends c and restores position order. Components without a
// position sort after positioned ones; ties keep insertion order.
func insertOrdered(list []*Component, c *Component) []*Component {
	list = append(list, c)
	sortByPosition(list)
	return list
}

func sortByPosition(list []*Component) {
	slices.SortStableFunc(list, func(a, b *Component) int {
		return cmp.Compare(positionKey(a), positionKey(b))
	})
}

func positionKey(c *Component) float64 {
	if pos, ok := c.Position(); ok {
		return pos
	}
	return math.Inf(1)
}
