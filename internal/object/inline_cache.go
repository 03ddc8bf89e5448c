package object

import "github.com/ecmago/ecmago/internal/shape"

// InlineCache memoizes the (shape id, slot) pair observed at one property
// access site, per spec §4.4: two entries (primary/secondary), O(1) hit
// path bypassing the shape's name map, collapse to the slow path beyond
// two distinct shapes.
type InlineCache struct {
	name string

	primaryShapeID uint64
	primarySlot    int
	primaryValid   bool

	secondaryShapeID uint64
	secondarySlot    int
	secondaryValid   bool

	hits, misses int
}

func NewInlineCache(name string) *InlineCache {
	return &InlineCache{name: name}
}

// Lookup returns the cached slot for sh, or -1 on a cache miss. A hit on
// an entry whose shape has since been deprecated is treated as a miss
// (spec §4.4: "Cache entries are invalidated when their shape becomes
// deprecated").
func (c *InlineCache) Lookup(sh *shape.Shape) int {
	if c.primaryValid && c.primaryShapeID == sh.ID() && !sh.IsDeprecated() {
		c.hits++
		return c.primarySlot
	}
	if c.secondaryValid && c.secondaryShapeID == sh.ID() && !sh.IsDeprecated() {
		c.hits++
		c.promoteSecondary()
		return c.primarySlot
	}
	c.misses++
	return -1
}

func (c *InlineCache) promoteSecondary() {
	c.primaryShapeID, c.primarySlot = c.secondaryShapeID, c.secondarySlot
	c.secondaryValid = false
}

// Record stores a newly observed (shape, slot) pair, promoting or
// replacing the secondary entry on a miss at a new shape (spec §4.4).
// Beyond two distinct shapes the site is polymorphic and this cache stops
// being useful; callers should stop calling Record once Polymorphic
// reports true, collapsing to the uncached slow path.
func (c *InlineCache) Record(sh *shape.Shape, slot int) {
	if !c.primaryValid {
		c.primaryShapeID, c.primarySlot, c.primaryValid = sh.ID(), slot, true
		return
	}
	if c.primaryShapeID == sh.ID() {
		c.primarySlot = slot
		return
	}
	c.secondaryShapeID, c.secondarySlot, c.secondaryValid = sh.ID(), slot, true
}

// Polymorphic reports whether this site has seen a third distinct shape
// since the last time both entries were filled, signalling the slow path
// should take over permanently for this site.
func (c *InlineCache) Polymorphic(sh *shape.Shape) bool {
	return c.primaryValid && c.secondaryValid &&
		c.primaryShapeID != sh.ID() && c.secondaryShapeID != sh.ID()
}

func (c *InlineCache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
