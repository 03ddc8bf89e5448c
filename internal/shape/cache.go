package shape

import "sync"

// Cache deduplicates shapes keyed by (parent, name, attrs) and interns the
// process-wide root/empty shape (spec §3: "A process-wide ShapeCache
// deduplicates shapes... and interns the root/empty shape"). It is
// append-only for the process lifetime (spec §5): lookup never mutates an
// existing entry, only adds new ones.
type Cache struct {
	mu      sync.Mutex
	nextID  uint64
	root    *Shape
}

// NewCache creates a cache with its root (empty) shape already interned.
func NewCache() *Cache {
	c := &Cache{}
	c.root = &Shape{
		id:          c.allocID(),
		byName:      map[string]int{},
		transitions: map[transitionKey]*Shape{},
	}
	return c
}

func (c *Cache) allocID() uint64 {
	c.nextID++
	return c.nextID
}

// Root returns the shared empty shape every new object starts from.
func (c *Cache) Root() *Shape { return c.root }

// Transition returns the child shape obtained by adding name with kind and
// attrs to parent, following an existing transition edge if one already
// matches, or creating and registering a new child shape otherwise (spec
// §4.4: "consult the current shape's transition map...if missing, ask the
// ShapeCache for the child shape (creating and registering it once)").
// Adding a property never mutates parent.
func (c *Cache) Transition(parent *Shape, name string, kind DescriptorKind, attrs Attributes) *Shape {
	key := transitionKey{name: name, attrs: attrs, kind: kind}

	parent.mu.Lock()
	if existing, ok := parent.transitions[key]; ok {
		parent.mu.Unlock()
		return existing
	}
	parent.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check under the cache lock: another goroutine may have raced us
	// to create the same transition between the two locks above.
	parent.mu.Lock()
	if existing, ok := parent.transitions[key]; ok {
		parent.mu.Unlock()
		return existing
	}
	parent.mu.Unlock()

	slot := len(parent.props)
	props := make([]PropertyDescriptor, slot+1)
	copy(props, parent.props)
	props[slot] = PropertyDescriptor{Name: name, Slot: slot, Kind: kind, Attrs: attrs}

	byName := make(map[string]int, slot+1)
	for k, v := range parent.byName {
		byName[k] = v
	}
	byName[name] = slot

	child := &Shape{
		id:          c.allocID(),
		parent:      parent,
		props:       props,
		byName:      byName,
		transitions: map[transitionKey]*Shape{},
	}

	parent.mu.Lock()
	parent.transitions[key] = child
	parent.mu.Unlock()

	return child
}

// WithReconfigured returns a shape identical to s except that name's
// attributes are replaced (its kind is kept) in place conceptually: since shapes are
// immutable, this builds a fresh shape chain rooted the same way but with
// the new descriptor, and deprecates s so caches keyed on it invalidate.
// Used by [[DefineOwnProperty]] when weakening writable true->false on an
// existing own property (spec §3 PropertyDescriptor fixed-point rule).
func (c *Cache) WithReconfigured(s *Shape, name string, attrs Attributes) *Shape {
	s.Deprecate()
	slot := s.SlotOf(name)
	if slot < 0 {
		return s
	}
	props := make([]PropertyDescriptor, len(s.props))
	copy(props, s.props)
	props[slot].Attrs = attrs

	byName := make(map[string]int, len(s.byName))
	for k, v := range s.byName {
		byName[k] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return &Shape{
		id:          c.allocID(),
		parent:      s.parent,
		props:       props,
		byName:      byName,
		transitions: map[transitionKey]*Shape{},
	}
}
