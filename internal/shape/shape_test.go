package shape

import "testing"

var defaultAttrs = Attributes{Writable: true, Enumerable: true, Configurable: true}

func addProp(c *Cache, parent *Shape, name string) *Shape {
	return c.Transition(parent, name, KindData, defaultAttrs)
}

func TestObjectsWithSameShapeOfPropertiesShareOneShape(t *testing.T) {
	c := NewCache()
	s1 := addProp(c, c.Root(), "x")
	s1 = addProp(c, s1, "y")

	s2 := addProp(c, c.Root(), "x")
	s2 = addProp(c, s2, "y")

	if s1 != s2 {
		t.Error("two objects built with identical property name/order/attrs should share one Shape")
	}
}

func TestDifferentInsertionOrderYieldsDifferentShapes(t *testing.T) {
	c := NewCache()
	xy := addProp(c, addProp(c, c.Root(), "x"), "y")
	yx := addProp(c, addProp(c, c.Root(), "y"), "x")

	if xy == yx {
		t.Error("{x,y} and {y,x} insertion orders should not share a shape")
	}
}

func TestTransitionNeverMutatesParent(t *testing.T) {
	c := NewCache()
	root := c.Root()
	rootProps := root.PropertyCount()

	_ = addProp(c, root, "x")

	if root.PropertyCount() != rootProps {
		t.Error("adding a property via Transition must not mutate the parent shape")
	}
	if root.Has("x") {
		t.Error("parent shape should not gain the child's new property")
	}
}

func TestSlotOfIsStableAcrossRepeatedTransitions(t *testing.T) {
	c := NewCache()
	s := addProp(c, c.Root(), "a")
	s = addProp(c, s, "b")
	s = addProp(c, s, "c")

	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for name, slot := range want {
		if got := s.SlotOf(name); got != slot {
			t.Errorf("SlotOf(%q) = %d, want %d", name, got, slot)
		}
	}
}

func TestTransitionFollowsExistingEdgeRatherThanCreatingANewShape(t *testing.T) {
	c := NewCache()
	base := addProp(c, c.Root(), "shared")

	child1 := addProp(c, base, "only1")
	child2 := addProp(c, base, "only1")

	if child1 != child2 {
		t.Error("requesting the same transition twice should return the cached child, not a new shape")
	}
}

func TestWithReconfiguredDeprecatesOriginalShape(t *testing.T) {
	c := NewCache()
	s := addProp(c, c.Root(), "x")
	if s.IsDeprecated() {
		t.Fatal("freshly created shape should not start deprecated")
	}

	weaker := Attributes{Writable: false, Enumerable: true, Configurable: true}
	next := c.WithReconfigured(s, "x", weaker)

	if !s.IsDeprecated() {
		t.Error("WithReconfigured should deprecate the original shape")
	}
	if next.Descriptor(next.SlotOf("x")).Attrs.Writable {
		t.Error("reconfigured shape should carry the weakened (non-writable) attribute")
	}
}

func TestRootShapeIsSharedAcrossTransitions(t *testing.T) {
	c := NewCache()
	a := addProp(c, c.Root(), "a")
	b := addProp(c, c.Root(), "b")

	if a.Parent() != c.Root() || b.Parent() != c.Root() {
		t.Error("every top-level transition should share the cache's single root shape as parent")
	}
}
