package mempool

import "testing"

func TestAllocateWritesAreIsolated(t *testing.T) {
	p := New(1024)
	a, ok := p.Allocate(16)
	if !ok {
		t.Fatal("Allocate(16) failed on a fresh 1024-byte pool")
	}
	b, ok := p.Allocate(16)
	if !ok {
		t.Fatal("Allocate(16) failed on a fresh 1024-byte pool")
	}
	copy(p.Bytes(a), []byte("aaaaaaaaaaaaaaaa"))
	copy(p.Bytes(b), []byte("bbbbbbbbbbbbbbbb"))
	if string(p.Bytes(a)) == string(p.Bytes(b)) {
		t.Error("two live allocations should not alias the same bytes")
	}
}

func TestAllocateFailsWhenArenaExhausted(t *testing.T) {
	p := New(64)
	if _, ok := p.Allocate(128); ok {
		t.Error("Allocate should fail when requested size exceeds the arena")
	}
}

func TestDeallocateMergesAdjacentFreeBlocks(t *testing.T) {
	p := New(256)
	a, _ := p.Allocate(64)
	b, _ := p.Allocate(64)
	p.Deallocate(a)
	p.Deallocate(b)
	// Allocating something bigger than either individual block, but that
	// fits only if the freed blocks merged with each other and with the
	// trailing free space, proves mergeAdjacent ran.
	if _, ok := p.Allocate(256); !ok {
		t.Error("expected the freed blocks to merge into one full-arena block")
	}
	if !p.Validate() {
		t.Error("pool should remain internally consistent after deallocate")
	}
}

func TestResetReclaimsAllAllocations(t *testing.T) {
	p := New(128)
	if _, ok := p.Allocate(100); !ok {
		t.Fatal("Allocate(100) should succeed on a fresh 128-byte pool")
	}
	p.Reset()
	if p.UsedSize() != 0 {
		t.Errorf("UsedSize() after Reset() = %d, want 0", p.UsedSize())
	}
	if _, ok := p.Allocate(128); !ok {
		t.Error("pool should accept a full-arena allocation after Reset()")
	}
}

func TestGrowExtendsCapacity(t *testing.T) {
	p := New(64)
	if _, ok := p.Allocate(100); ok {
		t.Fatal("Allocate(100) should fail before Grow on a 64-byte pool")
	}
	p.Grow(64)
	if p.TotalSize() != 128 {
		t.Errorf("TotalSize() after Grow(64) = %d, want 128", p.TotalSize())
	}
	if _, ok := p.Allocate(100); !ok {
		t.Error("Allocate(100) should succeed after Grow(64)")
	}
}

func TestAllocateAlignedRespectsAlignment(t *testing.T) {
	p := New(256)
	// Force the next free region to start at a non-aligned offset.
	p.Allocate(3)
	h, ok := p.AllocateAligned(16, 8)
	if !ok {
		t.Fatal("AllocateAligned(16, 8) failed")
	}
	if h.offset%8 != 0 {
		t.Errorf("offset %d is not 8-byte aligned", h.offset)
	}
}

func TestBytesCapsCapacitySoAppendDoesNotAliasNeighbour(t *testing.T) {
	p := New(256)
	a, _ := p.Allocate(8)
	b, _ := p.Allocate(8)
	copy(p.Bytes(b), []byte("NEIGHBOR"))

	buf := p.Bytes(a)[:0]
	buf = append(buf, []byte("overflowwwwwwwwwww")...)

	if string(p.Bytes(b)) != "NEIGHBOR" {
		t.Error("appending past a handle's size corrupted the neighbouring allocation")
	}
}

func TestFragmentationRatioIsZeroOnFreshPool(t *testing.T) {
	p := New(1024)
	if got := p.FragmentationRatio(); got != 0 {
		t.Errorf("FragmentationRatio() on an untouched pool = %v, want 0", got)
	}
}
