// Package mempool implements the bounded arena allocator of spec §4.7
// MemoryPool, grounded on original_source's core/memory/src/memory_pool.cpp
// (block-based best-fit allocation with splitting and merging) reimplemented
// idiomatically: raw C pointers become offsets into a single owned []byte
// buffer (no pack example needs raw pointer arithmetic, and an offset-based
// Handle is the natural Go analogue), and the mutex-guarded block list
// becomes a doubly linked list of *block nodes under one sync.Mutex.
package mempool

import "sync"

// Handle identifies a live allocation by offset and size; callers read/
// write through Bytes rather than holding a raw pointer.
type Handle struct {
	offset int
	size   int
}

type block struct {
	offset int
	size   int
	free   bool
	next   *block
	prev   *block
}

// Pool is a single-arena best-fit allocator (spec §4.7: "allocate /
// allocate_aligned / deallocate / grow / shrink / defragment / reset").
type Pool struct {
	mu   sync.Mutex
	buf  []byte
	head *block

	totalSize       int
	usedSize        int
	allocationCount int
	deallocationCount int

	minBlockSize int
	maxBlockSize int
	autoDefragment bool
}

const defaultInitialSize = 1024 * 1024

// New creates a pool with the given initial arena size (spec default 1MB,
// matching the teacher's MemoryPool(size_t initial_size = 1024*1024)).
func New(initialSize int) *Pool {
	if initialSize <= 0 {
		initialSize = defaultInitialSize
	}
	p := &Pool{
		buf:          make([]byte, initialSize),
		totalSize:    initialSize,
		minBlockSize: 16,
		maxBlockSize: initialSize,
	}
	p.head = &block{offset: 0, size: initialSize, free: true}
	return p
}

// Allocate reserves size bytes via best-fit search, splitting the chosen
// free block when the remainder is worth keeping (spec: "best-fit with
// splitting/merging"). ok is false when no block is large enough.
func (p *Pool) Allocate(size int) (Handle, bool) {
	return p.AllocateAligned(size, 1)
}

// AllocateAligned reserves size bytes whose offset is a multiple of
// alignment, by over-searching for a free block that fits the aligned
// request (spec: allocate_aligned).
func (p *Pool) AllocateAligned(size int, alignment int) (Handle, bool) {
	if size <= 0 {
		return Handle{}, false
	}
	if alignment < 1 {
		alignment = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	b := p.findBestFit(size, alignment)
	if b == nil {
		return Handle{}, false
	}
	padding := alignDelta(b.offset, alignment)
	needed := size + padding
	p.splitBlock(b, needed)
	b.free = false

	p.usedSize += b.size
	p.allocationCount++
	return Handle{offset: b.offset + padding, size: size}, true
}

func alignDelta(offset, alignment int) int {
	if alignment <= 1 {
		return 0
	}
	rem := offset % alignment
	if rem == 0 {
		return 0
	}
	return alignment - rem
}

// findBestFit scans the block list for the smallest free block that can
// satisfy size once alignment padding is accounted for.
func (p *Pool) findBestFit(size int, alignment int) *block {
	var best *block
	for b := p.head; b != nil; b = b.next {
		if !b.free {
			continue
		}
		padding := alignDelta(b.offset, alignment)
		if b.size < size+padding {
			continue
		}
		if best == nil || b.size < best.size {
			best = b
		}
	}
	return best
}

// splitBlock carves `needed` bytes off the front of b, inserting a new
// free block for the remainder when it is still worth tracking (spec:
// "Does not shrink by merging 1-byte slivers" -- slivers below
// minBlockSize are left attached instead).
func (p *Pool) splitBlock(b *block, needed int) {
	remainder := b.size - needed
	if remainder < p.minBlockSize {
		return
	}
	newBlock := &block{
		offset: b.offset + needed,
		size:   remainder,
		free:   true,
		next:   b.next,
		prev:   b,
	}
	if b.next != nil {
		b.next.prev = newBlock
	}
	b.next = newBlock
	b.size = needed
}

// Deallocate frees the region described by h, coalescing with adjacent
// free neighbours (spec: merge_adjacent_blocks) and optionally running a
// full defragmentation pass when auto-defragment is enabled.
func (p *Pool) Deallocate(h Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b := p.findBlockContaining(h.offset)
	if b == nil || b.free {
		return
	}
	b.free = true
	p.usedSize -= b.size
	p.deallocationCount++
	p.mergeAdjacent(b)

	if p.autoDefragment && p.shouldDefragment() {
		p.defragmentLocked()
	}
}

func (p *Pool) findBlockContaining(offset int) *block {
	for b := p.head; b != nil; b = b.next {
		if offset >= b.offset && offset < b.offset+b.size {
			return b
		}
	}
	return nil
}

func (p *Pool) mergeAdjacent(b *block) {
	if b.next != nil && b.next.free {
		b.size += b.next.size
		b.next = b.next.next
		if b.next != nil {
			b.next.prev = b
		}
	}
	if b.prev != nil && b.prev.free {
		prev := b.prev
		prev.size += b.size
		prev.next = b.next
		if b.next != nil {
			b.next.prev = prev
		}
	}
}

// Bytes returns a slice view over a live allocation's storage, capped at
// h.size so that append()ing past it reallocates onto the heap instead of
// silently overwriting a neighbouring allocation's bytes.
func (p *Pool) Bytes(h Handle) []byte {
	end := h.offset + h.size
	return p.buf[h.offset:end:end]
}

// Grow extends the arena by additionalSize bytes (spec: grow): a free tail
// block absorbs the new space, otherwise one new free block is appended at
// the end.
func (p *Pool) Grow(additionalSize int) {
	if additionalSize <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	newBuf := make([]byte, len(p.buf)+additionalSize)
	copy(newBuf, p.buf)
	p.buf = newBuf

	tail := p.head
	for tail.next != nil {
		tail = tail.next
	}
	if tail.free {
		tail.size += additionalSize
	} else {
		tail.next = &block{offset: p.totalSize, size: additionalSize, free: true, prev: tail}
	}
	p.totalSize += additionalSize
	p.maxBlockSize = p.totalSize
}

// Shrink releases trailing free capacity, truncating the arena back to
// its last used byte (spec: shrink).
func (p *Pool) Shrink() {
	p.mu.Lock()
	defer p.mu.Unlock()

	tail := p.head
	for tail.next != nil {
		tail = tail.next
	}
	if !tail.free || tail == p.head {
		return
	}
	p.totalSize -= tail.size
	p.buf = p.buf[:p.totalSize]
	if tail.prev != nil {
		tail.prev.next = nil
	}
}

// Defragment merges every adjacent pair of free blocks in one pass (spec:
// defragment / merge_free_blocks).
func (p *Pool) Defragment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.defragmentLocked()
}

func (p *Pool) defragmentLocked() {
	for b := p.head; b != nil && b.next != nil; {
		if b.free && b.next.free {
			p.mergeAdjacent(b)
			continue
		}
		b = b.next
	}
}

func (p *Pool) shouldDefragment() bool {
	free, frag := 0, 0
	for b := p.head; b != nil; b = b.next {
		if b.free {
			free++
			if b.next != nil && b.next.free {
				frag++
			}
		}
	}
	return free > 0 && frag*2 >= free
}

// SetAutoDefragment toggles defragmentation after every deallocate.
func (p *Pool) SetAutoDefragment(enable bool) { p.autoDefragment = enable }

// SetBlockSizeLimits configures the min/max tracked block sizes (spec:
// set_block_size_limits).
func (p *Pool) SetBlockSizeLimits(minSize, maxSize int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minBlockSize = minSize
	p.maxBlockSize = maxSize
}

// Reset discards all allocations, returning the pool to one free block
// spanning the whole arena (spec: reset).
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.head = &block{offset: 0, size: p.totalSize, free: true}
	p.usedSize = 0
	p.allocationCount = 0
	p.deallocationCount = 0
}

func (p *Pool) TotalSize() int { return p.totalSize }
func (p *Pool) UsedSize() int  { p.mu.Lock(); defer p.mu.Unlock(); return p.usedSize }
func (p *Pool) FreeSize() int  { return p.TotalSize() - p.UsedSize() }
func (p *Pool) AllocationCount() int { p.mu.Lock(); defer p.mu.Unlock(); return p.allocationCount }
func (p *Pool) DeallocationCount() int { p.mu.Lock(); defer p.mu.Unlock(); return p.deallocationCount }

// FragmentationRatio reports the fraction of free bytes held in blocks
// smaller than minBlockSize, a proxy for the C++ implementation's
// get_fragmentation_ratio.
func (p *Pool) FragmentationRatio() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	freeBytes, smallFreeBytes := 0, 0
	for b := p.head; b != nil; b = b.next {
		if !b.free {
			continue
		}
		freeBytes += b.size
		if b.size < p.minBlockSize {
			smallFreeBytes += b.size
		}
	}
	if freeBytes == 0 {
		return 0
	}
	return float64(smallFreeBytes) / float64(freeBytes)
}

// Validate walks the block list checking for overlaps and the invariant
// that blocks are offset-ordered and contiguous (spec: validate_pool).
func (p *Pool) Validate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	offset := 0
	for b := p.head; b != nil; b = b.next {
		if b.offset != offset {
			return false
		}
		offset += b.size
	}
	return offset == p.totalSize
}
