package arena

import "fmt"

// The host kernel's buddy/slab allocators thread their free lists as
// offset-linked lists physically written into the shared byte buffer
// (writeU32/addToFreeList in threads/arena/buddy.go) because that buffer
// must also be visible to a WASM worker across the JS boundary. Nothing
// here crosses a process or VM boundary, so the free lists below are kept
// as ordinary Go slices of lightweight records instead of hand-rolled
// pointers-in-bytes -- same first-fit/coalesce/split algorithm, idiomatic
// bookkeeping.
const (
	alignOfFreeBlock       = 8
	alignOfAllocationHdr   = 8
	minFreeListBlockSize   = 16
	nominalAllocHeaderSize = 16
)

type flFreeBlock struct {
	offset int
	size   int
}

type flBuffer struct {
	buf        []byte
	freeBlocks []flFreeBlock // kept sorted ascending by offset
}

// Allocation is the handle returned by FreeListArena.Allocate. Bytes is the
// zeroed, user-visible region; the remaining fields are the allocator's own
// bookkeeping, equivalent to the AllocationHeader the source stores
// immediately before the returned pointer.
type Allocation struct {
	Bytes      []byte
	bufIdx     int
	userOffset int
	blockAddr  int // free_block_address: where the containing block started
	footprint  int // bytes reclaimed on Deallocate (includes any absorbed remainder)
}

// FreeListArena is a segregated block allocator built from one or more
// buffers, each tracking its own sorted, coalescing free-block list.
type FreeListArena struct {
	buffers []*flBuffer
}

// NewFreeListArena creates an arena with one buffer of the given usable
// capacity.
func NewFreeListArena(capacity int) *FreeListArena {
	if capacity <= 0 {
		panic("arena: FreeListArena capacity must be > 0")
	}
	return &FreeListArena{
		buffers: []*flBuffer{newFLBuffer(capacity)},
	}
}

func newFLBuffer(capacity int) *flBuffer {
	return &flBuffer{
		buf:        make([]byte, capacity),
		freeBlocks: []flFreeBlock{{offset: 0, size: capacity}},
	}
}

// Allocate reserves count*itemSize bytes aligned to max(alignment,
// align-of-header). Returns (nil, false) on multiplicative overflow, a
// data-dependent failure the caller must handle (§7).
func (a *FreeListArena) Allocate(count, itemSize, alignment int) (*Allocation, bool) {
	if !isPow2(alignment) {
		panic("arena: alignment must be a power of two")
	}
	byteCount, overflowed := mulOverflows(count, itemSize)
	if overflowed {
		return nil, false
	}
	allocSize := alignUp(byteCount, alignOfFreeBlock)
	align := alignment
	if alignOfAllocationHdr > align {
		align = alignOfAllocationHdr
	}

	for bi, buf := range a.buffers {
		if alloc, ok := tryAllocateInBuffer(buf, bi, allocSize, align); ok {
			return alloc, true
		}
	}

	newCap := a.nextBufferCapacity(allocSize)
	nb := newFLBuffer(newCap)
	a.buffers = append(a.buffers, nb)
	alloc, ok := tryAllocateInBuffer(nb, len(a.buffers)-1, allocSize, align)
	if !ok {
		panic("arena: fresh FreeListArena buffer failed to satisfy its own allocation")
	}
	return alloc, true
}

func (a *FreeListArena) nextBufferCapacity(allocSize int) int {
	last := a.buffers[len(a.buffers)-1]
	lastUsable := len(last.buf)
	need := 2*allocSize + nominalAllocHeaderSize
	if need > lastUsable {
		return need
	}
	return lastUsable
}

func tryAllocateInBuffer(buf *flBuffer, bufIdx, allocSize, alignment int) (*Allocation, bool) {
	for i, fb := range buf.freeBlocks {
		userOffset := alignUp(fb.offset+nominalAllocHeaderSize, alignment)
		blockEnd := fb.offset + fb.size
		if userOffset+allocSize > blockEnd {
			continue
		}

		footprint := (userOffset - fb.offset) + allocSize
		remainder := fb.size - footprint

		if remainder >= minFreeListBlockSize {
			buf.freeBlocks[i] = flFreeBlock{offset: fb.offset + footprint, size: remainder}
		} else {
			footprint = fb.size
			buf.freeBlocks = append(buf.freeBlocks[:i], buf.freeBlocks[i+1:]...)
		}

		region := buf.buf[userOffset : userOffset+allocSize]
		zero(region)

		return &Allocation{
			Bytes:      region,
			bufIdx:     bufIdx,
			userOffset: userOffset,
			blockAddr:  fb.offset,
			footprint:  footprint,
		}, true
	}
	return nil, false
}

// Deallocate returns alloc's backing memory to its buffer's free list,
// coalescing maximally with adjacent free blocks.
func (a *FreeListArena) Deallocate(alloc *Allocation) {
	buf := a.buffers[alloc.bufIdx]
	insertAndCoalesce(buf, flFreeBlock{offset: alloc.blockAddr, size: alloc.footprint})
}

func insertAndCoalesce(buf *flBuffer, nb flFreeBlock) {
	insertAt := len(buf.freeBlocks)
	for i, fb := range buf.freeBlocks {
		if fb.offset > nb.offset {
			insertAt = i
			break
		}
	}
	buf.freeBlocks = append(buf.freeBlocks, flFreeBlock{})
	copy(buf.freeBlocks[insertAt+1:], buf.freeBlocks[insertAt:])
	buf.freeBlocks[insertAt] = nb

	// Merge with successor first so the predecessor merge below sees an
	// up-to-date size for the block it's merging into.
	if insertAt+1 < len(buf.freeBlocks) {
		next := buf.freeBlocks[insertAt+1]
		if buf.freeBlocks[insertAt].offset+buf.freeBlocks[insertAt].size == next.offset {
			buf.freeBlocks[insertAt].size += next.size
			buf.freeBlocks = append(buf.freeBlocks[:insertAt+1], buf.freeBlocks[insertAt+2:]...)
		}
	}
	if insertAt > 0 {
		prev := buf.freeBlocks[insertAt-1]
		if prev.offset+prev.size == buf.freeBlocks[insertAt].offset {
			buf.freeBlocks[insertAt-1].size += buf.freeBlocks[insertAt].size
			buf.freeBlocks = append(buf.freeBlocks[:insertAt], buf.freeBlocks[insertAt+1:]...)
		}
	}
}

// Resize grows or shrinks alloc in place where possible, falling back to
// allocate-copy-free otherwise. Returns (nil, false) only when the
// requested new size overflows -- hardening the reference implementation,
// which does not guard this multiplication (§9 Open Questions).
func (a *FreeListArena) Resize(alloc *Allocation, newCount, itemSize, alignment int) (*Allocation, bool) {
	newByteCount, overflowed := mulOverflows(newCount, itemSize)
	if overflowed {
		return nil, false
	}
	if newByteCount == 0 {
		a.Deallocate(alloc)
		return nil, true
	}

	newSize := alignUp(newByteCount, alignOfFreeBlock)
	oldSize := len(alloc.Bytes)

	if newSize == oldSize {
		return alloc, true
	}

	buf := a.buffers[alloc.bufIdx]

	if newSize < oldSize {
		shrinkBy := oldSize - newSize
		if shrinkBy < minFreeListBlockSize {
			return alloc, true
		}
		tailOffset := alloc.userOffset + newSize
		allocEnd := alloc.blockAddr + alloc.footprint
		insertAndCoalesce(buf, flFreeBlock{offset: tailOffset, size: allocEnd - tailOffset})
		alloc.Bytes = buf.buf[alloc.userOffset : alloc.userOffset+newSize]
		alloc.footprint = tailOffset - alloc.blockAddr
		return alloc, true
	}

	need := newSize - oldSize
	successorEnd := alloc.userOffset + oldSize
	for i, fb := range buf.freeBlocks {
		if fb.offset != successorEnd {
			continue
		}
		if fb.size < need {
			break
		}
		if fb.size == need {
			buf.freeBlocks = append(buf.freeBlocks[:i], buf.freeBlocks[i+1:]...)
		} else {
			buf.freeBlocks[i] = flFreeBlock{offset: fb.offset + need, size: fb.size - need}
		}
		region := buf.buf[alloc.userOffset : alloc.userOffset+newSize]
		zero(region[oldSize:])
		alloc.Bytes = region
		alloc.footprint += need
		return alloc, true
	}

	fresh, ok := a.Allocate(newCount, itemSize, alignment)
	if !ok {
		return alloc, false
	}
	copy(fresh.Bytes, alloc.Bytes)
	a.Deallocate(alloc)
	return fresh, true
}

// MemoryUsage returns total bytes currently allocated across all buffers.
func (a *FreeListArena) MemoryUsage() int {
	total := 0
	for _, buf := range a.buffers {
		free := 0
		for _, fb := range buf.freeBlocks {
			free += fb.size
		}
		total += len(buf.buf) - free
	}
	return total
}

// AvailableMemory returns total free bytes across all buffers.
func (a *FreeListArena) AvailableMemory() int {
	total := 0
	for _, buf := range a.buffers {
		for _, fb := range buf.freeBlocks {
			total += fb.size
		}
	}
	return total
}

// Stats mirrors the GetStats()-style diagnostics the host codebase's
// allocators expose (threads/arena/{buddy,slab}.go).
type Stats struct {
	BufferCount int
	Allocated   int
	Free        int
}

func (a *FreeListArena) GetStats() Stats {
	return Stats{
		BufferCount: len(a.buffers),
		Allocated:   a.MemoryUsage(),
		Free:        a.AvailableMemory(),
	}
}

// DebugCheckFullyFree panics (debug-assert, §7) unless the arena is
// currently fully free and every buffer holds exactly one free block
// spanning its whole usable area -- the invariant the spec requires when
// total used memory reaches zero.
func (a *FreeListArena) DebugCheckFullyFree() {
	for i, buf := range a.buffers {
		if len(buf.freeBlocks) != 1 || buf.freeBlocks[0].size != len(buf.buf) {
			panic(fmt.Sprintf("arena: buffer %d is not a single whole free block", i))
		}
	}
}
