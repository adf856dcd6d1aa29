package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearArena_GrowthAndReset(t *testing.T) {
	a := NewLinearArena(64)

	p1, ok := a.Allocate(60, 1, 1)
	require.True(t, ok)
	p2, ok := a.Allocate(60, 1, 1)
	require.True(t, ok)
	p3, ok := a.Allocate(60, 1, 1)
	require.True(t, ok)

	assert.GreaterOrEqual(t, a.MemoryUsage(), 180)
	assert.NotSame(t, &p1[0], &p2[0])
	assert.NotSame(t, &p2[0], &p3[0])

	a.Reset()
	assert.Equal(t, 0, a.MemoryUsage())

	p4, ok := a.Allocate(1, 1, 1)
	require.True(t, ok)
	assert.Same(t, &p1[0], &p4[0])
}

func TestLinearArena_ZeroedOnAllocate(t *testing.T) {
	a := NewLinearArena(128)
	region, ok := a.Allocate(16, 1, 1)
	require.True(t, ok)
	for _, b := range region {
		assert.Equal(t, byte(0), b)
	}
	region[0] = 0xFD
	a.Reset()
	region2, ok := a.Allocate(16, 1, 1)
	require.True(t, ok)
	assert.Equal(t, byte(0), region2[0])
}

func TestLinearArena_Alignment(t *testing.T) {
	a := NewLinearArena(256)
	_, ok := a.Allocate(1, 1, 1)
	require.True(t, ok)
	region, ok := a.Allocate(8, 1, 16)
	require.True(t, ok)
	assert.Equal(t, 0, int(uintptr(unsafe.Pointer(&region[0])))%16)
}

func TestLinearArena_OverflowFailsSoftly(t *testing.T) {
	a := NewLinearArena(64)
	_, ok := a.Allocate(1<<40, 1<<40, 1)
	assert.False(t, ok)
}

func TestLinearArena_MisalignedPanics(t *testing.T) {
	a := NewLinearArena(64)
	assert.Panics(t, func() {
		a.Allocate(4, 1, 3)
	})
}
