package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBuffer_PushOverwrite(t *testing.T) {
	r := New[rune](4)
	require.True(t, r.Push('A'))
	require.True(t, r.Push('B'))
	require.True(t, r.Push('C'))
	require.True(t, r.Push('D'))
	assert.True(t, r.Full())

	r.PushOverwrite('E')

	assert.Equal(t, 4, r.Len())
	got := []rune{r.At(0), r.At(1), r.At(2), r.At(3)}
	assert.Equal(t, []rune{'B', 'C', 'D', 'E'}, got)

	head, ok := r.Peek()
	require.True(t, ok)
	assert.Equal(t, 'B', head)
}

func TestRingBuffer_PopAndPopTail(t *testing.T) {
	r := New[int](3)
	r.Push(1)
	r.Push(2)
	r.Push(3)

	tail, ok := r.PopTail()
	require.True(t, ok)
	assert.Equal(t, 3, tail)

	head, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, head)

	assert.Equal(t, 1, r.Len())
	assert.False(t, r.Empty())
}

func TestRingBuffer_EmptyPopFails(t *testing.T) {
	r := New[int](2)
	_, ok := r.Pop()
	assert.False(t, ok)
	_, ok = r.PopTail()
	assert.False(t, ok)
}

func TestRingBuffer_PushFailsWhenFullWithoutOverwrite(t *testing.T) {
	r := New[int](1)
	require.True(t, r.Push(1))
	assert.False(t, r.Push(2))
	assert.Equal(t, 1, r.At(0))
}
