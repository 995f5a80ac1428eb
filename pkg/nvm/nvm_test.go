package nvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory(8)
	assert.Equal(t, uint16(8), m.Size())

	buf := make([]uint16, 2)
	require.NoError(t, m.Read(0, buf))
	assert.Equal(t, []uint16{ErasedWord, ErasedWord}, buf)

	require.NoError(t, m.Write(6, []uint16{1, 2}))
	require.NoError(t, m.Read(6, buf))
	assert.Equal(t, []uint16{1, 2}, buf)

	assert.ErrorIs(t, m.Write(7, []uint16{1, 2}), ErrOutOfRange)
	assert.ErrorIs(t, m.Read(9, buf[:0]), ErrOutOfRange)

	words := m.Words()
	words[6] = 99
	require.NoError(t, m.Read(6, buf))
	assert.Equal(t, uint16(1), buf[0], "Words must return a copy")

	m.Erase()
	require.NoError(t, m.Read(6, buf))
	assert.Equal(t, []uint16{ErasedWord, ErasedWord}, buf)
}

func TestLayoutOffsets(t *testing.T) {
	l, err := NewLayout(0,
		Field{Name: "sanity", Words: 1},
		Field{Name: "bonded", Words: 1},
		Field{Name: "address", Words: 4},
		Field{Name: "diversifier", Words: 1},
		Field{Name: "irk", Words: 8},
	)
	require.NoError(t, err)

	tests := map[string]uint16{"sanity": 0, "bonded": 1, "address": 2, "diversifier": 6, "irk": 7}
	for name, want := range tests {
		got, err := l.Offset(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	assert.Equal(t, uint16(15), l.End())
	assert.Equal(t, uint16(15), l.Words())
	assert.Len(t, l.Fields(), 5)

	_, err = l.Offset("missing")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.NoError(t, l.Fits(15))
	assert.ErrorIs(t, l.Fits(14), ErrLayoutOverflow)
}

func TestLayoutValidation(t *testing.T) {
	_, err := NewLayout(0, Field{Name: "a", Words: 1}, Field{Name: "a", Words: 2})
	assert.ErrorIs(t, err, ErrDuplicateField)

	_, err = NewLayout(0, Field{Name: "a", Words: 0})
	assert.ErrorIs(t, err, ErrEmptyField)

	_, err = NewLayout(0xFFF0, Field{Name: "a", Words: 0x20})
	assert.ErrorIs(t, err, ErrLayoutOverflow)
}

func TestLayoutReadWrite(t *testing.T) {
	m := NewMemory(16)
	l, err := NewLayout(2, Field{Name: "flag", Words: 1}, Field{Name: "key", Words: 3})
	require.NoError(t, err)

	require.NoError(t, l.Write(m, "key", []uint16{7, 8, 9}))
	got := make([]uint16, 3)
	require.NoError(t, l.Read(m, "key", got))
	assert.Equal(t, []uint16{7, 8, 9}, got)

	raw := make([]uint16, 3)
	require.NoError(t, m.Read(3, raw))
	assert.Equal(t, []uint16{7, 8, 9}, raw)

	assert.ErrorIs(t, l.Write(m, "key", []uint16{1}), ErrFieldSize)
	assert.ErrorIs(t, l.Read(m, "nope", got), ErrUnknownField)
}

func TestAllocator(t *testing.T) {
	m := NewMemory(40)
	a := NewAllocator(m, 15)

	gap, err := a.Reserve("gap", 21)
	require.NoError(t, err)
	assert.Equal(t, uint16(15), gap.Offset())

	ht, err := a.Reserve("thermometer", 1)
	require.NoError(t, err)
	assert.Equal(t, uint16(36), ht.Offset())
	assert.Equal(t, uint16(37), a.Next())

	_, err = a.Reserve("big", 4)
	assert.ErrorIs(t, err, ErrExhausted)
	_, err = a.Reserve("none", 0)
	assert.ErrorIs(t, err, ErrEmptyField)

	require.NoError(t, ht.Write(0, []uint16{0x0001}))
	assert.ErrorIs(t, ht.Write(1, []uint16{0}), ErrOutOfRange)

	buf := make([]uint16, 1)
	require.NoError(t, m.Read(36, buf))
	assert.Equal(t, uint16(1), buf[0])

	regions := a.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, "gap", regions[0].Name())
	assert.Equal(t, uint16(21), regions[0].Words())
}
