package nvm

import (
	"errors"
	"fmt"
)

// ErasedWord is the value of a word that has never been written.
const ErasedWord uint16 = 0xFFFF

// Store errors.
var (
	ErrOutOfRange = errors.New("nvm: access out of range")
)

// Store is word-addressed persistent memory.
type Store interface {
	// Read fills dst with the words starting at offset.
	Read(offset uint16, dst []uint16) error

	// Write stores src starting at offset.
	Write(offset uint16, src []uint16) error

	// Size returns the capacity in words.
	Size() uint16
}

// Memory is a Store held in RAM. A new Memory is fully erased.
type Memory struct {
	words []uint16
}

// NewMemory creates an erased Memory of size words.
func NewMemory(size uint16) *Memory {
	m := &Memory{words: make([]uint16, size)}
	m.Erase()
	return m
}

// NewMemoryFrom creates a Memory holding a copy of words.
func NewMemoryFrom(words []uint16) *Memory {
	m := &Memory{words: make([]uint16, len(words))}
	copy(m.words, words)
	return m
}

// Read fills dst from offset.
func (m *Memory) Read(offset uint16, dst []uint16) error {
	if err := checkRange(offset, len(dst), len(m.words)); err != nil {
		return err
	}
	copy(dst, m.words[offset:])
	return nil
}

// Write stores src at offset.
func (m *Memory) Write(offset uint16, src []uint16) error {
	if err := checkRange(offset, len(src), len(m.words)); err != nil {
		return err
	}
	copy(m.words[offset:], src)
	return nil
}

// Size returns the capacity in words.
func (m *Memory) Size() uint16 {
	return uint16(len(m.words))
}

// Erase sets every word to ErasedWord.
func (m *Memory) Erase() {
	for i := range m.words {
		m.words[i] = ErasedWord
	}
}

// Words returns a copy of the contents.
func (m *Memory) Words() []uint16 {
	out := make([]uint16, len(m.words))
	copy(out, m.words)
	return out
}

func checkRange(offset uint16, n, size int) error {
	if int(offset)+n > size {
		return fmt.Errorf("%w: offset %d length %d size %d", ErrOutOfRange, offset, n, size)
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Store = (*Memory)(nil)
