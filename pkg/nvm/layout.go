package nvm

import (
	"errors"
	"fmt"
	"math"
)

// Layout errors.
var (
	ErrDuplicateField = errors.New("nvm: duplicate field")
	ErrEmptyField     = errors.New("nvm: field has no words")
	ErrUnknownField   = errors.New("nvm: unknown field")
	ErrFieldSize      = errors.New("nvm: buffer does not match field size")
	ErrLayoutOverflow = errors.New("nvm: layout exceeds store")
)

// Field is one named value in a Layout.
type Field struct {
	Name  string
	Words uint16
}

// Layout is an ordered list of fields placed back to back from a base offset.
type Layout struct {
	base    uint16
	end     uint16
	fields  []Field
	offsets map[string]uint16
}

// NewLayout derives field offsets from base. Names must be unique and every
// field must occupy at least one word.
func NewLayout(base uint16, fields ...Field) (*Layout, error) {
	l := &Layout{
		base:    base,
		fields:  append([]Field(nil), fields...),
		offsets: make(map[string]uint16, len(fields)),
	}

	next := uint32(base)
	for _, f := range fields {
		if f.Words == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyField, f.Name)
		}
		if _, dup := l.offsets[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}
		if next+uint32(f.Words) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: %s", ErrLayoutOverflow, f.Name)
		}
		l.offsets[f.Name] = uint16(next)
		next += uint32(f.Words)
	}
	l.end = uint16(next)
	return l, nil
}

// Offset returns the absolute offset of the named field.
func (l *Layout) Offset(name string) (uint16, error) {
	off, ok := l.offsets[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return off, nil
}

// Field returns the named field.
func (l *Layout) Field(name string) (Field, error) {
	for _, f := range l.fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// Fields returns the fields in order.
func (l *Layout) Fields() []Field {
	return append([]Field(nil), l.fields...)
}

// Base returns the offset of the first field.
func (l *Layout) Base() uint16 { return l.base }

// End returns the offset just past the last field.
func (l *Layout) End() uint16 { return l.end }

// Words returns the total size of the layout.
func (l *Layout) Words() uint16 { return l.end - l.base }

// Fits returns an error unless the layout lies inside a store of size words.
func (l *Layout) Fits(size uint16) error {
	if l.end > size {
		return fmt.Errorf("%w: needs %d words, store has %d", ErrLayoutOverflow, l.end, size)
	}
	return nil
}

// Read fills dst with the named field. dst must match the field size.
func (l *Layout) Read(s Store, name string, dst []uint16) error {
	off, err := l.check(name, len(dst))
	if err != nil {
		return err
	}
	return s.Read(off, dst)
}

// Write stores src in the named field. src must match the field size.
func (l *Layout) Write(s Store, name string, src []uint16) error {
	off, err := l.check(name, len(src))
	if err != nil {
		return err
	}
	return s.Write(off, src)
}

func (l *Layout) check(name string, n int) (uint16, error) {
	f, err := l.Field(name)
	if err != nil {
		return 0, err
	}
	if int(f.Words) != n {
		return 0, fmt.Errorf("%w: %s has %d words, got %d", ErrFieldSize, name, f.Words, n)
	}
	return l.offsets[name], nil
}
