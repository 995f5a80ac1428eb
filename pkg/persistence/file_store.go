package persistence

import (
	"sync"

	"github.com/htp-ble/htp-go/pkg/nvm"
)

// FileStore is an nvm.Store backed by an image file.
type FileStore struct {
	mu     sync.Mutex
	mem    *nvm.Memory
	images *ImageStore
}

// OpenFileStore loads the image at path into a store of size words. A
// missing file yields an erased store. A shorter image is padded with erased
// words and a longer one is truncated.
func OpenFileStore(path string, size uint16) (*FileStore, error) {
	images := NewImageStore(path)
	img, err := images.Load()
	if err != nil {
		return nil, err
	}

	mem := nvm.NewMemory(size)
	if img != nil {
		words := img.Words
		if len(words) > int(size) {
			words = words[:size]
		}
		if err := mem.Write(0, words); err != nil {
			return nil, err
		}
	}
	return &FileStore{mem: mem, images: images}, nil
}

// Read fills dst from offset.
func (s *FileStore) Read(offset uint16, dst []uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mem.Read(offset, dst)
}

// Write stores src at offset and saves the image.
func (s *FileStore) Write(offset uint16, src []uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.Write(offset, src); err != nil {
		return err
	}
	return s.images.Save(&Image{Words: s.mem.Words()})
}

// Size returns the capacity in words.
func (s *FileStore) Size() uint16 {
	return s.mem.Size()
}

// Erase resets every word and removes the image file.
func (s *FileStore) Erase() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mem.Erase()
	return s.images.Clear()
}

// Compile-time interface satisfaction check.
var _ nvm.Store = (*FileStore)(nil)
