package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// ImageVersion is the current version of the image file format.
const ImageVersion = 1

// ErrImageVersion is returned when an image was written by an unknown format version.
var ErrImageVersion = errors.New("persistence: unsupported image version")

var (
	imageEncMode cbor.EncMode
	imageDecMode cbor.DecMode
)

func init() {
	var err error
	imageEncMode, err = cbor.EncOptions{
		Sort: cbor.SortCanonical,
		Time: cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create image CBOR encoder mode: %v", err))
	}
	imageDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create image CBOR decoder mode: %v", err))
	}
}

// Image is a snapshot of the non-volatile memory.
type Image struct {
	// Version is the image file format version.
	Version int `cbor:"1,keyasint"`

	// SavedAt is when the image was last saved.
	SavedAt time.Time `cbor:"2,keyasint"`

	// Words is the full store content.
	Words []uint16 `cbor:"3,keyasint"`
}

// ImageStore reads and writes an Image file.
type ImageStore struct {
	mu   sync.Mutex
	path string
}

// NewImageStore creates an image store for path.
func NewImageStore(path string) *ImageStore {
	return &ImageStore{path: path}
}

// Path returns the image file path.
func (s *ImageStore) Path() string {
	return s.path
}

// Save writes img to disk, replacing the previous file atomically.
func (s *ImageStore) Save(img *Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	img.Version = ImageVersion
	img.SavedAt = time.Now()

	data, err := imageEncMode.Marshal(img)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the image from disk.
// Returns nil, nil if the file doesn't exist (blank memory).
func (s *ImageStore) Load() (*Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	img := &Image{}
	if err := imageDecMode.Unmarshal(data, img); err != nil {
		return nil, err
	}
	if img.Version != ImageVersion {
		return nil, fmt.Errorf("%w: %d", ErrImageVersion, img.Version)
	}
	return img, nil
}

// Clear removes the image file.
func (s *ImageStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
