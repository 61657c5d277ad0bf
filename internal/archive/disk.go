package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vango-dev/motion/internal/errors"
)

// DiskStore stores recordings as files in a directory.
type DiskStore struct {
	dir     string
	maxSize int64
}

// NewDiskStore creates a DiskStore rooted at dir.
//
// Parameters:
//   - dir: Directory to store recordings in
//   - maxSize: Maximum recording size in bytes (0 = no limit)
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("E150").Wrap(err)
	}
	return &DiskStore{dir: dir, maxSize: maxSize}, nil
}

// Put implements Store.
func (s *DiskStore) Put(_ context.Context, name string, r io.Reader) (Object, error) {
	key := newKey(name)
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return Object{}, errors.New("E150").Wrap(err)
	}
	defer f.Close()

	var reader io.Reader = r
	if s.maxSize > 0 {
		reader = io.LimitReader(r, s.maxSize+1) // +1 to detect overflow
	}
	written, err := io.Copy(f, reader)
	if err != nil {
		os.Remove(path)
		return Object{}, errors.New("E150").Wrap(err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		os.Remove(path)
		return Object{}, errors.New("E150").WithDetailf("recording exceeds %d bytes", s.maxSize)
	}

	return Object{Key: key, Name: nameFromKey(key), Size: written, Modified: time.Now()}, nil
}

// Get implements Store.
func (s *DiskStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return nil, errors.New("E151").WithDetailf("invalid key %q", key)
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return nil, errors.New("E151").WithDetailf("key %q", key)
	}
	if err != nil {
		return nil, errors.New("E150").Wrap(err)
	}
	return f, nil
}

// List implements Store. Objects are sorted newest first.
func (s *DiskStore) List(_ context.Context) ([]Object, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.New("E150").Wrap(err)
	}
	var objects []Object
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{
			Key:      entry.Name(),
			Name:     nameFromKey(entry.Name()),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Modified.After(objects[j].Modified) })
	return objects, nil
}

// Cleanup implements Store.
func (s *DiskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	objects, err := s.List(ctx)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-maxAge)
	for _, obj := range objects {
		if obj.Modified.Before(cutoff) {
			os.Remove(filepath.Join(s.dir, obj.Key))
		}
	}
	return nil
}
