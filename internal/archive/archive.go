// Package archive stores simulation recordings on disk or in S3.
package archive

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"
	"time"

	"github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/headless"
)

const (
	// ContentType is the content type recordings are stored with.
	ContentType = "application/json"

	// DefaultMaxSize is the recording size limit used by the CLI.
	DefaultMaxSize = 64 << 20
)

// Object describes a stored recording.
type Object struct {
	Key      string
	Name     string
	Size     int64
	Modified time.Time
}

// Store persists recordings.
type Store interface {
	// Put stores the contents of r under a new key derived from name.
	Put(ctx context.Context, name string, r io.Reader) (Object, error)

	// Get opens the recording stored under key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns every stored recording.
	List(ctx context.Context) ([]Object, error)

	// Cleanup removes recordings older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// PutRecording encodes rec as JSON and stores it.
func PutRecording(ctx context.Context, s Store, rec *headless.Recording) (Object, error) {
	var buf bytes.Buffer
	if err := rec.WriteJSON(&buf); err != nil {
		return Object{}, errors.New("E150").Wrap(err)
	}
	return s.Put(ctx, rec.Name, &buf)
}

// GetRecording loads and decodes the recording stored under key.
func GetRecording(ctx context.Context, s Store, key string) (*headless.Recording, error) {
	rc, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return headless.ReadRecording(rc)
}

// newKey returns a unique object key for name.
func newKey(name string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return sanitize(name) + "-" + time.Now().UTC().Format("20060102T150405") + "-" + hex.EncodeToString(b) + ".json"
}

// nameFromKey recovers the sanitized recording name from a key.
func nameFromKey(key string) string {
	base := key[strings.LastIndex(key, "/")+1:]
	base = strings.TrimSuffix(base, ".json")
	// name-<timestamp>-<hex>
	for i := 0; i < 2; i++ {
		if j := strings.LastIndex(base, "-"); j >= 0 {
			base = base[:j]
		}
	}
	return base
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '.':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "recording"
	}
	return b.String()
}
