package quiz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a quiz reference does not resolve to a file.
var ErrNotFound = errors.New("quiz document not found")

// Source resolves a quiz reference to the raw document bytes.
type Source interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FSSource serves quiz files from the notes directory, mirroring how the site
// fetches them relative to its base path.
type FSSource struct{ base string }

func NewFSSource(base string) (*FSSource, error) {
	if base == "" {
		base = "./notes"
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	return &FSSource{base: abs}, nil
}

func (s *FSSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, ErrNotFound
	}
	dst := filepath.Join(s.base, filepath.Clean("/"+ref))
	if !strings.HasPrefix(dst, s.base) {
		return nil, ErrNotFound
	}
	raw, err := os.ReadFile(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}
