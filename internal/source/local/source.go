// Package local browses a directory tree on disk with the same interface as
// the remote sources.
package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rview/internal/fs"
	"github.com/kk-code-lab/rview/internal/source"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/unicode/norm"
)

// Source lists a local directory snapshot rooted at Root.
type Source struct {
	root string
}

var _ source.Source = (*Source)(nil)

// NewSource resolves root to an absolute directory.
func NewSource(root string) (*Source, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Errorf("opening %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%q is not a directory", root)
	}
	return &Source{root: abs}, nil
}

// Identity returns the absolute root directory.
func (s *Source) Identity() string {
	return s.root
}

// Root returns the absolute root directory.
func (s *Source) Root() string {
	return s.root
}

// Dir maps path segments to a directory on disk.
func (s *Source) Dir(path []string) (string, error) {
	for _, seg := range path {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return "", errors.Errorf("invalid path segment %q", seg)
		}
	}
	return filepath.Join(append([]string{s.root}, path...)...), nil
}

// List reads the directory at path. A directory that does not exist yields an
// empty listing.
func (s *Source) List(ctx context.Context, path []string) (source.Listing, error) {
	logger := zerolog.Ctx(ctx)

	dir, err := s.Dir(path)
	if err != nil {
		return source.Listing{}, source.ListingError(path, err)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug().Str("dir", dir).Msg("directory missing")
			return source.Listing{}, source.NotFoundError(path)
		}
		return source.Listing{}, source.ListingError(path, err)
	}

	entries := make([]source.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return source.Listing{}, source.ListingError(path, err)
		}

		name := de.Name()
		fullPath := filepath.Join(dir, name)
		if fs.IsSystemEntry(fullPath) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info.
			continue
		}

		isDir := info.IsDir()
		if info.Mode()&os.ModeSymlink != 0 {
			if target, err := os.Stat(fullPath); err == nil {
				isDir = target.IsDir()
			}
		}

		entry := source.Entry{Name: norm.NFC.String(name)}
		if isDir {
			entry.Kind = source.KindDirectory
		} else {
			entry.Kind = source.KindFile
			entry.Size = info.Size()
			entry.ContentRef = fullPath
		}
		entries = append(entries, entry)
	}

	return source.NewListing(entries), nil
}

// Fetch reads the head of a file entry and decodes it as text.
func (s *Source) Fetch(ctx context.Context, entry source.Entry) (string, error) {
	if entry.IsDir() || entry.ContentRef == "" {
		return "", source.ContentError(entry.Name, errors.New("entry is not a file"))
	}
	if !s.contains(entry.ContentRef) {
		return "", source.ContentError(entry.ContentRef, errors.New("path escapes root"))
	}

	data, err := fs.ReadFileHead(entry.ContentRef, fs.MaxContentBytes)
	if err != nil {
		return "", source.ContentError(entry.ContentRef, err)
	}
	text, err := fs.DecodeText(entry.Name, data)
	if err != nil {
		return "", source.ContentError(entry.ContentRef, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", entry.ContentRef).Int("bytes", len(data)).Msg("read file")
	return text, nil
}

func (s *Source) contains(p string) bool {
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
