// Package source defines the listing and content collaborators the browser
// navigates, and the value types they return.
package source

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// Source lists directories and fetches file contents for one browsable root.
type Source interface {
	// Identity names the root, e.g. "owner/repository" or a local directory.
	Identity() string
	// List returns the listing at path. A path that does not exist yields an
	// error matching ErrListingNotFound.
	List(ctx context.Context, path []string) (Listing, error)
	// Fetch returns the text content of a file entry.
	Fetch(ctx context.Context, entry Entry) (string, error)
}

// Provider resolves an identity to a Source. Used when the browser is
// re-pointed at another repository.
type Provider interface {
	Open(ctx context.Context, identity string) (Source, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, identity string) (Source, error)

func (f ProviderFunc) Open(ctx context.Context, identity string) (Source, error) {
	return f(ctx, identity)
}

// Identity is an owner/repository pair on a hosting service.
type Identity struct {
	Owner      string
	Repository string
}

func (i Identity) String() string {
	return fmt.Sprintf("%s/%s", i.Owner, i.Repository)
}

// IsZero reports whether no identity is set.
func (i Identity) IsZero() bool {
	return i.Owner == "" && i.Repository == ""
}

// ParseIdentity parses "owner/repository". Surrounding whitespace is ignored.
func ParseIdentity(s string) (Identity, error) {
	if strings.TrimSpace(s) == "" {
		return Identity{}, errors.New("empty repository name")
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Identity{}, errors.Errorf("invalid repository name: %s", s)
	}

	owner := strings.TrimSpace(parts[0])
	repo := strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return Identity{}, errors.Errorf("invalid repository name: %s", s)
	}

	return Identity{Owner: owner, Repository: repo}, nil
}

// JoinPath renders path segments as a slash-separated relative path.
func JoinPath(path []string) string {
	return strings.Join(path, "/")
}

// SplitPath is the inverse of JoinPath; empty segments are dropped.
func SplitPath(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// HumanSize formats a byte count with a binary unit, rounded to an integer.
func HumanSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.0f %s", math.Round(v), sizeUnits[i])
}

// ValidatePatterns checks that every hide pattern is a valid glob.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid hide pattern %q", p)
		}
	}
	return nil
}

// FilterHidden drops entries whose name matches any of patterns. Invalid
// patterns never match.
func FilterHidden(listing Listing, patterns []string) Listing {
	if len(patterns) == 0 || listing.IsEmpty() {
		return listing
	}

	kept := make([]Entry, 0, len(listing.Entries))
	for _, e := range listing.Entries {
		if matchesAny(e.Name, patterns) {
			continue
		}
		kept = append(kept, e)
	}
	return Listing{Entries: kept}
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
