package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"main.go", "go"},
		{"README.MD", "md"},
		{"archive.tar.gz", "gz"},
		{"Makefile", ""},
		{".gitignore", "gitignore"},
		{"name.", ""},
		{"lib.RS", "rs"},
	}

	for _, tt := range tests {
		if got := ExtensionOf(tt.name); got != tt.want {
			t.Fatalf("ExtensionOf(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewListingPartitionsDirectoriesFirst(t *testing.T) {
	listing := NewListing([]Entry{
		{Name: "b.go", Kind: KindFile},
		{Name: "src", Kind: KindDirectory},
		{Name: "a.go", Kind: KindFile},
		{Name: "docs", Kind: KindDirectory},
	})

	var names []string
	for _, e := range listing.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"src", "docs", "b.go", "a.go"}, names)
}

func TestNewListingDropsDuplicateNames(t *testing.T) {
	listing := NewListing([]Entry{
		{Name: "x", Kind: KindFile, Size: 1},
		{Name: "x", Kind: KindDirectory},
		{Name: "y", Kind: KindFile},
	})

	require.Equal(t, 2, listing.Len())
	x, ok := listing.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, KindFile, x.Kind)
	assert.EqualValues(t, 1, x.Size)
}

func TestNewListingEmpty(t *testing.T) {
	assert.True(t, NewListing(nil).IsEmpty())
}

func TestListingReadme(t *testing.T) {
	listing := NewListing([]Entry{
		{Name: "readme.md", Kind: KindDirectory},
		{Name: "src", Kind: KindDirectory},
		{Name: "Readme.md", Kind: KindFile},
		{Name: "README.md", Kind: KindFile},
	})

	readme, ok := listing.Readme()
	require.True(t, ok)
	assert.Equal(t, "Readme.md", readme.Name)

	_, ok = NewListing([]Entry{{Name: "readme.txt", Kind: KindFile}}).Readme()
	assert.False(t, ok)
}

func TestListingAt(t *testing.T) {
	listing := NewListing([]Entry{{Name: "a", Kind: KindFile}})
	_, ok := listing.At(1)
	assert.False(t, ok)
	_, ok = listing.At(-1)
	assert.False(t, ok)
	e, ok := listing.At(0)
	assert.True(t, ok)
	assert.Equal(t, "a", e.Name)
}
