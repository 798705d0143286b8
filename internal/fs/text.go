// Package fs reads file content for preview and decides whether it is text.
package fs

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	sniffLen = 4096
	// Invalid UTF-8 samples with more control bytes than this are binary.
	maxControlPercent = 30

	// MaxContentBytes caps how much of a single file is fetched for preview.
	MaxContentBytes int64 = 1 << 20
)

// ErrBinaryContent is returned by DecodeText when the bytes do not look like text.
var ErrBinaryContent = errors.New("binary content")

var binaryExtensions = extensionSet(`
	7z apk avi bin bmp bz2 class dll doc docx dylib exe flac gif gz ico iso jar
	jpeg jpg mkv mov mp3 mp4 ogg otf pdf png psd so tar tgz ttf wasm wav webp
	woff woff2 xz zip`)

var byteOrderMarks = [][]byte{
	{0xEF, 0xBB, 0xBF},
	{0xFF, 0xFE},
	{0xFE, 0xFF},
}

func extensionSet(list string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, ext := range strings.Fields(list) {
		set["."+ext] = struct{}{}
	}
	return set
}

// DecodeText turns fetched bytes into a UTF-8 string. The name is only used to
// short-circuit well-known binary extensions.
func DecodeText(name string, content []byte) (string, error) {
	if !IsTextFile(name, content) {
		return "", errors.Errorf("%w: %s", ErrBinaryContent, name)
	}
	return NormalizeTextContent(content), nil
}

// IsTextFile sniffs the head of content. BOM-marked content is text, NUL bytes
// mean binary, and invalid UTF-8 is judged by its share of control bytes.
func IsTextFile(name string, content []byte) bool {
	if _, ok := binaryExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return false
	}

	sample := content[:min(len(content), sniffLen)]
	switch {
	case len(sample) == 0, hasBOM(sample):
		return true
	case bytes.IndexByte(sample, 0x00) >= 0:
		return false
	case utf8.Valid(sample):
		return true
	}

	control := 0
	for _, b := range sample {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != 0x1B || b == 0x7F {
			control++
		}
	}
	return control*100/len(sample) < maxControlPercent
}

func hasBOM(b []byte) bool {
	for _, bom := range byteOrderMarks {
		if bytes.HasPrefix(b, bom) {
			return true
		}
	}
	return false
}

// NormalizeTextContent strips a UTF-8 BOM and decodes BOM-marked UTF-16.
// Anything else is returned unchanged.
func NormalizeTextContent(content []byte) string {
	if !hasBOM(content) {
		return string(content)
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), content)
	if err != nil {
		return string(content)
	}
	return string(out)
}

// ReadHead returns up to limit bytes from r.
func ReadHead(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}

// ReadFileHead returns up to limit bytes from the beginning of path.
func ReadFileHead(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadHead(f, limit)
}
