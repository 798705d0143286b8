package fs

import (
	"strings"
	"testing"

	"gitlab.com/tozd/go/errors"
)

func TestIsTextFileDetectsUTF16LE(t *testing.T) {
	content := []byte{0xFF, 0xFE, 0x41, 0x00, 0x0D, 0x00, 0x0A, 0x00}
	if !IsTextFile("config.ini", content) {
		t.Fatalf("expected UTF-16 LE content to be treated as text")
	}
}

func TestNormalizeTextContentUTF16LE(t *testing.T) {
	content := []byte{0xFF, 0xFE, 0x41, 0x00, 0x0D, 0x00, 0x0A, 0x00}
	got := NormalizeTextContent(content)
	want := "A\r\n"
	if got != want {
		t.Fatalf("NormalizeTextContent returned %q, want %q", got, want)
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		want    string
		binary  bool
	}{
		{name: "plain utf8", file: "main.go", content: []byte("package main\n"), want: "package main\n"},
		{name: "utf8 bom stripped", file: "notes.txt", content: []byte("\xEF\xBB\xBFhello"), want: "hello"},
		{name: "empty", file: "empty.txt", content: nil, want: ""},
		{name: "null bytes", file: "blob", content: make([]byte, 64), binary: true},
		{name: "binary extension", file: "logo.PNG", content: []byte("text anyway"), binary: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.file, tt.content)
			if tt.binary {
				if !errors.Is(err, ErrBinaryContent) {
					t.Fatalf("expected ErrBinaryContent, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("DecodeText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadHeadRespectsLimit(t *testing.T) {
	data, err := ReadHead(strings.NewReader("abcdef"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "abc" {
		t.Fatalf("ReadHead = %q, want %q", data, "abc")
	}
}

func TestNormalizeTextContentUTF16BE(t *testing.T) {
	content := []byte{0xFE, 0xFF, 0x00, 0x68, 0x00, 0x69}
	if got := NormalizeTextContent(content); got != "hi" {
		t.Fatalf("NormalizeTextContent returned %q, want %q", got, "hi")
	}
}

func TestIsTextFileLatin1(t *testing.T) {
	// Invalid UTF-8 but mostly printable.
	if !IsTextFile("legacy.txt", []byte("caf\xe9 cr\xe8me br\xfbl\xe9e\n")) {
		t.Fatalf("expected latin-1 text to be treated as text")
	}
	if IsTextFile("noise", []byte{0x01, 0x02, 0x03, 0xff, 0x04, 0x05}) {
		t.Fatalf("expected control-heavy bytes to be binary")
	}
}
