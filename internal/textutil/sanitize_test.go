package textutil

import (
	"strings"
	"testing"
)

func TestSanitizeTerminalTextKeepsPlainText(t *testing.T) {
	for _, input := range []string{"", "main.go", "docs/README.md", "日本語.txt", "é"} {
		if got := SanitizeTerminalText(input); got != input {
			t.Fatalf("SanitizeTerminalText(%q) = %q, want unchanged", input, got)
		}
	}
}

func TestSanitizeTerminalTextControls(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"bad\x1b[31mname", "bad?[31mname"},
		{"a\tb\nc\rd", "a b c d"},
		{"bell\x07", "bell?"},
		{"del\x7f", "del?"},
	}
	for _, tt := range tests {
		if got := SanitizeTerminalText(tt.input); got != tt.want {
			t.Errorf("SanitizeTerminalText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeTerminalTextLabelsFormattingRunes(t *testing.T) {
	input := "user" + string(rune(0x202E)) + "txt.exe" + string(rune(0x200B))
	got := SanitizeTerminalText(input)

	if strings.ContainsRune(got, 0x202E) || strings.ContainsRune(got, 0x200B) {
		t.Fatalf("formatting runes left in %q", got)
	}
	if want := "user⟪RLO⟫txt.exe⟪ZWSP⟫"; got != want {
		t.Fatalf("SanitizeTerminalText = %q, want %q", got, want)
	}
}

func TestSanitizeTerminalTextByteOrderMark(t *testing.T) {
	if got := SanitizeTerminalText("\ufeffpackage"); got != "⟪BOM⟫package" {
		t.Fatalf("unexpected output %q", got)
	}
}
