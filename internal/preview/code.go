package preview

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/kk-code-lab/rview/internal/textutil"
)

// TokenClass is a coarse grouping of chroma token types.
type TokenClass int

const (
	ClassPlain TokenClass = iota
	ClassKeyword
	ClassName
	ClassString
	ClassNumber
	ClassOperator
	ClassPunctuation
	ClassComment
	ClassGeneric
	ClassLiteral
	ClassError
)

func (c TokenClass) String() string {
	switch c {
	case ClassKeyword:
		return "keyword"
	case ClassName:
		return "name"
	case ClassString:
		return "string"
	case ClassNumber:
		return "number"
	case ClassOperator:
		return "operator"
	case ClassPunctuation:
		return "punctuation"
	case ClassComment:
		return "comment"
	case ClassGeneric:
		return "generic"
	case ClassLiteral:
		return "literal"
	case ClassError:
		return "error"
	}
	return "plain"
}

// ClassOf maps a chroma token type to its class.
func ClassOf(tt chroma.TokenType) TokenClass {
	switch {
	case tt == chroma.Error:
		return ClassError
	case tt.InCategory(chroma.Keyword):
		return ClassKeyword
	case tt.InCategory(chroma.Name):
		return ClassName
	case tt.InSubCategory(chroma.LiteralString):
		return ClassString
	case tt.InSubCategory(chroma.LiteralNumber):
		return ClassNumber
	case tt.InCategory(chroma.Literal):
		return ClassLiteral
	case tt.InCategory(chroma.Operator):
		return ClassOperator
	case tt.InCategory(chroma.Punctuation):
		return ClassPunctuation
	case tt.InCategory(chroma.Comment):
		return ClassComment
	case tt.InCategory(chroma.Generic):
		return ClassGeneric
	}
	return ClassPlain
}

// CodeToken is one lexed run of text within a line.
type CodeToken struct {
	Text  string
	Type  chroma.TokenType
	Class TokenClass
}

// CodeLine is a numbered source line.
type CodeLine struct {
	Number int
	Tokens []CodeToken
}

// Text returns the line without styling.
func (l CodeLine) Text() string {
	var b strings.Builder
	for _, tok := range l.Tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// CodeView is highlighted (or plain) source text with line numbers from 1.
type CodeView struct {
	Language    string
	Highlighted bool
	Lines       []CodeLine
}

// highlight tokenises content with the lexer registered for language. Content
// without a matching lexer comes back as plain numbered lines.
func highlight(content, language string) *CodeView {
	view := &CodeView{Language: language}
	if content == "" {
		return view
	}

	content = textutil.ExpandTabs(content, textutil.DefaultTabWidth)

	lexer := lookupLexer(language)
	if lexer == nil {
		view.Lines = plainLines(content)
		return view
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, content)
	if err != nil {
		view.Lines = plainLines(content)
		return view
	}

	split := chroma.SplitTokensIntoLines(it.Tokens())
	view.Lines = make([]CodeLine, 0, len(split))
	for i, tokens := range split {
		line := CodeLine{Number: i + 1}
		for _, tok := range tokens {
			text := strings.TrimRight(tok.Value, "\r\n")
			if text == "" {
				continue
			}
			line.Tokens = append(line.Tokens, CodeToken{Text: text, Type: tok.Type, Class: ClassOf(tok.Type)})
		}
		view.Lines = append(view.Lines, line)
	}
	view.Highlighted = true
	return view
}

func lookupLexer(language string) chroma.Lexer {
	if language == "" {
		return nil
	}
	return lexers.Get(language)
}

func plainLines(content string) []CodeLine {
	content = strings.TrimSuffix(content, "\n")
	raw := strings.Split(content, "\n")
	lines := make([]CodeLine, len(raw))
	for i, text := range raw {
		lines[i] = CodeLine{Number: i + 1}
		text = strings.TrimSuffix(text, "\r")
		if text != "" {
			lines[i].Tokens = []CodeToken{{Text: text, Type: chroma.Text, Class: ClassPlain}}
		}
	}
	return lines
}

// Segments renders the view with a right-aligned line number gutter.
func (v *CodeView) Segments() [][]Segment {
	if v == nil || len(v.Lines) == 0 {
		return nil
	}
	width := len(fmt.Sprint(len(v.Lines)))
	out := make([][]Segment, len(v.Lines))
	for i, line := range v.Lines {
		segs := make([]Segment, 0, len(line.Tokens)+1)
		segs = append(segs, Segment{Text: fmt.Sprintf("%*d  ", width, line.Number), Style: StyleLineNumber})
		for _, tok := range line.Tokens {
			if v.Highlighted {
				segs = append(segs, Segment{Text: tok.Text, Style: StyleToken, Token: tok.Type})
			} else {
				segs = append(segs, Segment{Text: tok.Text, Style: StylePlain})
			}
		}
		out[i] = segs
	}
	return out
}
