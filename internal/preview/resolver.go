// Package preview turns fetched file content into renderable output: source
// code highlighted per language, or markdown documents.
package preview

import (
	"context"

	"github.com/kk-code-lab/rview/internal/source"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Rendered is the output of Render. Exactly one of Code and Document is set,
// matching Mode.
type Rendered struct {
	Mode     Mode
	Code     *CodeView
	Document *Document
}

// Lines returns styled lines for display.
func (r *Rendered) Lines() [][]Segment {
	if r == nil {
		return nil
	}
	switch r.Mode {
	case ModeDocument:
		return r.Document.Lines()
	case ModeCode:
		return r.Code.Segments()
	}
	return nil
}

// Resolver fetches and renders selected files.
type Resolver struct{}

// NewResolver returns a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Fetch retrieves the raw text of entry from src.
func (r *Resolver) Fetch(ctx context.Context, src source.Source, entry source.Entry) (string, error) {
	if entry.Kind != source.KindFile {
		return "", source.ContentError(entry.Name, errors.New("not a file"))
	}
	content, err := src.Fetch(ctx, entry)
	if err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Debug().Str("name", entry.Name).Int("bytes", len(content)).Msg("content fetched")
	return content, nil
}

// Render formats content according to mode. language is the lexer name for
// code and is ignored for documents. An unknown language yields plain lines.
func (r *Resolver) Render(content string, mode Mode, language string) *Rendered {
	switch mode {
	case ModeDocument:
		return &Rendered{Mode: mode, Document: ParseDocument(content)}
	case ModeCode:
		return &Rendered{Mode: mode, Code: highlight(content, language)}
	}
	return &Rendered{Mode: ModeCode, Code: highlight(content, "")}
}

// Load fetches entry and renders it by its extension.
func (r *Resolver) Load(ctx context.Context, src source.Source, entry source.Entry) (string, *Rendered, error) {
	content, err := r.Fetch(ctx, src, entry)
	if err != nil {
		return "", nil, err
	}
	ext := entry.Extension()
	return content, r.Render(content, Classify(ext), ext), nil
}
