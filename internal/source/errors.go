package source

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ErrorKind classifies fetch failures so the UI can pick an empty-state message.
type ErrorKind string

const (
	KindListingFetch    ErrorKind = "LISTING_FETCH"
	KindListingNotFound ErrorKind = "LISTING_NOT_FOUND"
	KindContentFetch    ErrorKind = "CONTENT_FETCH"
)

// FetchError wraps a failure talking to a listing or content collaborator.
type FetchError struct {
	Kind ErrorKind
	// Ref is the path or content reference the fetch was for.
	Ref string
	Err error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Ref, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Ref)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches any FetchError of the same kind, so the sentinels below work with
// errors.Is regardless of Ref.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrListingFetch    = &FetchError{Kind: KindListingFetch}
	ErrListingNotFound = &FetchError{Kind: KindListingNotFound}
	ErrContentFetch    = &FetchError{Kind: KindContentFetch}
)

// ListingError builds a listing fetch failure for path.
func ListingError(path []string, err error) error {
	return errors.WithStack(&FetchError{Kind: KindListingFetch, Ref: JoinPath(path), Err: err})
}

// NotFoundError builds a not-found failure for path.
func NotFoundError(path []string) error {
	return errors.WithStack(&FetchError{Kind: KindListingNotFound, Ref: JoinPath(path)})
}

// ContentError builds a content fetch failure for ref.
func ContentError(ref string, err error) error {
	return errors.WithStack(&FetchError{Kind: KindContentFetch, Ref: ref, Err: err})
}

// KindOf returns the kind of the first FetchError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}
