package model

import "errors"

// ItemKind distinguishes the two content kinds. Snippet IDs and document IDs
// are separate sequences and never interchangeable.
type ItemKind string

const (
	KindSnippet  ItemKind = "snippet"
	KindDocument ItemKind = "document"
)

// Valid reports whether k is a known content kind.
func (k ItemKind) Valid() bool {
	return k == KindSnippet || k == KindDocument
}

// Visibility values for snippets. Documents are always public.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

var (
	// ErrItemNotFound is returned when a content item cannot be found or is
	// not visible to the viewer. The two cases are deliberately
	// indistinguishable so private content does not leak through error shape.
	ErrItemNotFound = errors.New("item not found")

	// ErrNotItemOwner is returned when a mutation is attempted by a non-owner
	ErrNotItemOwner = errors.New("not the owner of this item")

	// ErrInvalidKind is returned for unknown content kinds
	ErrInvalidKind = errors.New("invalid content kind")
)
