// Package model defines the core entities of a toolpath project: curves,
// shapes, regions, tools, operations, and the registry that owns them.
package model

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// idEntropy is a process-wide monotonic entropy source so IDs generated
// within the same millisecond still sort strictly after one another.
var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

func newULID() ulid.ULID {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy)
}

// ID is an opaque, 128-bit, lexicographically-sortable, monotonic-within-
// process identifier. It is never reused once issued.
type ID struct {
	value ulid.ULID
}

// NewID returns a fresh ID, strictly greater than any ID previously issued
// by this process within measurement resolution.
func NewID() ID {
	return ID{value: newULID()}
}

// String renders the ID in its canonical Crockford base32 form.
func (id ID) String() string {
	return id.value.String()
}

// Compare returns -1, 0, or 1 according to the IDs' sort order.
func (id ID) Compare(other ID) int {
	return id.value.Compare(other.value)
}

// IsZero reports whether id is the zero value (never issued by NewID).
func (id ID) IsZero() bool {
	return id.value.Compare(ulid.ULID{}) == 0
}

func (id ID) MarshalText() ([]byte, error) {
	return id.value.MarshalText()
}

func (id *ID) UnmarshalText(text []byte) error {
	return id.value.UnmarshalText(text)
}

// ShapeID identifies a Shape in a ShapeRegistry.
type ShapeID struct{ ID }

// CurveID identifies a Curve in a ShapeRegistry.
type CurveID struct{ ID }

// RegionID identifies a Region in a ShapeRegistry.
type RegionID struct{ ID }

// NewShapeID, NewCurveID, and NewRegionID mint fresh, distinctly-typed IDs.
func NewShapeID() ShapeID   { return ShapeID{NewID()} }
func NewCurveID() CurveID   { return CurveID{NewID()} }
func NewRegionID() RegionID { return RegionID{NewID()} }
