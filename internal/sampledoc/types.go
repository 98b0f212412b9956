// Package sampledoc implements the sampling-and-normalization data model
// from §3: SampleDocument, TypeHint, NormalizedDocument, and the
// binary-type mapping table that the spec treats as a known function
// table (§1 non-goals).
package sampledoc

import (
	"time"

	"github.com/redbco/docsynth/internal/value"
)

// SampleDocument is a document drawn from the source collection, annotated
// with sampling provenance. Its lifecycle: created by a sampler, consumed
// by Normalize, then discarded — nothing downstream holds a SampleDocument
// past normalization.
type SampleDocument struct {
	CollectionName string
	SampledAt      time.Time
	SampleIndex    int
	Raw            map[string]interface{}
}

// TypeHint records a field's original database type alongside the
// JSON-Schema type/format it was normalized to, so binary-type identity
// (ObjectId, timestamp, high-precision decimal, binary blob) survives
// through synthesis as generation guidance instead of being erased by
// normalization.
type TypeHint struct {
	OriginalType     string
	JSONSchemaType   string
	JSONSchemaFormat string
}

// NormalizedDocument is structurally identical to its SampleDocument but
// with binary-only types rewritten to JSON-compatible primitives, and a
// path→TypeHint map recording what was rewritten.
type NormalizedDocument struct {
	CollectionName string
	SampledAt      time.Time
	SampleIndex    int
	Value          value.Value
	TypeHints      map[string]TypeHint
}
