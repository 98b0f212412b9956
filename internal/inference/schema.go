// Package inference implements the Inferencer (§4.C): probabilistic
// per-field schema discovery plus dynamic-key detection, adapted from the
// teacher's probabilistic table/column classification
// (services/unifiedmodel/internal/classifier, internal/detection) to
// per-document-path field discovery.
package inference

import (
	"github.com/redbco/docsynth/internal/frequency"
	"github.com/redbco/docsynth/internal/keypattern"
	"github.com/redbco/docsynth/internal/semtype"
)

// DynamicKeyMetadata is §3's DynamicKeyMetadata: the statistical profile
// of an object whose keys are runtime identifiers rather than a fixed,
// named schema.
type DynamicKeyMetadata struct {
	Enabled           bool
	Pattern           keypattern.Pattern
	CustomPattern     string
	Confidence        float64
	ConfidenceLevel   keypattern.ConfidenceLevel
	CountDistribution frequency.Distribution
	CountStats        frequency.Stats
	DocumentsAnalyzed int
	UniqueKeysObserved int
	ExampleKeys       []string
}

// DynamicKeyValueSchema is §3's DynamicKeyValueSchema: the distribution of
// value shapes observed across all keys of a dynamic-key object, used to
// decide a representative generation schema for the map's values.
type DynamicKeyValueSchema struct {
	Types            []string
	TypeProbabilities []float64
	Schemas          []*InferredSchemaField
	IsUniformType    bool
	DominantType     string
}

// InferredSchemaField is §3's InferredSchemaField. Nested object fields
// recurse through Fields; Dynamic is set instead of Fields when the object
// was classified as a dynamic-key map.
type InferredSchemaField struct {
	Name        string
	Path        string
	Count       int
	Types       []string // observed BSON/JSON types at this path, most frequent first
	Probability float64  // count at this path / parent count
	Fields      map[string]*InferredSchemaField
	FieldOrder  []string // insertion order of Fields, for deterministic output

	LengthDistribution *frequency.Distribution // set for array-typed fields

	// EnumDistribution holds the counts of every observed value of a
	// dynamic map's string values when all of them are short (<100
	// chars); it is not reduced to a single representative value. nil
	// for everything else.
	EnumDistribution *frequency.Distribution

	// SemanticType is the dominant semantic type (Email/URL/UUID/Phone/
	// PersonName/IPv4/IPv6) recognized across this field's sampled string
	// values, or semtype.None if no single type was dominant — see §4.E
	// item 1 ("map observed semantic type ... to a format").
	SemanticType semtype.Type

	Dynamic      *DynamicKeyMetadata
	DynamicValue *DynamicKeyValueSchema
}
