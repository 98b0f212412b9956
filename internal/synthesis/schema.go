// Package synthesis implements the Synthesizer (§4.E): merging an
// inferred schema, a constraints profile, and type hints into a
// GenerationSchema — a first-party JSON-Schema draft-07 struct tree
// carrying the x-gen/x-dynamic-keys/x-array-length-distribution vendor
// extensions, adapted from the teacher's own first-party schema modeling
// in services/unifiedmodel/internal/models/unifiedtypes.go rather than a
// third-party JSON-Schema library.
package synthesis

import (
	"github.com/redbco/docsynth/internal/frequency"
	"github.com/redbco/docsynth/internal/inference"
)

// JSONType is a draft-07 `type` value.
type JSONType string

const (
	TypeString  JSONType = "string"
	TypeInteger JSONType = "integer"
	TypeNumber  JSONType = "number"
	TypeBoolean JSONType = "boolean"
	TypeArray   JSONType = "array"
	TypeObject  JSONType = "object"
	TypeNull    JSONType = "null"
)

// NumericRangeHint is x-gen.numericRange.
type NumericRangeHint struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Mean        float64 `json:"mean,omitempty"`
	StdDev      float64 `json:"stdDev,omitempty"`
	AllPositive bool    `json:"allPositive"`
	AllInteger  bool    `json:"allInteger"`
}

// ArrayLenHint is x-gen.arrayLen.
type ArrayLenHint struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// GenExtension is the `x-gen` vendor extension from §4.E item 6.
type GenExtension struct {
	Key          bool              `json:"key,omitempty"`
	MongoType    string            `json:"mongoType,omitempty"`
	ArrayLen     *ArrayLenHint     `json:"arrayLen,omitempty"`
	NumericRange *NumericRangeHint `json:"numericRange,omitempty"`
}

// DynamicKeysExtension is the `x-dynamic-keys` vendor extension from
// §4.E item 4.
type DynamicKeysExtension struct {
	Enabled     bool                          `json:"enabled"`
	Metadata    inference.DynamicKeyMetadata  `json:"metadata"`
	ValueSchema *Schema                       `json:"valueSchema,omitempty"`
}

// Schema is one node of a GenerationSchema: a draft-07 schema object with
// the spec's vendor extensions. The root Schema additionally carries
// SchemaURI.
type Schema struct {
	SchemaURI   string `json:"$schema,omitempty"`
	Type        JSONType `json:"type,omitempty"`
	Format      string   `json:"format,omitempty"`
	Enum        []string `json:"enum,omitempty"`

	Properties           map[string]*Schema `json:"properties,omitempty"`
	PropertyOrder        []string            `json:"-"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`

	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	XGen                     *GenExtension         `json:"x-gen,omitempty"`
	XDynamicKeys             *DynamicKeysExtension `json:"x-dynamic-keys,omitempty"`
	XArrayLengthDistribution frequency.Distribution `json:"x-array-length-distribution,omitempty"`
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
