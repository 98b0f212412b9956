// Package constraints models §3's ConstraintsProfile: the Profiler's and
// Inferencer's output merged into a single artifact the Synthesizer
// consumes, plus the legacy on-read upgrade path for older profiles.
package constraints

import (
	"github.com/redbco/docsynth/internal/keypattern"
	"github.com/redbco/docsynth/internal/profiling"
)

// ArrayLenPolicy is §3's arrayLenPolicy.
type ArrayLenPolicy string

const (
	ArrayLenPolicyMinMax          ArrayLenPolicy = "minmax"
	ArrayLenPolicyPercentileClamp ArrayLenPolicy = "percentileClamp"
)

// SynthesisConfig is §3's ConstraintsProfile.config.
type SynthesisConfig struct {
	ArrayLenPolicy ArrayLenPolicy `json:"arrayLenPolicy"`
	Percentiles    []float64      `json:"percentiles,omitempty"`
	ClampRange     [2]float64     `json:"clampRange,omitempty"`
}

// DefaultSynthesisConfig matches §4.E's default minmax policy.
func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{ArrayLenPolicy: ArrayLenPolicyMinMax}
}

// KeyFieldConfig describes one key field's uniqueness/pattern contract.
type KeyFieldConfig struct {
	Path              string             `json:"path"`
	EnforceUniqueness bool               `json:"enforceUniqueness"`
	Pattern           keypattern.Pattern `json:"pattern,omitempty"`
}

// KeyFieldsConfig is §3's ConstraintsProfile.keyFields. Invariant (iv): ID
// always has EnforceUniqueness=true at run scope — callers constructing a
// KeyFieldsConfig should use NewKeyFieldsConfig rather than building the
// struct literal directly, to keep that invariant from being forgotten.
type KeyFieldsConfig struct {
	ID             KeyFieldConfig   `json:"_id"`
	AdditionalKeys []KeyFieldConfig `json:"additionalKeys,omitempty"`
}

// NewKeyFieldsConfig returns a KeyFieldsConfig with `_id`'s uniqueness
// enforced, per invariant (iv).
func NewKeyFieldsConfig(additional ...KeyFieldConfig) KeyFieldsConfig {
	return KeyFieldsConfig{
		ID:             KeyFieldConfig{Path: "_id", EnforceUniqueness: true},
		AdditionalKeys: additional,
	}
}

// ObjectKeysAnalysis is §3's dynamicKeyStats entry shape — structurally
// the same statistical profile as inference.DynamicKeyMetadata, carried
// here without an import cycle back to internal/inference by duplicating
// the narrow slice of fields the Synthesizer actually needs from it.
type ObjectKeysAnalysis struct {
	Pattern           keypattern.Pattern
	CustomPattern     string
	Confidence        float64
	CountStats        profiling.ArrayLengthStats // reuses the count-distribution shape
	DocumentsAnalyzed int
}

// Profile is §3's ConstraintsProfile.
type Profile struct {
	ArrayStats      map[string]profiling.ArrayLengthStats
	NumericRanges   map[string]profiling.NumericRangeStats
	SizeBuckets     []profiling.DocumentSizeBucket
	KeyFields       KeyFieldsConfig
	Config          SynthesisConfig
	DynamicKeyStats map[string]ObjectKeysAnalysis
}
