package synthesis

import (
	"sort"

	"github.com/redbco/docsynth/internal/constraints"
	"github.com/redbco/docsynth/internal/frequency"
	"github.com/redbco/docsynth/internal/inference"
	"github.com/redbco/docsynth/internal/profiling"
	"github.com/redbco/docsynth/internal/semtype"
	"github.com/redbco/docsynth/internal/value"
)

// defaultClampPercentiles is used for the percentileClamp array-length
// policy when constraints.SynthesisConfig.Percentiles is unset.
var defaultClampPercentiles = [2]float64{5, 95}

// Config tunes the Synthesizer.
type Config struct {
	// RequiredThreshold is §3's requiredThreshold (default 0.95): a
	// field whose observed probability meets or exceeds this is added to
	// its parent's `required` list.
	RequiredThreshold float64

	// AdditionalKeyPaths names extra fields that must always be
	// required, alongside `_id`, regardless of observed probability
	// (§3's ConstraintsProfile.keyFields.additionalKeys).
	AdditionalKeyPaths []string
}

// DefaultConfig returns Synthesizer defaults.
func DefaultConfig() Config {
	return Config{RequiredThreshold: 0.95}
}

// Builder composes an InferredSchemaField tree and a ConstraintsProfile
// into a GenerationSchema (§4.E).
type Builder struct {
	cfg     Config
	profile constraints.Profile
}

// New creates a Builder bound to one ConstraintsProfile.
func New(cfg Config, profile constraints.Profile) *Builder {
	return &Builder{cfg: cfg, profile: profile}
}

// Build compiles root (the Inferencer's output) into a GenerationSchema.
// The top-level `required` is [_id, ...additionalKeys,
// ...highProbabilityFields], deduplicated and sorted, per §4.E.
func (b *Builder) Build(root *inference.InferredSchemaField) *Schema {
	s := b.buildObjectSchema(root, "")
	s.SchemaURI = "http://json-schema.org/draft-07/schema#"

	required := make(map[string]bool, len(s.Required)+1+len(b.cfg.AdditionalKeyPaths))
	for _, r := range s.Required {
		required[r] = true
	}
	required["_id"] = true
	for _, k := range b.cfg.AdditionalKeyPaths {
		required[k] = true
	}
	s.Required = sortedSetKeys(required)
	return s
}

// buildField dispatches on field's shape: array (by LengthDistribution
// presence — the Inferencer folds an array-of-objects item's field
// structure onto the array field itself, see internal/inference's
// grounding note), dynamic-key map, plain nested object, or leaf.
func (b *Builder) buildField(field *inference.InferredSchemaField, path string) *Schema {
	switch {
	case field.LengthDistribution != nil:
		return b.buildArraySchema(field, path)
	case field.Dynamic != nil && field.Dynamic.Enabled:
		return b.buildDynamicKeysSchema(field, path)
	case len(field.Fields) > 0:
		return b.buildObjectSchema(field, path)
	default:
		return b.buildLeafSchema(field, path)
	}
}

func (b *Builder) buildObjectSchema(field *inference.InferredSchemaField, path string) *Schema {
	s := &Schema{Type: TypeObject, AdditionalProperties: boolPtr(false)}
	s.Properties = make(map[string]*Schema, len(field.Fields))

	var required []string
	for _, name := range field.FieldOrder {
		child := field.Fields[name]
		childPath := value.JoinPath(path, name)
		s.Properties[name] = b.buildField(child, childPath)
		s.PropertyOrder = append(s.PropertyOrder, name)
		if child.Probability >= b.cfg.RequiredThreshold {
			required = append(required, name)
		}
	}
	sort.Strings(required)
	s.Required = required
	return s
}

func (b *Builder) buildDynamicKeysSchema(field *inference.InferredSchemaField, path string) *Schema {
	s := &Schema{Type: TypeObject, AdditionalProperties: boolPtr(false)}

	var valueSchema *Schema
	if field.DynamicValue != nil {
		valueSchema = b.buildDynamicValueSchema(field.DynamicValue, path)
	}
	s.XDynamicKeys = &DynamicKeysExtension{
		Enabled:     true,
		Metadata:    *field.Dynamic,
		ValueSchema: valueSchema,
	}
	return s
}

func (b *Builder) buildDynamicValueSchema(dv *inference.DynamicKeyValueSchema, path string) *Schema {
	for i, t := range dv.Types {
		if t == dv.DominantType {
			return b.buildField(dv.Schemas[i], path)
		}
	}
	if len(dv.Schemas) > 0 {
		return b.buildField(dv.Schemas[0], path)
	}
	return &Schema{Type: TypeNull}
}

func (b *Builder) buildArraySchema(field *inference.InferredSchemaField, path string) *Schema {
	s := &Schema{Type: TypeArray}

	// The item schema reuses field's own Fields/Dynamic/type info with
	// the array-ness stripped, since array-of-object item structure is
	// folded onto the array field itself upstream.
	itemField := *field
	itemField.LengthDistribution = nil
	itemField.Types = filterOut(field.Types, "array")
	s.Items = b.buildField(&itemField, path)

	b.applyArrayLenPolicy(s, field, path)
	return s
}

func (b *Builder) applyArrayLenPolicy(s *Schema, field *inference.InferredSchemaField, path string) {
	var dist frequency.Distribution
	if stats, ok := b.profile.ArrayStats[path]; ok {
		dist = stats.Distribution
	} else if field.LengthDistribution != nil {
		dist = *field.LengthDistribution
	}
	if dist == nil {
		return
	}

	var min, max int
	policy := b.profile.Config.ArrayLenPolicy
	if policy == constraints.ArrayLenPolicyPercentileClamp {
		lo, hi := defaultClampPercentiles[0], defaultClampPercentiles[1]
		if len(b.profile.Config.Percentiles) >= 2 {
			lo, hi = b.profile.Config.Percentiles[0], b.profile.Config.Percentiles[1]
		}
		min = int(frequency.Percentile(dist, lo))
		max = int(frequency.Percentile(dist, hi))
	} else {
		stats := frequency.StatsOf(dist)
		min = int(stats.Min)
		max = int(stats.Max)
	}

	s.MinItems = intPtr(min)
	s.MaxItems = intPtr(max)
	s.XArrayLengthDistribution = dist
	s.XGen = &GenExtension{ArrayLen: &ArrayLenHint{Min: min, Max: max}}
}

func (b *Builder) buildLeafSchema(field *inference.InferredSchemaField, path string) *Schema {
	kind := "string"
	if len(field.Types) > 0 {
		kind = field.Types[0]
	}
	s := &Schema{Type: jsonTypeFor(kind)}

	if format := formatFor(kind); format != "" {
		s.Format = format
	} else if field.SemanticType != semtype.None {
		s.Format = field.SemanticType.Format()
	}

	if field.EnumDistribution != nil {
		keys := make([]string, 0, len(*field.EnumDistribution))
		for k := range *field.EnumDistribution {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s.Enum = keys
	}

	gen := &GenExtension{}
	hasGen := false

	if path == "_id" {
		gen.Key = true
		hasGen = true
		if s.Format == "" && kind == "string" {
			// §9: "_id special-casing: string with no format => format=objectid".
			s.Format = "objectid"
		}
	}

	if kind == "int" || kind == "float" {
		if nr, ok := b.profile.NumericRanges[path]; ok {
			gen.NumericRange = &NumericRangeHint{
				Min:         nr.Stats.Min,
				Max:         nr.Stats.Max,
				Mean:        nr.Mean,
				StdDev:      nr.StdDev,
				AllPositive: nr.AllPositive,
				AllInteger:  nr.ValueType == profiling.ValueTypeInteger,
			}
			hasGen = true
		}
	}

	if hasGen {
		s.XGen = gen
	}
	return s
}

func jsonTypeFor(kind string) JSONType {
	switch kind {
	case "int":
		return TypeInteger
	case "float":
		return TypeNumber
	case "bool":
		return TypeBoolean
	case "array":
		return TypeArray
	case "object":
		return TypeObject
	case "null":
		return TypeNull
	default:
		return TypeString // string, datetime, objectId, decimal128, binary
	}
}

func formatFor(kind string) string {
	switch kind {
	case "datetime":
		return "date-time"
	case "objectId":
		return "objectid"
	case "decimal128":
		return "decimal"
	case "binary":
		return "base64"
	default:
		return ""
	}
}

func filterOut(types []string, exclude string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t != exclude {
			out = append(out, t)
		}
	}
	return out
}

func sortedSetKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
