// Package validation implements the Streaming Validator (§4.H): a
// document-stream consumer running schema-conformance, array-stats,
// size-bucket, and uniqueness accumulators in parallel, then comparing
// the generated-side statistics against the original sample's
// constraints.Profile to produce a deviation report.
//
// The array-stats and size-bucket accumulators are not reimplemented
// here: they are the same internal/profiling.Profiler accumulators run a
// second time over the generated stream, so a sample profile and a
// validation report are always comparable apples-to-apples. Schema
// conformance is checked directly against the internal/synthesis.Schema
// tree the generator itself consumes — no third-party JSON-Schema
// compiler/validator appears anywhere in the retrieval pack (the one
// JSON-Schema library present, google/jsonschema-go in MacroPower-x, is
// used there only to *generate* schemas from YAML, never to *validate*
// documents against one), so this is a case where the justification
// burden for a stdlib approach is absent rather than met.
package validation

import (
	"fmt"
	"sort"

	"github.com/redbco/docsynth/internal/constraints"
	"github.com/redbco/docsynth/internal/errs"
	"github.com/redbco/docsynth/internal/frequency"
	"github.com/redbco/docsynth/internal/profiling"
	"github.com/redbco/docsynth/internal/sampledoc"
	"github.com/redbco/docsynth/internal/synthesis"
	"github.com/redbco/docsynth/internal/value"
)

// Config tunes a Validator run.
type Config struct {
	ArrayLengthTolerance float64
	SizeBucketTolerance  float64
	MaxViolations        int
	SizeProxy            profiling.SizeProxy
}

// DefaultConfig returns §4.H's stated defaults.
func DefaultConfig() Config {
	return Config{
		ArrayLengthTolerance: 0.1,
		SizeBucketTolerance:  0.2,
		MaxViolations:        1000,
		SizeProxy:            profiling.SizeProxyLeafFieldCount,
	}
}

// Violation is one schema-conformance failure, capped at
// Config.MaxViolations retained records.
type Violation struct {
	Path    string
	Message string
}

// ArrayDeviation is the per-path, per-percentile array-length deviation
// of §4.H: |generated_px - sample_px| / sample_px.
type ArrayDeviation struct {
	Path       string
	Percentile float64
	Sample     float64
	Generated  float64
	Deviation  float64
	WithinTolerance bool
}

// SizeBucketDeviation is one bucket's probability deviation.
type SizeBucketDeviation struct {
	BucketID        int
	SampleProb      float64
	GeneratedProb   float64
	Deviation       float64
	WithinTolerance bool
}

// UniquenessResult is one field's duplicate-value check.
type UniquenessResult struct {
	Path      string
	Unique    bool
	Total     int
	Duplicate string // first duplicate value observed, if any
}

// Report is the Validator's finalized output.
type Report struct {
	TotalDocuments  int
	ValidDocuments  int
	ConformanceRate float64
	Violations      []Violation
	ViolationsTruncated bool

	ArrayDeviations      []ArrayDeviation
	SizeBucketDeviations []SizeBucketDeviation
	Uniqueness           []UniquenessResult

	OverallPassed bool
	// FailingPath names the first check that failed overallPassed, for
	// diagnostics (§8 testable property 7: "the failing path is named").
	FailingPath string
}

// uniquenessTracker accumulates string-coerced values for one field path.
type uniquenessTracker struct {
	seen      map[string]bool
	total     int
	duplicate string
	unique    bool
}

func newUniquenessTracker() *uniquenessTracker {
	return &uniquenessTracker{seen: make(map[string]bool), unique: true}
}

func (u *uniquenessTracker) add(s string) {
	u.total++
	if u.seen[s] {
		if u.unique {
			u.duplicate = s
		}
		u.unique = false
		return
	}
	u.seen[s] = true
}

// Validator consumes a stream of documents, folding each into the
// conformance/array/size/uniqueness accumulators, and produces a Report
// once the stream is closed.
type Validator struct {
	cfg    Config
	schema *synthesis.Schema
	sample constraints.Profile

	total int
	valid int

	violations  []Violation
	truncated   bool

	profiler *profiling.Profiler

	uniqTrack map[string]*uniquenessTracker
}

// New builds a Validator. schema is the generation schema documents are
// checked against; sample is the original constraints profile the
// generated stream's statistics are compared to.
func New(cfg Config, schema *synthesis.Schema, sample constraints.Profile) *Validator {
	ranges := make([]profiling.BucketRange, len(sample.SizeBuckets))
	for i, b := range sample.SizeBuckets {
		ranges[i] = profiling.BucketRange{Min: b.Min, Max: b.Max}
	}
	profilerCfg := profiling.Config{
		SizeProxy:           cfg.SizeProxy,
		ExplicitSizeBuckets: ranges,
	}
	return &Validator{
		cfg:       cfg,
		schema:    schema,
		sample:    sample,
		profiler:  profiling.New(profilerCfg),
		uniqTrack: make(map[string]*uniquenessTracker),
	}
}

// trackUniqueness folds doc's `_id` into its duplicate-value tracker.
// `_id` is the only path checked; there is no option to track others.
func (v *Validator) trackUniqueness(doc value.Value) {
	value.Walk(doc, func(path string, val value.Value, depth int) bool {
		if path != "_id" {
			return true
		}
		t, ok := v.uniqTrack[path]
		if !ok {
			t = newUniquenessTracker()
			v.uniqTrack[path] = t
		}
		t.add(coerceString(val))
		return true
	})
}

func coerceString(v value.Value) string {
	switch v.Kind {
	case value.String, value.ObjectID, value.Decimal128:
		return v.Str
	case value.Int:
		return fmt.Sprintf("%d", v.Int)
	case value.Float:
		return fmt.Sprintf("%g", v.Float)
	case value.Bool:
		return fmt.Sprintf("%t", v.Bool)
	case value.DateTime:
		return v.Time.String()
	default:
		return ""
	}
}

// AddDocument folds one generated document into every accumulator: schema
// conformance, the reused profiling accumulators, and uniqueness.
func (v *Validator) AddDocument(doc value.Value) {
	v.total++

	violations := conformsTo(v.schema, doc, "")
	if len(violations) == 0 {
		v.valid++
	} else {
		for _, vi := range violations {
			if len(v.violations) >= v.cfg.MaxViolations {
				v.truncated = true
				break
			}
			v.violations = append(v.violations, vi)
		}
	}

	v.profiler.AddDocument(sampledoc.Normalize(sampledoc.SampleDocument{Raw: valueToRaw(doc)}))
	v.trackUniqueness(doc)
}

// valueToRaw converts a value.Value back to a plain interface{} tree so it
// can be re-normalized by sampledoc (the profiler's own input shape),
// without introducing a second code path into the accumulators.
func valueToRaw(v value.Value) interface{} {
	switch v.Kind {
	case value.Null:
		return nil
	case value.Bool:
		return v.Bool
	case value.Int:
		return v.Int
	case value.Float:
		return v.Float
	case value.String, value.ObjectID, value.Decimal128:
		return v.Str
	case value.DateTime:
		return v.Time
	case value.Binary:
		return v.Bin
	case value.Array:
		out := make([]interface{}, len(v.Arr))
		for i, item := range v.Arr {
			out[i] = valueToRaw(item)
		}
		return out
	case value.Object:
		out := make(map[string]interface{}, len(v.ObjKeys))
		for _, k := range v.ObjKeys {
			out[k] = valueToRaw(v.Obj[k])
		}
		return out
	default:
		return nil
	}
}

// percentiles are the three fixed points §4.H's array-length deviation
// compares at.
var percentiles = []float64{50, 90, 99}

// Finalize closes the stream and computes the deviation report.
func (v *Validator) Finalize() Report {
	generated := v.profiler.Finalize(nil)

	report := Report{
		TotalDocuments:      v.total,
		ValidDocuments:      v.valid,
		Violations:          v.violations,
		ViolationsTruncated: v.truncated,
	}
	if v.total > 0 {
		report.ConformanceRate = float64(v.valid) / float64(v.total)
	}

	report.ArrayDeviations = v.arrayDeviations(generated)
	report.SizeBucketDeviations = v.sizeBucketDeviations(generated)
	report.Uniqueness = v.uniquenessResults()

	report.OverallPassed, report.FailingPath = evaluate(report, v.cfg)
	return report
}

func (v *Validator) arrayDeviations(generated profiling.Profile) []ArrayDeviation {
	paths := make([]string, 0, len(v.sample.ArrayStats))
	for p := range v.sample.ArrayStats {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []ArrayDeviation
	for _, path := range paths {
		sampleStats := v.sample.ArrayStats[path]
		genStats, ok := generated.ArrayStats[path]
		var genDist frequency.Distribution
		if ok {
			genDist = genStats.Distribution
		}
		for _, p := range percentiles {
			samplePx := frequency.Percentile(sampleStats.Distribution, p)
			genPx := frequency.Percentile(genDist, p)
			dev := deviationOf(samplePx, genPx)
			out = append(out, ArrayDeviation{
				Path:            path,
				Percentile:      p,
				Sample:          samplePx,
				Generated:       genPx,
				Deviation:       dev,
				WithinTolerance: dev <= v.cfg.ArrayLengthTolerance,
			})
		}
	}
	return out
}

// deviationOf computes |generated-sample|/sample, with sample=0 mapped to
// 1.0 unless generated is also 0 (→ 0), per §4.H.
func deviationOf(sample, generated float64) float64 {
	if sample == 0 {
		if generated == 0 {
			return 0
		}
		return 1.0
	}
	d := (generated - sample) / sample
	if d < 0 {
		d = -d
	}
	return d
}

func (v *Validator) sizeBucketDeviations(generated profiling.Profile) []SizeBucketDeviation {
	genByID := make(map[int]profiling.DocumentSizeBucket, len(generated.SizeBuckets))
	for _, b := range generated.SizeBuckets {
		genByID[b.BucketID] = b
	}

	out := make([]SizeBucketDeviation, 0, len(v.sample.SizeBuckets))
	for _, sb := range v.sample.SizeBuckets {
		gb := genByID[sb.BucketID]
		dev := deviationOf(sb.Probability, gb.Probability)
		out = append(out, SizeBucketDeviation{
			BucketID:        sb.BucketID,
			SampleProb:      sb.Probability,
			GeneratedProb:   gb.Probability,
			Deviation:       dev,
			WithinTolerance: dev <= v.cfg.SizeBucketTolerance,
		})
	}
	return out
}

func (v *Validator) uniquenessResults() []UniquenessResult {
	paths := make([]string, 0, len(v.uniqTrack))
	for p := range v.uniqTrack {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]UniquenessResult, 0, len(paths))
	for _, p := range paths {
		t := v.uniqTrack[p]
		out = append(out, UniquenessResult{
			Path:      p,
			Unique:    t.unique,
			Total:     t.total,
			Duplicate: t.duplicate,
		})
	}
	return out
}

// evaluate applies §4.H's pass condition: all per-path array deviations
// within tolerance, all size-bucket deviations within tolerance, all
// uniqueness checks pass, and conformance = 1.0.
func evaluate(r Report, cfg Config) (bool, string) {
	if r.ConformanceRate < 1.0 {
		return false, "schemaConformance"
	}
	for _, d := range r.ArrayDeviations {
		if !d.WithinTolerance {
			return false, fmt.Sprintf("arrayLength:%s:p%g", d.Path, d.Percentile)
		}
	}
	for _, d := range r.SizeBucketDeviations {
		if !d.WithinTolerance {
			return false, fmt.Sprintf("sizeBucket:%d", d.BucketID)
		}
	}
	for _, u := range r.Uniqueness {
		if !u.Unique {
			return false, fmt.Sprintf("uniqueness:%s", u.Path)
		}
	}
	_ = cfg
	return true, ""
}

// conformsTo checks doc against schema, returning every violation found
// (not just the first), walking nested objects/arrays recursively.
func conformsTo(schema *synthesis.Schema, doc value.Value, path string) []Violation {
	if schema == nil {
		return nil
	}

	var out []Violation
	if !typeMatches(schema.Type, doc.Kind) {
		out = append(out, Violation{
			Path:    path,
			Message: fmt.Sprintf("expected type %s, got %s", schema.Type, doc.Kind),
		})
		return out
	}

	switch schema.Type {
	case synthesis.TypeObject:
		for _, req := range schema.Required {
			if _, ok := doc.Get(req); !ok {
				out = append(out, Violation{
					Path:    value.JoinPath(path, req),
					Message: "required property missing",
				})
			}
		}
		for _, key := range doc.ObjKeys {
			childSchema, ok := schema.Properties[key]
			if !ok {
				continue // additionalProperties not checked here: dynamic-key subtrees are schema-less by design
			}
			out = append(out, conformsTo(childSchema, doc.Obj[key], value.JoinPath(path, key))...)
		}
	case synthesis.TypeArray:
		if schema.Items != nil {
			for i, item := range doc.Arr {
				out = append(out, conformsTo(schema.Items, item, fmt.Sprintf("%s[%d]", path, i))...)
			}
		}
	}
	return out
}

// typeMatches allows an Int value to satisfy a "number" schema (JSON
// Schema's integer-is-a-number rule) in addition to an exact Kind/Type
// match.
func typeMatches(t synthesis.JSONType, k value.Kind) bool {
	switch t {
	case "":
		return true // untyped schema node: nothing to check
	case synthesis.TypeString:
		return k == value.String || k == value.ObjectID || k == value.Decimal128 || k == value.DateTime || k == value.Binary
	case synthesis.TypeInteger:
		return k == value.Int
	case synthesis.TypeNumber:
		return k == value.Int || k == value.Float
	case synthesis.TypeBoolean:
		return k == value.Bool
	case synthesis.TypeArray:
		return k == value.Array
	case synthesis.TypeObject:
		return k == value.Object
	case synthesis.TypeNull:
		return k == value.Null
	default:
		return true
	}
}

// ErrNoSizeBuckets is returned by NewChecked when the sample profile
// defines no size buckets: the size-bucket tolerance test cannot be
// evaluated at all in that case, so construction fails loudly (§9 open
// question) rather than silently reporting a vacuous pass.
func NewChecked(cfg Config, schema *synthesis.Schema, sample constraints.Profile) (*Validator, error) {
	if len(sample.SizeBuckets) == 0 {
		return nil, errs.New(errs.Config, "validation", "sample profile defines no size buckets; cannot evaluate size-bucket tolerance")
	}
	return New(cfg, schema, sample), nil
}
