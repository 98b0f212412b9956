package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/docsynth/internal/constraints"
	"github.com/redbco/docsynth/internal/inference"
	"github.com/redbco/docsynth/internal/profiling"
	"github.com/redbco/docsynth/internal/sampledoc"
	"github.com/redbco/docsynth/internal/synthesis"
	"github.com/redbco/docsynth/internal/value"
)

func normalize(raw map[string]interface{}) sampledoc.NormalizedDocument {
	return sampledoc.Normalize(sampledoc.SampleDocument{Raw: raw})
}

// buildPipeline infers, profiles, and synthesizes a schema from docs,
// returning both the schema and the resulting constraints.Profile (the
// "sample" side of a validation run).
func buildPipeline(t *testing.T, docs []map[string]interface{}) (*synthesis.Schema, constraints.Profile) {
	t.Helper()
	inf := inference.New(inference.DefaultConfig())
	prof := profiling.New(profiling.DefaultConfig())
	for _, d := range docs {
		inf.AddDocument(normalize(d))
		prof.AddDocument(normalize(d))
	}
	root := inf.Build()
	p := prof.Finalize(nil)
	profile := constraints.Profile{
		ArrayStats:    p.ArrayStats,
		NumericRanges: p.NumericRanges,
		SizeBuckets:   p.SizeBuckets,
		Config:        constraints.DefaultSynthesisConfig(),
	}
	schema := synthesis.New(synthesis.DefaultConfig(), profile).Build(root)
	return schema, profile
}

func sampleDocs() []map[string]interface{} {
	docs := make([]map[string]interface{}, 20)
	for i := range docs {
		docs[i] = map[string]interface{}{
			"_id":  "id",
			"name": "alice",
			"tags": []interface{}{"a", "b"},
		}
	}
	return docs
}

// TestValidatorPassesWhenGeneratedMatchesSample covers testable property
// 7: feeding the sample's own documents back through the validator (so
// array stats and size buckets are identical to the sample by
// construction) must yield overallPassed=true.
func TestValidatorPassesWhenGeneratedMatchesSample(t *testing.T) {
	docs := sampleDocs()
	schema, sample := buildPipeline(t, docs)

	v := New(DefaultConfig(), schema, sample)
	for _, d := range docs {
		nd := normalize(d)
		v.AddDocument(nd.Value)
	}
	report := v.Finalize()

	assert.Equal(t, 1.0, report.ConformanceRate)
	for _, d := range report.ArrayDeviations {
		assert.True(t, d.WithinTolerance, "path %s p%g deviated %f", d.Path, d.Percentile, d.Deviation)
	}
	for _, d := range report.SizeBucketDeviations {
		assert.True(t, d.WithinTolerance, "bucket %d deviated %f", d.BucketID, d.Deviation)
	}
	assert.True(t, report.OverallPassed)
	assert.Empty(t, report.FailingPath)
}

// TestValidatorDetectsSchemaViolation asserts a document missing a
// required field is both counted as nonconformant and named in a
// Violation record.
func TestValidatorDetectsSchemaViolation(t *testing.T) {
	docs := sampleDocs()
	schema, sample := buildPipeline(t, docs)
	// "name" appears in every sample document, so the Synthesizer already
	// marked it required (default requiredThreshold=0.95) without any
	// test-side modification.
	require.Contains(t, schema.Required, "name")

	v := New(DefaultConfig(), schema, sample)
	bad := value.NewObject(map[string]value.Value{
		"_id": value.NewObjectID("aaaaaaaaaaaaaaaaaaaaaaaa"),
		"tags": value.NewArray([]value.Value{value.NewString("a")}),
	})
	v.AddDocument(bad)
	report := v.Finalize()

	assert.Equal(t, 1, report.TotalDocuments)
	assert.Equal(t, 0, report.ValidDocuments)
	assert.Less(t, report.ConformanceRate, 1.0)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "name", report.Violations[0].Path)
	assert.False(t, report.OverallPassed)
	assert.Equal(t, "schemaConformance", report.FailingPath)
}

// TestValidatorArrayDeviationOutOfTolerance asserts a generated corpus
// whose array lengths drift far from the sample's fails on the named
// array-length path.
func TestValidatorArrayDeviationOutOfTolerance(t *testing.T) {
	docs := sampleDocs()
	schema, sample := buildPipeline(t, docs)

	v := New(DefaultConfig(), schema, sample)
	for i := 0; i < 20; i++ {
		// sample always has 2-element tags arrays; generate 10-element ones.
		items := make([]value.Value, 10)
		for j := range items {
			items[j] = value.NewString("x")
		}
		doc := value.NewObject(map[string]value.Value{
			"_id":  value.NewObjectID("aaaaaaaaaaaaaaaaaaaaaaaa"),
			"name": value.NewString("alice"),
			"tags": value.NewArray(items),
		})
		v.AddDocument(doc)
	}
	report := v.Finalize()

	assert.False(t, report.OverallPassed)
	assert.Contains(t, report.FailingPath, "arrayLength:tags")
}

// TestValidatorUniquenessDetectsDuplicateID asserts two documents sharing
// an _id fail the uniqueness check.
func TestValidatorUniquenessDetectsDuplicateID(t *testing.T) {
	docs := sampleDocs()
	schema, sample := buildPipeline(t, docs)

	v := New(DefaultConfig(), schema, sample)
	dup := value.NewObject(map[string]value.Value{
		"_id":  value.NewObjectID("bbbbbbbbbbbbbbbbbbbbbbbb"),
		"name": value.NewString("alice"),
		"tags": value.NewArray([]value.Value{value.NewString("a"), value.NewString("b")}),
	})
	v.AddDocument(dup)
	v.AddDocument(dup)
	report := v.Finalize()

	require.Len(t, report.Uniqueness, 1)
	assert.False(t, report.Uniqueness[0].Unique)
	assert.Equal(t, "bbbbbbbbbbbbbbbbbbbbbbbb", report.Uniqueness[0].Duplicate)
	assert.False(t, report.OverallPassed)
	assert.Equal(t, "uniqueness:_id", report.FailingPath)
}

// TestDeviationOfZeroSampleSpecialCases covers the |x-y|/y special cases
// named explicitly in §4.H: sample=0,generated=0 → 0; sample=0,
// generated>0 → 1.0.
func TestDeviationOfZeroSampleSpecialCases(t *testing.T) {
	assert.Equal(t, 0.0, deviationOf(0, 0))
	assert.Equal(t, 1.0, deviationOf(0, 5))
	assert.InDelta(t, 0.1, deviationOf(10, 11), 1e-9)
}

// TestNewCheckedRejectsEmptySizeBuckets covers the §9 open-question
// decision: a sample profile with no size buckets is a configuration
// error, not a silently-passing validator.
func TestNewCheckedRejectsEmptySizeBuckets(t *testing.T) {
	schema, sample := buildPipeline(t, sampleDocs())
	sample.SizeBuckets = nil
	_, err := NewChecked(DefaultConfig(), schema, sample)
	require.Error(t, err)
}

func TestTypeMatchesIntegerSatisfiesNumberSchema(t *testing.T) {
	assert.True(t, typeMatches(synthesis.TypeNumber, value.Int))
	assert.True(t, typeMatches(synthesis.TypeNumber, value.Float))
	assert.False(t, typeMatches(synthesis.TypeInteger, value.Float))
}
