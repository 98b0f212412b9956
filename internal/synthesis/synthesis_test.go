package synthesis

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/docsynth/internal/constraints"
	"github.com/redbco/docsynth/internal/inference"
	"github.com/redbco/docsynth/internal/profiling"
	"github.com/redbco/docsynth/internal/sampledoc"
)

func normDoc(raw map[string]interface{}) sampledoc.NormalizedDocument {
	return sampledoc.Normalize(sampledoc.SampleDocument{Raw: raw})
}

func buildProfile(t *testing.T, prof *profiling.Profiler, dynamicPaths []string) constraints.Profile {
	t.Helper()
	p := prof.Finalize(dynamicPaths)
	return constraints.Profile{
		ArrayStats:    p.ArrayStats,
		NumericRanges: p.NumericRanges,
		SizeBuckets:   p.SizeBuckets,
		Config:        constraints.DefaultSynthesisConfig(),
	}
}

func TestBuildSchemaBasicFieldsAndRequired(t *testing.T) {
	inf := inference.New(inference.DefaultConfig())
	prof := profiling.New(profiling.DefaultConfig())

	for i := 0; i < 100; i++ {
		d := map[string]interface{}{"_id": "abc", "name": "alice", "age": int64(30)}
		inf.AddDocument(normDoc(d))
		prof.AddDocument(normDoc(d))
	}

	root := inf.Build()
	profile := buildProfile(t, prof, nil)
	schema := New(DefaultConfig(), profile).Build(root)

	assert.Equal(t, TypeObject, schema.Type)
	assert.False(t, *schema.AdditionalProperties)
	assert.Contains(t, schema.Required, "_id")
	assert.Contains(t, schema.Required, "name")
	assert.Contains(t, schema.Required, "age")

	idSchema := schema.Properties["_id"]
	require.NotNil(t, idSchema)
	require.NotNil(t, idSchema.XGen)
	assert.True(t, idSchema.XGen.Key)

	nameSchema := schema.Properties["name"]
	require.NotNil(t, nameSchema)
	assert.Equal(t, TypeString, nameSchema.Type)

	ageSchema := schema.Properties["age"]
	require.NotNil(t, ageSchema)
	assert.Equal(t, TypeInteger, ageSchema.Type)
	require.NotNil(t, ageSchema.XGen)
	require.NotNil(t, ageSchema.XGen.NumericRange)
	assert.Equal(t, 30.0, ageSchema.XGen.NumericRange.Min)
	assert.Equal(t, 30.0, ageSchema.XGen.NumericRange.Max)
	assert.True(t, ageSchema.XGen.NumericRange.AllInteger)
}

func TestBuildSchemaArrayMinMaxItems(t *testing.T) {
	inf := inference.New(inference.DefaultConfig())
	prof := profiling.New(profiling.DefaultConfig())

	lengths := []int{2, 3, 3, 5}
	for _, n := range lengths {
		tags := make([]interface{}, n)
		for j := range tags {
			tags[j] = "t"
		}
		d := map[string]interface{}{"tags": tags}
		inf.AddDocument(normDoc(d))
		prof.AddDocument(normDoc(d))
	}

	root := inf.Build()
	profile := buildProfile(t, prof, nil)
	schema := New(DefaultConfig(), profile).Build(root)

	tagsSchema := schema.Properties["tags"]
	require.NotNil(t, tagsSchema)
	assert.Equal(t, TypeArray, tagsSchema.Type)
	require.NotNil(t, tagsSchema.MinItems)
	require.NotNil(t, tagsSchema.MaxItems)
	assert.Equal(t, 2, *tagsSchema.MinItems)
	assert.Equal(t, 5, *tagsSchema.MaxItems)
	assert.NotEmpty(t, tagsSchema.XArrayLengthDistribution)
	assert.Equal(t, TypeString, tagsSchema.Items.Type)
}

func TestBuildSchemaDynamicKeysUUIDMap(t *testing.T) {
	inf := inference.New(inference.DefaultConfig())
	prof := profiling.New(profiling.DefaultConfig())

	for i := 0; i < 100; i++ {
		n := 8 + i%5
		balances := make(map[string]interface{}, n)
		for j := 0; j < n; j++ {
			balances[uuid.New().String()] = int64(j)
		}
		d := map[string]interface{}{"accountBalances": balances}
		inf.AddDocument(normDoc(d))
		prof.AddDocument(normDoc(d))
	}

	root := inf.Build()
	profile := buildProfile(t, prof, []string{"accountBalances"})
	schema := New(DefaultConfig(), profile).Build(root)

	field := schema.Properties["accountBalances"]
	require.NotNil(t, field)
	assert.Equal(t, TypeObject, field.Type)
	require.NotNil(t, field.XDynamicKeys)
	assert.True(t, field.XDynamicKeys.Enabled)
	assert.Nil(t, field.Properties) // invariant (ii): no enumerated properties
	require.NotNil(t, field.XDynamicKeys.ValueSchema)
	assert.Equal(t, TypeInteger, field.XDynamicKeys.ValueSchema.Type)
}
