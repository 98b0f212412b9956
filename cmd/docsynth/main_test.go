package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redbco/docsynth/internal/constraints"
	"github.com/redbco/docsynth/internal/value"
)

func TestValueToMapConvertsNestedStructure(t *testing.T) {
	v := value.NewObject(map[string]value.Value{
		"name": value.NewString("alice"),
		"age":  value.NewInt(30),
		"tags": value.NewArray([]value.Value{value.NewString("a"), value.NewString("b")}),
	})

	m := valueToMap(v)
	assert.Equal(t, "alice", m["name"])
	assert.Equal(t, int64(30), m["age"])
	assert.Equal(t, []interface{}{"a", "b"}, m["tags"])
}

func TestBuildSchemaInfersTypesFromDocuments(t *testing.T) {
	docs := []map[string]interface{}{
		{"_id": "x", "name": "alice"},
		{"_id": "y", "name": "bob"},
	}
	schema, profile, err := buildSchema(docs)
	assert.NoError(t, err)
	assert.NotNil(t, schema)
	assert.Contains(t, schema.Required, "name")
	assert.Equal(t, constraints.ArrayLenPolicyMinMax, profile.Config.ArrayLenPolicy)
}
