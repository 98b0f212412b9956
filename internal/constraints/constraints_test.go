package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLegacyArrayStatsUpgradeS6 is spec scenario S6: a legacy
// {observedLengths:[1,1,2,3,3,3]} entry must upgrade to the same
// distribution as a current {distribution:{"1":2,"2":1,"3":3}} entry.
func TestLegacyArrayStatsUpgradeS6(t *testing.T) {
	legacy := []byte(`{"fieldPath":"tags","observedLengths":[1,1,2,3,3,3]}`)
	current := []byte(`{"fieldPath":"tags","distribution":{"1":2,"2":1,"3":3},"arraysAnalyzed":6}`)

	fromLegacy, err := UpgradeArrayStats(legacy)
	require.NoError(t, err)
	fromCurrent, err := UpgradeArrayStats(current)
	require.NoError(t, err)

	assert.Equal(t, fromCurrent.Distribution, fromLegacy.Distribution)
	assert.Equal(t, fromCurrent.ArraysAnalyzed, fromLegacy.ArraysAnalyzed)
	assert.Equal(t, fromCurrent.Stats, fromLegacy.Stats)
}

func TestIsLegacyArrayStatsShape(t *testing.T) {
	assert.True(t, IsLegacyArrayStatsShape([]byte(`{"observedLengths":[1,2,3]}`)))
	assert.False(t, IsLegacyArrayStatsShape([]byte(`{"distribution":{"1":1}}`)))
	assert.False(t, IsLegacyArrayStatsShape([]byte(`{}`)))
}

func TestUpgradeArrayStatsInvalidJSON(t *testing.T) {
	_, err := UpgradeArrayStats([]byte(`not json`))
	require.Error(t, err)
}

func TestNewKeyFieldsConfigEnforcesIDUniqueness(t *testing.T) {
	kf := NewKeyFieldsConfig(KeyFieldConfig{Path: "sku", EnforceUniqueness: true})
	assert.True(t, kf.ID.EnforceUniqueness)
	assert.Equal(t, "_id", kf.ID.Path)
	assert.Len(t, kf.AdditionalKeys, 1)
}
