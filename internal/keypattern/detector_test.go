package keypattern

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uuidKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = uuid.New().String()
	}
	return keys
}

func TestDetectUUIDPatternTriggered(t *testing.T) {
	// S1: 100 documents each with accountBalances keyed by 8-12 UUIDs.
	keys := uuidKeys(10)
	res := Detect(keys, DefaultConfig(), 100)

	require.True(t, res.Detected)
	assert.Equal(t, UUID, res.Pattern)
	assert.GreaterOrEqual(t, res.Confidence, 0.8)
	assert.Equal(t, LevelHigh, res.ConfidenceLevel)
	assert.LessOrEqual(t, len(res.ExampleKeys), 10)
}

func TestDetectCountTriggeredWithoutPattern(t *testing.T) {
	// 60 random non-patterned keys: count-triggered but should fail the
	// custom-pattern guard unless it clears the strong-count bar.
	keys := make([]string, 60)
	for i := range keys {
		keys[i] = fmt.Sprintf("field_%d_not_a_pattern!", i)
	}
	res := Detect(keys, DefaultConfig(), 100)
	assert.False(t, res.Detected, "60 keys / 100 docs should not clear the custom-pattern guard")
}

func TestDetectCountTriggeredClearsGuardWithManyKeys(t *testing.T) {
	keys := make([]string, 600)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	res := Detect(keys, DefaultConfig(), 700)
	assert.True(t, res.Detected, "more than 500 keys should clear the custom-pattern guard")
	assert.Equal(t, Pattern(""), res.Pattern)
}

func TestDetectBelowThresholdAndNoPatternFails(t *testing.T) {
	res := Detect([]string{"a", "b", "c"}, DefaultConfig(), 10)
	assert.False(t, res.Detected)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestDetectObjectIDPattern(t *testing.T) {
	keys := []string{
		"507f1f77bcf86cd799439011",
		"507f191e810c19729de860ea",
		"5349b4ddd2781d08c09890f3",
		"5349b4ddd2781d08c09890f4",
		"5349b4ddd2781d08c09890f5",
		"5349b4ddd2781d08c09890f6",
		"5349b4ddd2781d08c09890f7",
		"5349b4ddd2781d08c09890f8",
	}
	res := Detect(keys, DefaultConfig(), 50)
	require.True(t, res.Detected)
	assert.Equal(t, MongoObjectID, res.Pattern)
}

func TestDetectCustomPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CustomPattern = `^acct-\d{6}$`
	require.NoError(t, cfg.Compile())

	keys := []string{"acct-000001", "acct-000002", "acct-000003", "acct-000004", "acct-000005"}
	res := Detect(keys, cfg, 50)
	require.True(t, res.Detected)
	assert.Equal(t, Custom, res.Pattern)
	assert.Equal(t, cfg.CustomPattern, res.CustomPattern)
}

func TestCompileInvalidCustomPatternFails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CustomPattern = "(unterminated"
	err := cfg.Compile()
	assert.Error(t, err)
}

func TestConfidenceLevelBuckets(t *testing.T) {
	assert.Equal(t, LevelHigh, confidenceLevel(0.9))
	assert.Equal(t, LevelMedium, confidenceLevel(0.65))
	assert.Equal(t, LevelLow, confidenceLevel(0.3))
}
