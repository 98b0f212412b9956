package semtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmail(t *testing.T) {
	samples := []string{"a@example.com", "b@example.com", "c@test.org", "d@example.net", "not-an-email"}
	assert.Equal(t, Email, Classify(samples))
}

func TestClassifyUUID(t *testing.T) {
	samples := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"f47ac10b-58cc-4372-a567-0e02b2c3d479",
	}
	assert.Equal(t, UUID, Classify(samples))
}

func TestClassifyIPv4(t *testing.T) {
	samples := []string{"192.168.1.1", "10.0.0.1", "8.8.8.8"}
	assert.Equal(t, IPv4, Classify(samples))
}

func TestClassifyNoneBelowThreshold(t *testing.T) {
	samples := []string{"a@example.com", "plain text", "another plain one", "yet another"}
	assert.Equal(t, None, Classify(samples))
}

func TestClassifyEmptyInput(t *testing.T) {
	assert.Equal(t, None, Classify(nil))
}

func TestFormatMapping(t *testing.T) {
	assert.Equal(t, "email", Email.Format())
	assert.Equal(t, "", None.Format())
}
