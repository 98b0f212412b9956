package errs

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, 2, Config.ExitCode())
	assert.Equal(t, 4, FileIO.ExitCode())
	assert.Equal(t, 4, InputRead.ExitCode())
	assert.Equal(t, 1, General.ExitCode())
	assert.Equal(t, 1, Inference.ExitCode())
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	e := Wrap(SourceConnection, "infer", "failed to connect", cause)

	assert.Equal(t, cause, errors.Unwrap(e))
	var target *Error
	require.True(t, errors.As(e, &target))
	assert.Equal(t, SourceConnection, target.Kind)
}

func TestMarshalEnvelope(t *testing.T) {
	e := New(Validation, "validate", "conformance below threshold").
		WithDetails(map[string]interface{}{"path": "tags"})

	raw, err := e.MarshalEnvelope()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "error", decoded["status"])
	assert.Equal(t, "validate", decoded["phase"])

	errObj := decoded["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION", errObj["code"])
	assert.Equal(t, "conformance below threshold", errObj["message"])
}
