package syslog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN)
	l.Info("test", "should not appear")
	l.Error("test", "should appear")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
	assert.Contains(t, out, "[ERROR]")
}

func TestFormattedLogging(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG)
	l.Infof("inference", "processed %d documents", 42)

	out := buf.String()
	assert.True(t, strings.Contains(out, "processed 42 documents"))
	assert.Contains(t, out, "inference")
}
