package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Close()

	Warn("nothing loaded", "root", "/data", "files", 0)

	out := buf.String()
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "nothing loaded")
	assert.Contains(t, out, "root=/data")
	assert.Contains(t, out, "files=0")
}

func TestLogger_DropsOddKey(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Close()

	Info("odd keyvals", "only-key")

	assert.Contains(t, buf.String(), "odd keyvals")
	assert.NotContains(t, buf.String(), "only-key")
}
