package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSARIFProducesValidDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSARIF(&buf, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2.1.0", decoded["version"])
	runs, ok := decoded["runs"].([]interface{})
	require.True(t, ok)
	require.Len(t, runs, 1)
}

func TestSARIFLevelMapping(t *testing.T) {
	assert.Equal(t, "error", sarifLevel("BLOCKER"))
	assert.Equal(t, "error", sarifLevel("ERROR"))
	assert.Equal(t, "warning", sarifLevel("WARN"))
	assert.Equal(t, "note", sarifLevel("INFO"))
}
