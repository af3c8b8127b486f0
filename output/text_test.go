package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlint/archlint/engine"
)

func TestWriteTextReportsNoViolations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, engine.Report{Pass: true}))
	assert.Contains(t, buf.String(), "no violations found")
}

func TestWriteTextRendersViolationAndChain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleReport()))
	out := buf.String()
	assert.Contains(t, out, "TX-BOUNDARY-001")
	assert.Contains(t, out, "svc/order.go:42:3")
	assert.Contains(t, out, "chain:")
	assert.Contains(t, out, "total: 1")
}
