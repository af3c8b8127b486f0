package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlint/archlint/engine"
	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/ruleset"
)

func sampleReport() engine.Report {
	v := engine.Violation{
		RuleID:   "TX-BOUNDARY-001",
		Severity: ruleset.SeverityBlocker,
		Message:  "transactional method calls a remote sink",
		Location: model.Location{File: "svc/order.go", Line: 42, Column: 3},
		CallChain: []string{
			"svc.OrderService#createOrder(Order)",
			"net.HttpClient#post(String,String)",
		},
		Context:     map[string]string{"entry": "svc.OrderService#createOrder(Order)"},
		Fingerprint: "deadbeef",
	}
	return engine.Report{
		Violations: []engine.Violation{v},
		Summary:    engine.Summary{BySeverity: map[ruleset.Severity]int{ruleset.SeverityBlocker: 1}, Total: 1},
		Pass:       false,
	}
}

func TestToJSONReportPreservesSchema(t *testing.T) {
	jr := ToJSONReport(sampleReport())
	require.Len(t, jr.Violations, 1)
	v := jr.Violations[0]
	assert.Equal(t, "TX-BOUNDARY-001", v.RuleID)
	assert.Equal(t, "BLOCKER", v.Severity)
	assert.Equal(t, "svc/order.go", v.Location.File)
	assert.Equal(t, 42, v.Location.Line)
	assert.Len(t, v.CallChain, 2)
	assert.Equal(t, "deadbeef", v.Fingerprint)
	assert.False(t, jr.Pass)
	assert.Equal(t, 1, jr.Summary.Total)
}

func TestWriteJSONProducesValidDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "violations")
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "pass")
}

func TestExitCodeMatchesPass(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, 1, ExitCode(r))
	r.Pass = true
	assert.Equal(t, 0, ExitCode(r))
}
