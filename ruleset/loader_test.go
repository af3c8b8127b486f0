package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRuleFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadValidAndMalformedRuleSideBySide(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "tx-boundary.yaml", `
id: TX-BOUNDARY-001
name: Transaction boundary violation
severity: ERROR
target:
  annotation: Transactional
`)
	writeRuleFile(t, dir, "broken.yaml", `
name: missing an id
severity: ERROR
`)

	result, err := Load(dir)
	require.NoError(t, err)

	require.Len(t, result.Definitions, 1)
	assert.Equal(t, "TX-BOUNDARY-001", result.Definitions[0].ID)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "missing required field")
}

func TestLoadRejectsUnknownSeverity(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "bad-severity.yaml", `
id: BAD-001
name: bad severity
severity: CATASTROPHIC
`)

	result, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, result.Definitions)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "unknown severity")
}

func TestLoadRejectsMaxDepthOverride(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "depth.yaml", `
id: DEPTH-001
name: overrides depth
severity: WARN
constraints:
  max_depth: 5
`)

	result, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, result.Definitions)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "immutable")
}

func TestLoadIgnoresNonRuleFiles(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "README.md", "not a rule")
	writeRuleFile(t, dir, "tx.yaml", `
id: TX-BOUNDARY-001
name: Transaction boundary violation
severity: ERROR
`)

	result, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, result.Definitions, 1)
	assert.Empty(t, result.Warnings)
}

func TestLoadSingleFileOfMultipleRules(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "bundle.yaml", `
rules:
  - id: RULE-A
    name: A
    severity: BLOCKER
  - id: RULE-B
    name: B
    severity: INFO
`)

	result, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, result.Definitions, 2)
	assert.Equal(t, "RULE-A", result.Definitions[0].ID)
	assert.Equal(t, "RULE-B", result.Definitions[1].ID)
}

func TestLoadCompilesWhenPredicate(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "detect.yaml", `
id: PATH-001
name: generic reachability
severity: WARN
detection:
  entry_annotations: [Transactional]
  sink_type_fqns: [net.HttpClient]
  when: "Chain.Length > 1"
`)

	result, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, result.Definitions, 1)
	require.NotNil(t, result.Definitions[0].Detection)
	assert.NotNil(t, result.Definitions[0].Detection.CompiledWhen())
}

func TestLoadWarnsOnMalformedWhenExpression(t *testing.T) {
	dir := t.TempDir()
	writeRuleFile(t, dir, "bad-when.yaml", `
id: PATH-002
name: bad when
severity: WARN
detection:
  when: "this is not valid expr syntax((("
`)

	result, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, result.Definitions)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "compiling when predicate")
}

func TestSeverityRankOrdersBlockerFirst(t *testing.T) {
	assert.Less(t, SeverityBlocker.Rank(), SeverityError.Rank())
	assert.Less(t, SeverityError.Rank(), SeverityWarn.Rank())
	assert.Less(t, SeverityWarn.Rank(), SeverityInfo.Rank())
}
