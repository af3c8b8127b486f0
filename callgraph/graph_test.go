package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlint/archlint/model"
)

// buildModel assembles a tiny frozen model with three application methods
// (A -> B -> C) and one call out to a library sink (A -> lib.Sink#run()),
// enough to exercise callees/callers/reachability/chains without needing
// the builder package.
func buildModel(t *testing.T) *model.SourceModel {
	t.Helper()
	d := model.NewDraft()

	addType := func(fqn, pkg string) {
		d.AddType(&model.TypeEntity{FQN: fqn, SimpleName: fqn, Package: pkg, Kind: model.KindClass})
	}
	addMethod := func(fqn, containingType string) {
		d.AddMethod(&model.MethodEntity{FQN: fqn, ContainingType: containingType, SimpleName: fqn})
	}

	addType("svc.A", "svc")
	addType("svc.B", "svc")
	addType("svc.C", "svc")
	addMethod("svc.A#run()", "svc.A")
	addMethod("svc.B#run()", "svc.B")
	addMethod("svc.C#run()", "svc.C")

	d.AddRelationship(model.NewCall("svc.A#run()", "b.run()", "svc.B#run()", model.CallVirtual, model.Location{Line: 1}, nil, nil))
	d.AddRelationship(model.NewCall("svc.B#run()", "c.run()", "svc.C#run()", model.CallVirtual, model.Location{Line: 2}, nil, nil))
	d.AddRelationship(model.NewCall("svc.A#run()", "Sink.run()", "lib.Sink#run()", model.CallStatic, model.Location{Line: 3}, nil, nil))

	sm, err := d.Freeze()
	require.NoError(t, err)
	return sm
}

func TestCalleesAndCallers(t *testing.T) {
	g := New(buildModel(t))

	callees := g.Callees("svc.A#run()")
	require.Len(t, callees, 2)
	assert.Equal(t, "svc.B#run()", callees[0].ResolvedFQN)
	assert.Equal(t, "lib.Sink#run()", callees[1].ResolvedFQN)

	assert.ElementsMatch(t, []string{"svc.A#run()"}, g.Callers("svc.B#run()"))
	assert.Empty(t, g.Callers("svc.A#run()"))
}

func TestIsLibrary(t *testing.T) {
	g := New(buildModel(t))
	assert.False(t, g.IsLibrary("svc.A#run()"))
	assert.True(t, g.IsLibrary("lib.Sink#run()"))
}

func TestReachableStopsAtLibraryBoundaryByDefault(t *testing.T) {
	g := New(buildModel(t))
	reach := g.Reachable("svc.A#run()", true)
	assert.ElementsMatch(t, []string{"svc.B#run()", "svc.C#run()", "lib.Sink#run()"}, reach)
}

func TestChainsToSinkFindsTransactionBoundaryViolationPath(t *testing.T) {
	g := New(buildModel(t))
	chains := g.ChainsToSink("svc.A#run()", "lib.Sink#")
	require.Len(t, chains, 1)
	assert.Equal(t, []string{"svc.A#run()", "lib.Sink#run()"}, chains[0])
}

func TestChainsToSinkFindsIndirectPath(t *testing.T) {
	g := New(buildModel(t))
	chains := g.ChainsToSink("svc.A#run()", "svc.C#")
	require.Len(t, chains, 1)
	assert.Equal(t, []string{"svc.A#run()", "svc.B#run()", "svc.C#run()"}, chains[0])
}

func TestInverseChainsEndsAtRoot(t *testing.T) {
	g := New(buildModel(t))
	chains := g.InverseChains("svc.C#run()")
	require.Len(t, chains, 1)
	assert.Equal(t, []string{"svc.C#run()", "svc.B#run()", "svc.A#run()"}, chains[0])
}

func TestChainsBreaksCyclesSilently(t *testing.T) {
	d := model.NewDraft()
	d.AddType(&model.TypeEntity{FQN: "svc.A", SimpleName: "A", Package: "svc", Kind: model.KindClass})
	d.AddMethod(&model.MethodEntity{FQN: "svc.A#run()", ContainingType: "svc.A", SimpleName: "run"})
	d.AddRelationship(model.NewCall("svc.A#run()", "self.run()", "svc.A#run()", model.CallDirect, model.Location{Line: 1}, nil, nil))
	sm, err := d.Freeze()
	require.NoError(t, err)

	g := New(sm)
	chains := g.Chains("svc.A#run()", true)
	require.Len(t, chains, 1)
	assert.Equal(t, []string{"svc.A#run()"}, chains[0])
}

func TestTransactionBoundariesComputesChainsPerMarker(t *testing.T) {
	g := New(buildModel(t))
	out := g.TransactionBoundaries([]string{"svc.A#run()"})
	require.Contains(t, out, "svc.A#run()")
	assert.NotEmpty(t, out["svc.A#run()"])
}
