package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlint/archlint/model"
)

func typeWithReturn(fqn, pkg, returnFQN string) *model.TypeEntity {
	return &model.TypeEntity{FQN: fqn, SimpleName: fqn, Package: pkg, Kind: model.KindClass}
}

func buildCyclicModel(t *testing.T) *model.SourceModel {
	t.Helper()
	d := model.NewDraft()

	d.AddType(typeWithReturn("svc.A", "svc", ""))
	d.AddType(typeWithReturn("repo.B", "repo", ""))
	d.AddType(typeWithReturn("util.C", "util", ""))

	// svc -> repo, repo -> svc (cycle), and svc -> util (no cycle).
	d.AddRelationship(model.NewReferences("svc.A", "repo.B"))
	d.AddRelationship(model.NewReferences("repo.B", "svc.A"))
	d.AddRelationship(model.NewReferences("svc.A", "util.C"))

	sm, err := d.Freeze()
	require.NoError(t, err)
	return sm
}

func TestDependsOnAndDependentsOf(t *testing.T) {
	g := New(buildCyclicModel(t))

	assert.ElementsMatch(t, []string{"repo", "util"}, g.DependsOn("svc"))
	assert.ElementsMatch(t, []string{"svc"}, g.DependsOn("repo"))
	assert.ElementsMatch(t, []string{"svc"}, g.DependentsOf("repo"))
	assert.ElementsMatch(t, []string{"repo"}, g.DependentsOf("svc"))
}

func TestCyclesDetectsTwoPackageCycle(t *testing.T) {
	g := New(buildCyclicModel(t))

	assert.True(t, g.HasCycles())
	cycles := g.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"repo", "svc", "repo"}, cycles[0])
}

func TestCyclesTracesRealEdgesForThreeMemberSCC(t *testing.T) {
	// p1 -> p3 -> p2 -> p1, with no direct p1 -> p2 edge. A cycle reported
	// as [p1, p2, p3, p1] would assert an edge (p1 -> p2) that does not
	// exist, violating spec.md §8's "every consecutive pair is an edge in
	// the dependency graph" invariant.
	d := model.NewDraft()
	d.AddType(typeWithReturn("p1.A", "p1", ""))
	d.AddType(typeWithReturn("p2.B", "p2", ""))
	d.AddType(typeWithReturn("p3.C", "p3", ""))
	d.AddRelationship(model.NewReferences("p1.A", "p3.C"))
	d.AddRelationship(model.NewReferences("p3.C", "p2.B"))
	d.AddRelationship(model.NewReferences("p2.B", "p1.A"))
	sm, err := d.Freeze()
	require.NoError(t, err)

	g := New(sm)
	cycles := g.Cycles()
	require.Len(t, cycles, 1)
	cycle := cycles[0]

	require.GreaterOrEqual(t, len(cycle), 2)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1], "a cycle must start and end at the same package")
	for i := 0; i+1 < len(cycle); i++ {
		assert.True(t, g.edges[cycle[i]][cycle[i+1]], "expected a real edge %s -> %s in the reported cycle", cycle[i], cycle[i+1])
	}
}

func TestCyclesEmptyForAcyclicGraph(t *testing.T) {
	d := model.NewDraft()
	d.AddType(typeWithReturn("svc.A", "svc", ""))
	d.AddType(typeWithReturn("util.C", "util", ""))
	d.AddRelationship(model.NewReferences("svc.A", "util.C"))
	sm, err := d.Freeze()
	require.NoError(t, err)

	g := New(sm)
	assert.False(t, g.HasCycles())
	assert.Empty(t, g.Cycles())
}

func TestSamePackageReferenceNeverProducesAnEdge(t *testing.T) {
	// Construction explicitly skips Q == P (spec.md §4.3), so a package can
	// never gain a self-loop edge; Cycles' self-loop branch exists for
	// algorithmic completeness but is unreachable given this builder.
	d := model.NewDraft()
	d.AddType(typeWithReturn("svc.A", "svc", ""))
	d.AddType(typeWithReturn("svc.B", "svc", ""))
	d.AddRelationship(model.NewReferences("svc.A", "svc.B"))
	sm, err := d.Freeze()
	require.NoError(t, err)

	g := New(sm)
	assert.Empty(t, g.DependsOn("svc"))
	assert.False(t, g.HasCycles())
}
