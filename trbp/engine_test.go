// Package trbp_test validates the TRBP driver end to end.
// Focus areas:
//  1. Exactness on degenerate and tree-structured models (single node,
//     two-node edge, chain, forest) against brute-force enumeration.
//  2. The upper-bound property on loopy graphs.
//  3. Running-minimum bookkeeping across edge updates.
//  4. Budget-exhaustion statuses.
package trbp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvalteri/treebp/mrf"
	"github.com/kvalteri/treebp/trbp"
)

// tightOptions returns RT=1 options with a tolerance small enough that the
// bound has settled onto its fixed point for the exactness assertions.
func tightOptions() trbp.Options {
	opts := trbp.DefaultOptions()
	opts.RT = 1.0
	opts.InnerTolerance = 1e-9
	opts.OuterTolerance = 1e-6
	opts.MaxSweeps = 5000

	return opts
}

// TestComputeUpperBound_SingleNodeExact: a lone node has no edges, so the
// bound must equal log Σ_r exp(−(E(r)+offset)/RT) to float precision.
func TestComputeUpperBound_SingleNodeExact(t *testing.T) {
	nodes := uniformNodes(1, 3)
	m, err := mrf.NewModel(nodes, nil)
	require.NoError(t, err)

	te := mrf.NewTableEnergies(0.7)
	te.SetOneBody(100, 1, 1.2)
	te.SetOneBody(100, 2, 0.3)
	te.SetOneBody(100, 3, 2.0)

	opts := trbp.DefaultOptions()
	opts.RT = 1.0
	res, err := trbp.ComputeUpperBound(m, te, opts)
	require.NoError(t, err)

	want := bruteForceLogZ(m, te, opts.RT)
	assert.InDelta(t, want, res.Bound, 1e-9, "single-node bound must be exact")
	assert.Equal(t, trbp.StatusConverged, res.Status)
	assert.Equal(t, 0.0, res.LastDelta, "no edges means no message changes")
}

// TestComputeUpperBound_TwoNodeTreeExact: with a single edge there is only
// one spanning tree, so ρ(0,1) must be exactly 1 and belief propagation is
// exact.
func TestComputeUpperBound_TwoNodeTreeExact(t *testing.T) {
	nodes := uniformNodes(2, 2)
	edges := [][2]int{{0, 1}}
	m, err := mrf.NewModel(nodes, edges)
	require.NoError(t, err)
	te := smoothEnergies(nodes, edges, 0.25)

	res, err := trbp.ComputeUpperBound(m, te, tightOptions())
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.EdgeProbability(0, 1), "only spanning tree ⇒ ρ must be exactly 1")
	assert.Equal(t, 1.0, res.EdgeProbability(1, 0), "edge probability must be symmetric")
	assert.Equal(t, trbp.StatusConverged, res.Status)

	want := bruteForceLogZ(m, te, 1.0)
	assert.InDelta(t, want, res.Bound, 1e-6, "BP on a tree must be exact")
}

// TestComputeUpperBound_ChainExactWithinBudget: the 4-node, 3-label chain of
// the reference scenario must converge within 200 sweeps and land within
// 1e−4 of the brute-force log partition function (chains are exact).
func TestComputeUpperBound_ChainExactWithinBudget(t *testing.T) {
	nodes := uniformNodes(4, 3)
	edges := chainEdges(4)
	m, err := mrf.NewModel(nodes, edges)
	require.NoError(t, err)
	te := smoothEnergies(nodes, edges, 0)

	opts := trbp.DefaultOptions()
	opts.RT = 1.0
	opts.InnerTolerance = 1e-6
	res, err := trbp.ComputeUpperBound(m, te, opts)
	require.NoError(t, err)

	assert.Equal(t, trbp.StatusConverged, res.Status)
	assert.LessOrEqual(t, res.Sweeps, 200, "chain must settle well within the sweep budget")

	want := bruteForceLogZ(m, te, 1.0)
	assert.InDelta(t, want, res.Bound, 1e-4, "chain bound must match brute force")

	// Every chain edge sits in the unique spanning tree.
	for _, e := range edges {
		assert.Equal(t, 1.0, res.EdgeProbability(e[0], e[1]))
	}
}

// TestComputeUpperBound_ForestExact: a disconnected model (one edge plus an
// isolated node) is valid input and, being a forest, exact.
func TestComputeUpperBound_ForestExact(t *testing.T) {
	nodes := uniformNodes(3, 2)
	edges := [][2]int{{1, 0}}
	m, err := mrf.NewModel(nodes, edges)
	require.NoError(t, err)
	te := smoothEnergies(nodes, edges, -0.5)

	res, err := trbp.ComputeUpperBound(m, te, tightOptions())
	require.NoError(t, err)

	assert.Equal(t, trbp.StatusConverged, res.Status)
	assert.Equal(t, 1.0, res.EdgeProbability(0, 1), "forest edge must clamp to 1")
	assert.Equal(t, 0.0, res.EdgeProbability(2, 0), "absent edge reads as 0")

	want := bruteForceLogZ(m, te, 1.0)
	assert.InDelta(t, want, res.Bound, 1e-6, "forests are exact under BP")
}

// TestComputeUpperBound_UpperBoundOnLoopyGraph: on a fully connected triangle
// the bound must dominate the true log partition function.
func TestComputeUpperBound_UpperBoundOnLoopyGraph(t *testing.T) {
	nodes := uniformNodes(3, 2)
	edges := completeEdges(3)
	m, err := mrf.NewModel(nodes, edges)
	require.NoError(t, err)

	for _, offset := range []float64{0, 1.3} {
		te := smoothEnergies(nodes, edges, offset)
		res, err := trbp.ComputeUpperBound(m, te, tightOptions())
		require.NoError(t, err)
		require.NotEqual(t, trbp.StatusMaxSweeps, res.Status)

		want := bruteForceLogZ(m, te, 1.0)
		assert.GreaterOrEqual(t, res.Bound, want-1e-9,
			"TRBP must upper-bound the true log partition function (offset=%v)", offset)
	}
}

// TestComputeUpperBound_UpperBoundWithBridge: a triangle with a pendant edge
// is connected but not edge-transitive, so the starting edge probabilities
// cannot be uniform — the bridge lies in every spanning tree and must carry
// ρ = 1 from the start. Every per-edge-update bound, the first one included
// (evaluated at the starting probabilities), must dominate the true log
// partition function across energy scales.
func TestComputeUpperBound_UpperBoundWithBridge(t *testing.T) {
	nodes := uniformNodes(4, 2)
	edges := lollipopEdges()
	m, err := mrf.NewModel(nodes, edges)
	require.NoError(t, err)

	for _, scale := range []float64{0.5, 1, 2, 4} {
		te := scaledEnergies(nodes, edges, 0, scale)
		res, err := trbp.ComputeUpperBound(m, te, tightOptions())
		require.NoError(t, err)
		require.NotEqual(t, trbp.StatusMaxSweeps, res.Status)

		assert.Equal(t, 1.0, res.EdgeProbability(2, 3),
			"bridge must carry ρ = 1 (scale=%v)", scale)

		want := bruteForceLogZ(m, te, 1.0)
		assert.GreaterOrEqual(t, res.Bound, want-1e-7,
			"bound must dominate log Z (scale=%v)", scale)
		for k, b := range res.BoundHistory {
			assert.GreaterOrEqual(t, b, want-1e-7,
				"history[%d] below log Z (scale=%v)", k, scale)
		}
	}
}

// TestComputeUpperBound_ZeroPotentialsExact: with all energies zero the
// marginals are uniform, every MI is 0, and the bound equals Σ_n log L_n
// even on a loopy graph.
func TestComputeUpperBound_ZeroPotentialsExact(t *testing.T) {
	nodes := uniformNodes(3, 2)
	m, err := mrf.NewModel(nodes, completeEdges(3))
	require.NoError(t, err)
	te := mrf.NewTableEnergies(0)

	res, err := trbp.ComputeUpperBound(m, te, trbp.DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 3*math.Log(2), res.Bound, 1e-9)
	assert.Equal(t, trbp.StatusConverged, res.Status)
}

// TestComputeUpperBound_RunningMinimum: the returned bound must be the
// minimum of the per-edge-update history, and the history reduced via
// running minimum is non-increasing by construction — verify both.
func TestComputeUpperBound_RunningMinimum(t *testing.T) {
	nodes := uniformNodes(4, 2)
	edges := completeEdges(4)
	m, err := mrf.NewModel(nodes, edges)
	require.NoError(t, err)
	te := smoothEnergies(nodes, edges, 0)

	opts := trbp.DefaultOptions()
	opts.RT = 1.0
	opts.OuterTolerance = 1e-12 // force several edge updates
	opts.MaxEdgeUpdates = 8
	res, err := trbp.ComputeUpperBound(m, te, opts)
	require.NoError(t, err)
	require.NotEmpty(t, res.BoundHistory)
	require.Equal(t, len(res.BoundHistory), res.EdgeUpdates)

	assert.Equal(t, minOf(res.BoundHistory), res.Bound, "Bound must be the running minimum")
	running := math.Inf(1)
	for k, b := range res.BoundHistory {
		assert.GreaterOrEqual(t, b, res.Bound, "history[%d] below the reported minimum", k)
		if b < running {
			running = b
		}
	}
	assert.Equal(t, res.Bound, running)
}

// TestComputeUpperBound_StatusMaxSweeps: a one-sweep budget cannot satisfy
// any tolerance (the first comparison is against +Inf), so the run must
// abort with StatusMaxSweeps and still report a finite bound.
func TestComputeUpperBound_StatusMaxSweeps(t *testing.T) {
	nodes := uniformNodes(3, 2)
	edges := completeEdges(3)
	m, err := mrf.NewModel(nodes, edges)
	require.NoError(t, err)
	te := smoothEnergies(nodes, edges, 0)

	opts := trbp.DefaultOptions()
	opts.RT = 1.0
	opts.MaxSweeps = 1
	res, err := trbp.ComputeUpperBound(m, te, opts)
	require.NoError(t, err)

	assert.Equal(t, trbp.StatusMaxSweeps, res.Status)
	assert.Equal(t, 1, res.EdgeUpdates)
	assert.Equal(t, 1, res.Sweeps)
	assert.False(t, math.IsInf(res.Bound, 0), "aborted run must still report the best bound seen")
}

// TestComputeUpperBound_StatusMaxEdgeUpdates: with a single outer iteration
// allowed and an unreachable outer tolerance, the run must stop at the cap.
func TestComputeUpperBound_StatusMaxEdgeUpdates(t *testing.T) {
	nodes := uniformNodes(3, 2)
	edges := completeEdges(3)
	m, err := mrf.NewModel(nodes, edges)
	require.NoError(t, err)
	te := smoothEnergies(nodes, edges, 0)

	opts := trbp.DefaultOptions()
	opts.RT = 1.0
	opts.MaxEdgeUpdates = 1
	res, err := trbp.ComputeUpperBound(m, te, opts)
	require.NoError(t, err)

	// The first outer pass always compares against +Inf, so a cap of 1 can
	// never satisfy OuterTolerance.
	assert.Equal(t, trbp.StatusMaxEdgeUpdates, res.Status)
	assert.Equal(t, 1, res.EdgeUpdates)
}

// TestComputeUpperBound_Deterministic: identical inputs must reproduce the
// identical bound, sweep count and history.
func TestComputeUpperBound_Deterministic(t *testing.T) {
	nodes := uniformNodes(4, 3)
	edges := completeEdges(4)
	m, err := mrf.NewModel(nodes, edges)
	require.NoError(t, err)
	te := smoothEnergies(nodes, edges, 0.1)

	opts := trbp.DefaultOptions()
	opts.RT = 1.0
	a, err := trbp.ComputeUpperBound(m, te, opts)
	require.NoError(t, err)
	b, err := trbp.ComputeUpperBound(m, te, opts)
	require.NoError(t, err)

	assert.Equal(t, a.Bound, b.Bound)
	assert.Equal(t, a.Sweeps, b.Sweeps)
	assert.Equal(t, a.BoundHistory, b.BoundHistory)
}
