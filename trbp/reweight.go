package trbp

import (
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// initEdgeProbabilities seeds ρ with a convex combination of spanning trees
// (forests, on disconnected graphs) that together cover every edge: trees are
// extracted with Kruskal, each extraction preferring still-uncovered edges,
// until no edge is left out, and ρ(i,j) is the fraction of extracted trees
// containing (i,j). The starting point is feasible on any graph — bridges,
// which every spanning tree must contain, start at exactly 1, tree and forest
// inputs start at exactly 1 on every edge, and every edge gets at least 1/T.
// Extraction is index-tiebroken and deterministic.
func (e *engine) initEdgeProbabilities() {
	edges := e.model.Edges()
	if len(edges) == 0 {
		return
	}
	var (
		covered   = make([]bool, len(edges))
		counts    = make([]int, len(edges))
		trees     int
		uncovered = len(edges)
	)
	for uncovered > 0 {
		// Uncovered edges weigh ~0 and covered ones ~1, so each extraction
		// packs a maximal acyclic set of uncovered edges into its tree.
		src := simple.NewWeightedUndirectedGraph(0, 0)
		var w float64
		for k, ed := range edges {
			w = float64(k) * mstTieEpsilon
			if covered[k] {
				w++
			}
			src.SetWeightedEdge(src.NewWeightedEdge(simple.Node(int64(ed[0])), simple.Node(int64(ed[1])), w))
		}
		tree := simple.NewWeightedUndirectedGraph(0, 0)
		path.Kruskal(tree, src)
		trees++
		for k, ed := range edges {
			if tree.WeightedEdge(int64(ed[0]), int64(ed[1])) == nil {
				continue
			}
			counts[k]++
			if !covered[k] {
				covered[k] = true
				uncovered--
			}
		}
	}
	for k, ed := range edges {
		e.edgeProb.SetSym(ed[0], ed[1], float64(counts[k])/float64(trees))
	}
}

// updateEdgeProbabilities performs one Frank-Wolfe step: the minimum spanning
// tree (forest, on disconnected graphs) of the −MI edge weights is the
// descent direction, and
//
//	ρ ← ρ + step·(treeIndicator − ρ),  step = 2/(iter+4)
//
// keeps ρ a convex combination of tree indicators, hence inside the
// spanning-tree polytope. This form of the mix is exact at its fixed points:
// an edge whose ρ already equals the indicator — bridges and tree edges at
// 1 in particular — does not drift. Equal weights are tiebroken by edge index
// so the chosen tree is deterministic.
func (e *engine) updateEdgeProbabilities(iter int) {
	if e.model.NumEdges() == 0 {
		return
	}

	src := simple.NewWeightedUndirectedGraph(0, 0)
	var i, j int
	for k, ed := range e.model.Edges() {
		i, j = ed[0], ed[1]
		w := e.edgeWeight.At(i, j) + float64(k)*mstTieEpsilon
		src.SetWeightedEdge(src.NewWeightedEdge(simple.Node(int64(i)), simple.Node(int64(j)), w))
	}
	tree := simple.NewWeightedUndirectedGraph(0, 0)
	path.Kruskal(tree, src)

	step := 2.0 / (float64(iter) + 4.0)
	var indicator, rho float64
	for _, ed := range e.model.Edges() {
		i, j = ed[0], ed[1]
		indicator = 0
		if tree.WeightedEdge(int64(i), int64(j)) != nil {
			indicator = 1
		}
		rho = e.edgeProb.At(i, j)
		e.edgeProb.SetSym(i, j, clampEdgeProbability(rho+step*(indicator-rho)))
	}
}

// clampEdgeProbability floors p at minEdgeProbability and caps it at 1.
func clampEdgeProbability(p float64) float64 {
	if p < minEdgeProbability {
		return minEdgeProbability
	}
	if p > 1 {
		return 1
	}

	return p
}
