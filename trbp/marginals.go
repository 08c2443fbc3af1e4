package trbp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/kvalteri/treebp/mrf"
)

// Marginals holds the current belief estimates: one probability per
// (node, label) and one dense grid per interacting edge. Node rows sum to 1
// and edge grids sum to 1 over all label pairs.
//
// Access is index-based (arena index, label position) and pairwise access is
// symmetric: Pairwise(i,ri,j,rj) == Pairwise(j,rj,i,ri). The tables are
// overwritten in place on every sweep of the engine.
type Marginals struct {
	one  [][]float64    // [node][label]
	pair [][]*mat.Dense // [i][j] for j < i; nil when (i,j) is absent
}

// newMarginals allocates zeroed belief tables shaped after the model.
func newMarginals(m *mrf.Model) *Marginals {
	n := m.NumNodes()
	mg := &Marginals{
		one:  make([][]float64, n),
		pair: make([][]*mat.Dense, n),
	}
	var i int
	for i = 0; i < n; i++ {
		mg.one[i] = make([]float64, m.NumLabels(i))
		mg.pair[i] = make([]*mat.Dense, i)
	}
	for _, e := range m.Edges() {
		mg.pair[e[0]][e[1]] = mat.NewDense(m.NumLabels(e[0]), m.NumLabels(e[1]), nil)
	}

	return mg
}

// OneBody returns the singleton belief of (node, label) by arena index and
// label position.
func (mg *Marginals) OneBody(node, label int) float64 {
	return mg.one[node][label]
}

// Pairwise returns the edge belief of (i, ri, j, rj), symmetric in argument
// order. Non-interacting pairs (including i == j) read as 0.
func (mg *Marginals) Pairwise(i, ri, j, rj int) float64 {
	if i == j {
		return 0
	}
	if i < j {
		i, j = j, i
		ri, rj = rj, ri
	}
	g := mg.pair[i][j]
	if g == nil {
		return 0
	}

	return g.At(ri, rj)
}

// updateMarginals recomputes every node and edge belief from the current
// messages and potentials. Nodes first, then edges in canonical order.
func (e *engine) updateMarginals() {
	var i int
	for i = 0; i < e.n; i++ {
		e.updateNodeMarginal(i)
	}
	for _, ed := range e.model.Edges() {
		e.updateEdgeMarginal(ed[0], ed[1])
	}
}

// updateNodeMarginal sets the belief row of node i to the normalized
// exponential of φ(i,r)/RT plus the ρ-weighted incoming log messages.
func (e *engine) updateNodeMarginal(i int) {
	row := e.marg.one[i]
	var (
		r   int     // label position at node i
		sum float64 // ρ-weighted incoming log messages at label r
	)
	for r = 0; r < len(row); r++ {
		sum = 0
		for _, v := range e.model.Neighbors(i) {
			sum += e.edgeProb.At(i, v) * e.logMsg[v][i][r]
		}
		row[r] = e.pot1[i][r]/e.opts.RT + sum
	}
	lse := floats.LogSumExp(row)
	for r = 0; r < len(row); r++ {
		row[r] = math.Exp(row[r] - lse)
	}
}

// updateEdgeMarginal sets the belief grid of edge (i,j), i > j, to the
// normalized exponential of the reweighted pair potential plus both
// directions of aggregated log messages.
func (e *engine) updateEdgeMarginal(i, j int) {
	var (
		li   = e.model.NumLabels(i)
		lj   = e.model.NumLabels(j)
		grid = e.marg.pair[i][j]
		rho  = e.edgeProb.At(i, j)
		buf  = e.gridBuf[:li*lj]

		ri, rj int
		u      float64
	)
	for ri = 0; ri < li; ri++ {
		for rj = 0; rj < lj; rj++ {
			u = (e.pot2[i][j].At(ri, rj)/rho + e.pot1[i][ri] + e.pot1[j][rj]) / e.opts.RT
			u += e.sumLogMessage(i, ri, j) + e.sumLogMessage(j, rj, i)
			buf[ri*lj+rj] = u
		}
	}
	lse := floats.LogSumExp(buf)
	for ri = 0; ri < li; ri++ {
		for rj = 0; rj < lj; rj++ {
			grid.Set(ri, rj, math.Exp(buf[ri*lj+rj]-lse))
		}
	}
}
