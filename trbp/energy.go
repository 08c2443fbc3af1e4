package trbp

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// upperBound evaluates the current log-partition-function upper bound:
// −(F + constantOffset)/RT with F the tree-reweighted variational free
// energy of the current marginals.
func (e *engine) upperBound() float64 {
	return -(e.freeEnergy() + e.offset) / e.opts.RT
}

// freeEnergy returns enthalpy − RT·entropy.
func (e *engine) freeEnergy() float64 {
	return e.enthalpy() - e.opts.RT*e.entropy()
}

// enthalpy is the expected energy under the current marginals. The prefetched
// potentials are negated energies, hence the minus signs.
func (e *engine) enthalpy() float64 {
	var (
		h    float64
		i, r int
	)
	for i = 0; i < e.n; i++ {
		for r = 0; r < len(e.pot1[i]); r++ {
			h += -e.pot1[i][r] * e.marg.one[i][r]
		}
	}
	var ri, rj, li, lj int
	for _, ed := range e.model.Edges() {
		i, j := ed[0], ed[1]
		li, lj = e.model.NumLabels(i), e.model.NumLabels(j)
		for ri = 0; ri < li; ri++ {
			for rj = 0; rj < lj; rj++ {
				h += -e.pot2[i][j].At(ri, rj) * e.marg.pair[i][j].At(ri, rj)
			}
		}
	}

	return h
}

// entropy is the tree-reweighted entropy Σ_n H(b_n) − Σ_(i,j) ρ(i,j)·MI(i,j).
// As a side effect it refreshes the edge weight table with −MI(i,j), the
// descent weights consumed by the next spanning-tree update.
func (e *engine) entropy() float64 {
	var (
		s  float64
		i  int
		mi float64
	)
	for i = 0; i < e.n; i++ {
		s += stat.Entropy(e.marg.one[i])
	}
	for _, ed := range e.model.Edges() {
		mi = e.mutualInformation(ed[0], ed[1])
		e.edgeWeight.SetSym(ed[0], ed[1], -mi)
		s -= e.edgeProb.At(ed[0], ed[1]) * mi
	}

	return s
}

// mutualInformation computes Σ b(ri,rj)·log(b(ri,rj)/(b(ri)·b(rj))) over the
// edge grid. Terms with any zero probability contribute 0, and terms that
// evaluate to a non-finite value are dropped — this guards the 0·log 0 and
// log 0 singularities of sparse beliefs.
func (e *engine) mutualInformation(i, j int) float64 {
	var (
		li   = e.model.NumLabels(i)
		lj   = e.model.NumLabels(j)
		grid = e.marg.pair[i][j]

		ri, rj         int
		pij, pi, pj, t float64
		mi             float64
	)
	for ri = 0; ri < li; ri++ {
		pi = e.marg.one[i][ri]
		for rj = 0; rj < lj; rj++ {
			pij = grid.At(ri, rj)
			pj = e.marg.one[j][rj]
			if pij == 0 || pi == 0 || pj == 0 {
				continue
			}
			t = pij * math.Log(pij/(pi*pj))
			if !math.IsInf(t, 0) && !math.IsNaN(t) {
				mi += t
			}
		}
	}

	return mi
}
