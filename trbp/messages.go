package trbp

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kvalteri/treebp/mrf"
)

// buildSweepOrder returns the fixed two-phase message ordering: first nodes
// 1..N−1 each send to all lower-indexed neighbors (in decreasing order), then
// nodes N−2..0 each send to all higher-indexed neighbors (in increasing
// order). Each entry is {sender, receiver}. The nested-loop convergence
// behavior of the engine depends on this exact order; it must not be
// randomized or parallelized.
func buildSweepOrder(m *mrf.Model) [][2]int {
	order := make([][2]int, 0, 2*m.NumEdges())
	n := m.NumNodes()
	var i, j int
	for i = 1; i < n; i++ {
		for j = i - 1; j >= 0; j-- {
			if m.Interacts(i, j) {
				order = append(order, [2]int{i, j})
			}
		}
	}
	for i = n - 2; i >= 0; i-- {
		for j = i + 1; j < n; j++ {
			if m.Interacts(i, j) {
				order = append(order, [2]int{i, j})
			}
		}
	}

	return order
}

// updateMessages runs one damped sweep over all directed messages in the
// fixed order and records the average absolute change in e.lastDelta.
func (e *engine) updateMessages() {
	var (
		total  float64   // Σ |stored − previous| over all message entries
		stored []float64 // message vector being updated in place
		raw    []float64 // freshly computed normalized log message
		old    float64   // stored entry before damping
		r      int       // receiver label position
	)
	for _, p := range e.order {
		raw = e.updatedLogMessage(p[0], p[1])
		stored = e.logMsg[p[0]][p[1]]
		for r = 0; r < len(stored); r++ {
			old = stored[r]
			stored[r] = e.opts.Damping*raw[r] + (1-e.opts.Damping)*old
			total += math.Abs(stored[r] - old)
		}
	}
	if e.numMessages > 0 {
		e.lastDelta = total / float64(e.numMessages)
	}
}

// updatedLogMessage computes the raw (undamped) log message from sender i to
// receiver j, one entry per label of j. For each receiver label the sender
// labels are combined by log-sum-exp of
//
//	(φ₂(i,ri,j,rj)/ρ(i,j) + φ₁(i,ri))/RT + sumLogMessage(i, ri, j)
//
// and the resulting vector is normalized by its own log-sum-exp so the
// implied probabilities sum to 1. The returned slice is a scratch buffer
// valid until the next call.
func (e *engine) updatedLogMessage(i, j int) []float64 {
	var (
		li    = e.model.NumLabels(i)
		lj    = e.model.NumLabels(j)
		rho   = e.edgeProb.At(i, j)
		out   = e.msgBuf[:lj]
		terms = e.termBuf[:li]

		ri, rj int
	)
	for rj = 0; rj < lj; rj++ {
		for ri = 0; ri < li; ri++ {
			terms[ri] = (e.pairPotential(i, ri, j, rj)/rho+e.pot1[i][ri])/e.opts.RT +
				e.sumLogMessage(i, ri, j)
		}
		out[rj] = floats.LogSumExp(terms)
	}
	lse := floats.LogSumExp(out)
	for rj = 0; rj < lj; rj++ {
		out[rj] -= lse
	}

	return out
}

// sumLogMessage aggregates the incoming log messages at sender i, label ri,
// excluding the edge toward receiver j per the TRBP message equation:
// Σ_{v∈N(i), v≠j} ρ(i,v)·logMsg(v→i, ri) − (1−ρ(i,j))·logMsg(j→i, ri).
// The subtraction removes the double counting along the i–j edge.
func (e *engine) sumLogMessage(i, ri, j int) float64 {
	var sum float64
	for _, v := range e.model.Neighbors(i) {
		if v == j {
			continue
		}
		sum += e.edgeProb.At(i, v) * e.logMsg[v][i][ri]
	}
	sum -= (1 - e.edgeProb.At(i, j)) * e.logMsg[j][i][ri]

	return sum
}

// pairPotential returns the negated pairwise energy φ₂ for arena indices
// (i, ri, j, rj) from the canonical (i>j) prefetched grid.
func (e *engine) pairPotential(i, ri, j, rj int) float64 {
	if i > j {
		return e.pot2[i][j].At(ri, rj)
	}

	return e.pot2[j][i].At(rj, ri)
}
