// Package treebp bounds the log partition function of pairwise discrete
// Markov Random Fields with Tree-Reweighted Belief Propagation (TRBP).
//
// 🚀 What is treebp?
//
//	A deterministic, allocation-conscious inference library that brings together:
//		• mrf/  — the graphical model: node arena, labels, interaction graph,
//		          and the narrow EnergyModel contract for potential lookup
//		• trbp/ — the engine: log-domain damped message passing, marginal
//		          estimation, variational free energy, and Frank-Wolfe
//		          reweighting over minimum spanning trees
//
// ✨ Why choose treebp?
//
//   - Guaranteed upper bound — TRBP optimizes over a convex combination of
//     spanning trees, so the returned value is ≥ log Z for any input
//   - Exact on trees — chains and forests recover the true log partition
//     function (edge probabilities collapse to 1)
//   - Numerically guarded — log-sum-exp everywhere, epsilon-floored edge
//     probabilities, zero/non-finite entropy terms dropped
//   - Deterministic — fixed two-phase sweep order, index-tiebroken spanning
//     trees, no RNG; the same inputs always yield the same bound
//
// Quick ASCII example:
//
//	0───1───2───3   a 4-node chain: one spanning tree, so the TRBP
//	                bound equals the exact log partition function.
//
// The caller owns all I/O: treebp consumes an in-memory model plus an
// energy accessor and returns a scalar bound with normalized marginals.
//
//	go get github.com/kvalteri/treebp
package treebp
