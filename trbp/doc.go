// Package trbp computes an upper bound on the log partition function of a
// pairwise discrete MRF via Tree-Reweighted Belief Propagation.
//
// What & Why
//
//   - What is TRBP?
//     Belief propagation reweighted by edge appearance probabilities
//     ρ(i,j) ∈ (0,1] drawn from the spanning-tree polytope — the set of edge
//     vectors expressible as a convex combination of spanning-tree
//     indicators. For any feasible ρ the tree-reweighted Bethe free energy
//     is an upper bound on −RT·log Z, so
//     bound = −(F(ρ) + constantOffset)/RT ≥ log Z,
//     with equality on trees (where ρ ≡ 1 and BP is exact).
//
//   - Why bound log Z?
//     In the surrounding molecular-design system the partition function over
//     rotamer assignments decides whether a sequence is kept; an upper bound
//     that is exact on chains and cheap on loopy graphs prunes the search
//     without enumerating conformations.
//
// Algorithm Outline
//
//  1. Initializing — prefetch negated potentials into dense tables, set
//     messages to the neutral value (0 in log domain) and edge probabilities
//     to a convex combination of spanning trees covering every edge, a
//     feasible point on any graph (exactly 1 per edge on trees and forests,
//     exactly 1 on bridges).
//  2. InnerConverging — sweep damped log-domain message updates in a fixed
//     two-phase order (nodes 1..N−1 sending down, then N−2..0 sending up),
//     re-estimate marginals, and evaluate the free-energy bound; repeat until
//     |Δbound| ≤ InnerTolerance or MaxSweeps is exhausted.
//  3. EdgeUpdating — compare against the bound of the previous edge update;
//     if |Δ| ≤ OuterTolerance or MaxEdgeUpdates is reached, stop. Otherwise
//     take a Frank-Wolfe step toward the minimum spanning tree of the
//     negative-mutual-information edge weights (step 2/(k+4), which keeps ρ
//     inside the spanning-tree polytope) and return to step 2.
//  4. Done — report the minimum bound observed across edge updates. Damping
//     can transiently raise the estimate between updates, so the running
//     minimum, not the last value, is the bound.
//
// Numerical guards
//
//   - Every exponentiation runs through log-sum-exp with max shift.
//   - Edge probabilities are floored at ε = 1e−9 before dividing pairwise
//     potentials by them.
//   - Entropy and mutual-information terms that are zero or non-finite are
//     dropped.
//
// Complexity: O(sweeps · E · L²) time for L labels per node; memory is
// O(N·L + E·L²) for the potential, message and marginal tables. No RNG; the
// same model, energies and Options always produce the same Result.
//
// Errors
//
//	ErrNilModel, ErrNilEnergies — missing collaborators.
//	ErrBadDamping, ErrBadRT, ErrBadTolerance, ErrBadBudget — invalid Options.
//	ErrNonFiniteEnergy — the energy model returned NaN during prefetch.
//
// Concurrency: a call to ComputeUpperBound owns all of its tables; run
// concurrent bound computations by making concurrent calls, never by sharing
// a Result or Marginals mid-run.
//
// For examples of usage, see example_test.go in this package.
package trbp
