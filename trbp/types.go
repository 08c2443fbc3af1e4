// This file declares Options, Status, Result, the package constants and the
// sentinel errors for the TRBP engine.
package trbp

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for engine construction and option validation.
var (
	// ErrNilModel indicates a nil *mrf.Model was supplied.
	ErrNilModel = errors.New("trbp: model must not be nil")

	// ErrNilEnergies indicates a nil EnergyModel was supplied.
	ErrNilEnergies = errors.New("trbp: energy model must not be nil")

	// ErrBadDamping indicates Options.Damping outside (0, 1].
	ErrBadDamping = errors.New("trbp: damping must lie in (0, 1]")

	// ErrBadRT indicates Options.RT is not a finite positive value.
	ErrBadRT = errors.New("trbp: RT must be finite and positive")

	// ErrBadTolerance indicates a convergence tolerance that is not positive.
	ErrBadTolerance = errors.New("trbp: tolerances must be positive")

	// ErrBadBudget indicates an iteration cap below 1.
	ErrBadBudget = errors.New("trbp: iteration budgets must be at least 1")

	// ErrNonFiniteEnergy indicates the energy model returned NaN.
	ErrNonFiniteEnergy = errors.New("trbp: energy model returned NaN")
)

// DefaultRT is the gas constant times temperature at 298.15 K, in kcal/mol —
// the unit convention of the molecular energy matrices this engine was built
// for. Callers working in other units must set Options.RT themselves.
const DefaultRT = 1.9891 / 1000.0 * 298.15

// minEdgeProbability floors every present-edge probability, guarding the
// division of pairwise potentials by ρ(i,j) against a Frank-Wolfe iterate
// that drives an edge to zero.
const minEdgeProbability = 1e-9

// mstTieEpsilon is a per-edge index perturbation added to the spanning-tree
// weights so that equal-weight edges are selected in a deterministic order.
// It is orders of magnitude below any meaningful mutual-information gap.
const mstTieEpsilon = 1e-12

// Options configures a TRBP bound computation.
// Use DefaultOptions() for the standard setup; zero values are rejected.
type Options struct {
	// RT is the gas constant times temperature, in the energy model's units.
	RT float64

	// Damping mixes each raw message into the stored one:
	// stored = Damping·raw + (1−Damping)·stored, applied directly in the log
	// domain. This is an approximation for stability, not a true log-domain
	// mixture, and is kept exactly as the reference formulation defines it.
	Damping float64

	// InnerTolerance stops message sweeps once |Δbound| falls below it.
	InnerTolerance float64

	// OuterTolerance stops edge-probability updates once the converged
	// bound moves less than it between consecutive updates.
	OuterTolerance float64

	// MaxSweeps caps the message sweeps of one inner loop. Exhausting it
	// aborts the run with StatusMaxSweeps instead of looping forever.
	MaxSweeps int

	// MaxEdgeUpdates caps the outer Frank-Wolfe iterations.
	MaxEdgeUpdates int
}

// DefaultOptions returns the standard configuration:
//
//	– RT             = DefaultRT (kcal/mol at 298.15 K)
//	– Damping        = 0.5
//	– InnerTolerance = 1e−3
//	– OuterTolerance = 1e−3
//	– MaxSweeps      = 1000
//	– MaxEdgeUpdates = 20
//
// Complexity: O(1) to construct.
func DefaultOptions() Options {
	return Options{
		RT:             DefaultRT,
		Damping:        0.5,
		InnerTolerance: 1e-3,
		OuterTolerance: 1e-3,
		MaxSweeps:      1000,
		MaxEdgeUpdates: 20,
	}
}

// Status reports how a bound computation terminated.
type Status int

const (
	// StatusConverged means consecutive edge updates changed the bound by at
	// most OuterTolerance.
	StatusConverged Status = iota

	// StatusMaxEdgeUpdates means the outer cap was reached first; the bound
	// is still valid, just not outer-converged.
	StatusMaxEdgeUpdates

	// StatusMaxSweeps means an inner loop exhausted MaxSweeps without the
	// bound settling; the run was aborted with the best bound seen so far.
	StatusMaxSweeps
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxEdgeUpdates:
		return "max edge updates reached"
	case StatusMaxSweeps:
		return "max sweeps reached"
	default:
		return "unknown"
	}
}

// Result holds the outcome of ComputeUpperBound.
type Result struct {
	// Bound is the minimum log-partition-function upper bound observed
	// across all edge updates.
	Bound float64

	// Status records how the run terminated.
	Status Status

	// Marginals are the node and edge beliefs of the final inner
	// convergence. They belong to the last iterate, which is not necessarily
	// the one that produced Bound.
	Marginals *Marginals

	// EdgeUpdates is the number of outer iterations performed.
	EdgeUpdates int

	// Sweeps is the total number of message sweeps across all inner loops.
	Sweeps int

	// LastDelta is the average absolute message change of the final sweep.
	LastDelta float64

	// BoundHistory records the converged bound of each edge update, in
	// order. Bound is its minimum.
	BoundHistory []float64

	edgeProb *mat.SymDense
}

// EdgeProbability returns the final spanning-tree edge probability ρ(i,j)
// for arena indices i and j, or 0 for absent edges (including i == j).
func (r *Result) EdgeProbability(i, j int) float64 {
	if i == j {
		return 0
	}

	return r.edgeProb.At(i, j)
}
