// This file declares Node, the EnergyModel contract, and the package's
// sentinel errors.
package mrf

import "errors"

// Sentinel errors for model construction.
var (
	// ErrNoNodes indicates that NewModel was called with an empty node list.
	ErrNoNodes = errors.New("mrf: model requires at least one node")

	// ErrNoLabels indicates that a node carries no labels.
	ErrNoLabels = errors.New("mrf: node requires at least one label")

	// ErrSelfLoop indicates an edge whose endpoints coincide.
	ErrSelfLoop = errors.New("mrf: self-loops are not allowed")

	// ErrNodeRange indicates an edge endpoint outside [0, NumNodes).
	ErrNodeRange = errors.New("mrf: edge endpoint out of range")
)

// Node is one discrete variable of the model.
//
// Index is the node's position in the arena (assigned by NewModel).
// ID is the opaque external identifier of the variable (e.g. a design
// position) and Labels are the opaque external identifiers of its states
// (e.g. rotamers), in the order the engine iterates them. Both are used only
// to query the EnergyModel.
type Node struct {
	// Index is the arena position, 0..N−1. Set by NewModel.
	Index int

	// ID is the external identifier passed to EnergyModel lookups.
	ID int

	// Labels holds the external label identifiers, ordered.
	Labels []int
}

// EnergyModel supplies the precomputed energies of the model.
//
// Implementations must be symmetric in argument order: Pairwise(i,ri,j,rj)
// and Pairwise(j,rj,i,ri) must return the same value. All methods must be
// pure and safe for repeated calls; the engine prefetches them once per run.
// Energies are in the caller's units (conventionally kcal/mol); NaN values
// are rejected by the engine.
type EnergyModel interface {
	// OneBody returns the singleton energy of label labelID at node nodeID.
	OneBody(nodeID, labelID int) float64

	// Pairwise returns the interaction energy of the label pair. The value
	// must not depend on the order of the two (node, label) arguments.
	Pairwise(nodeID1, labelID1, nodeID2, labelID2 int) float64

	// ConstantOffset returns the constant energy added to every assignment.
	ConstantOffset() float64
}
