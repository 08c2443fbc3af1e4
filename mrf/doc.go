// Package mrf defines the pairwise Markov Random Field model consumed by the
// trbp engine: a node arena with discrete labels, a symmetric interaction
// graph, and the EnergyModel contract for potential lookup.
//
// What & Why
//
//   - What is a pairwise MRF?
//     An undirected graphical model over N discrete variables. Node i carries
//     an ordered list of labels (its admissible states); every node has a
//     one-body energy per label, and every interacting pair (i,j) has a
//     two-body energy per label pair. The Boltzmann weight of a joint
//     assignment is exp(−E/RT) where E sums the constant offset, all one-body
//     terms, and all two-body terms.
//
//   - Why a separate package?
//     The inference engine only needs three things: the interaction topology,
//     the label counts, and an energy lookup. Keeping those behind Model and
//     EnergyModel lets callers plug in synthetic in-memory tables for testing
//     or adapt an external molecular-modeling energy matrix without the
//     engine knowing either way.
//
// Design
//
//   - Model stores nodes in an arena addressed by integer index (0..N−1) with
//     adjacency expressed as index lists — never as mutual object references.
//   - Node.ID and Node.Labels hold the opaque external identifiers used to
//     query the EnergyModel; the engine never interprets them.
//   - Model is immutable after NewModel and safe for concurrent readers.
//
// Errors
//
//	ErrNoNodes   — model must contain at least one node.
//	ErrNoLabels  — every node must carry at least one label.
//	ErrSelfLoop  — the interaction graph has no self-loops.
//	ErrNodeRange — an edge endpoint is outside [0, N).
//
// For examples of usage, see the example_test.go files in package trbp.
package mrf
