package mrf

// TableEnergies is a map-backed EnergyModel for callers that assemble their
// energy matrix in memory (and for tests). Pairwise entries are stored under
// a canonical key ordering, so lookups are symmetric by construction.
//
// Missing entries read as 0, which lets sparse problems set only the energies
// that matter. TableEnergies is not safe for concurrent mutation; freeze it
// before handing it to an engine.
type TableEnergies struct {
	offset float64
	one    map[[2]int]float64
	pair   map[[4]int]float64
}

// NewTableEnergies returns an empty table with the given constant offset.
func NewTableEnergies(offset float64) *TableEnergies {
	return &TableEnergies{
		offset: offset,
		one:    make(map[[2]int]float64),
		pair:   make(map[[4]int]float64),
	}
}

// SetOneBody stores the singleton energy of (nodeID, labelID).
func (t *TableEnergies) SetOneBody(nodeID, labelID int, e float64) {
	t.one[[2]int{nodeID, labelID}] = e
}

// SetPairwise stores the interaction energy of a label pair. The key is
// canonicalized on the node IDs, so either argument order hits the same slot.
func (t *TableEnergies) SetPairwise(nodeID1, labelID1, nodeID2, labelID2 int, e float64) {
	t.pair[pairKey(nodeID1, labelID1, nodeID2, labelID2)] = e
}

// OneBody implements EnergyModel. Missing entries read as 0.
func (t *TableEnergies) OneBody(nodeID, labelID int) float64 {
	return t.one[[2]int{nodeID, labelID}]
}

// Pairwise implements EnergyModel; symmetric in argument order.
// Missing entries read as 0.
func (t *TableEnergies) Pairwise(nodeID1, labelID1, nodeID2, labelID2 int) float64 {
	return t.pair[pairKey(nodeID1, labelID1, nodeID2, labelID2)]
}

// ConstantOffset implements EnergyModel.
func (t *TableEnergies) ConstantOffset() float64 { return t.offset }

// pairKey orders the two (node, label) halves by node ID so that symmetric
// lookups collide. Ties on equal node IDs cannot occur in a valid model
// (self-loops are rejected by NewModel).
func pairKey(n1, l1, n2, l2 int) [4]int {
	if n1 > n2 {
		return [4]int{n2, l2, n1, l1}
	}

	return [4]int{n1, l1, n2, l2}
}
