package mrf

import "sort"

// Model is the immutable graph structure of a pairwise MRF: a node arena plus
// a symmetric interaction graph.
//
// Adjacency is stored three ways, all derived once in NewModel:
// a boolean matrix for O(1) Interacts queries, sorted neighbor index lists
// for sweep iteration, and a canonical (i>j) edge list for per-edge tables.
// A Model is read-only after construction and safe for concurrent readers;
// engines that mutate per-run state must allocate their own tables.
type Model struct {
	nodes     []Node
	adj       [][]bool
	neighbors [][]int
	edges     [][2]int // canonical order: edges[k][0] > edges[k][1]
}

// NewModel builds a Model from a node list and an undirected edge list.
//
// Node Index fields are overwritten with the arena position; ID and Labels
// are taken as given. Edges are unordered pairs of arena indices; duplicates
// are ignored. The graph may be disconnected or edgeless — a lone node is a
// valid (degenerate) model.
//
// Errors: ErrNoNodes, ErrNoLabels, ErrSelfLoop, ErrNodeRange.
// Complexity: O(N² + E log E) time, O(N² + E) memory.
func NewModel(nodes []Node, edges [][2]int) (*Model, error) {
	n := len(nodes)
	if n == 0 {
		return nil, ErrNoNodes
	}

	m := &Model{
		nodes:     make([]Node, n),
		adj:       make([][]bool, n),
		neighbors: make([][]int, n),
	}

	var i, j int
	for i = 0; i < n; i++ {
		if len(nodes[i].Labels) == 0 {
			return nil, ErrNoLabels
		}
		m.nodes[i] = Node{
			Index:  i,
			ID:     nodes[i].ID,
			Labels: append([]int(nil), nodes[i].Labels...),
		}
		m.adj[i] = make([]bool, n)
	}

	// Mark adjacency symmetrically, rejecting loops and bad endpoints.
	for _, e := range edges {
		i, j = e[0], e[1]
		if i < 0 || i >= n || j < 0 || j >= n {
			return nil, ErrNodeRange
		}
		if i == j {
			return nil, ErrSelfLoop
		}
		m.adj[i][j] = true
		m.adj[j][i] = true
	}

	// Derive sorted neighbor lists and the canonical (i>j) edge list.
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if m.adj[i][j] {
				m.neighbors[i] = append(m.neighbors[i], j)
			}
		}
		sort.Ints(m.neighbors[i])
		for j = 0; j < i; j++ {
			if m.adj[i][j] {
				m.edges = append(m.edges, [2]int{i, j})
			}
		}
	}

	return m, nil
}

// NumNodes returns the number of nodes in the arena.
func (m *Model) NumNodes() int { return len(m.nodes) }

// NumLabels returns the label count of node i.
func (m *Model) NumLabels(i int) int { return len(m.nodes[i].Labels) }

// Node returns a copy of the node at arena index i.
// The Labels slice is shared and must be treated as read-only.
func (m *Model) Node(i int) Node { return m.nodes[i] }

// Interacts reports whether nodes i and j share an edge.
func (m *Model) Interacts(i, j int) bool { return m.adj[i][j] }

// Neighbors returns the sorted neighbor indices of node i.
// The returned slice is shared and must be treated as read-only.
func (m *Model) Neighbors(i int) []int { return m.neighbors[i] }

// Edges returns the undirected edges in canonical order: each entry is
// {i, j} with i > j, sorted by i then j. The returned slice is shared and
// must be treated as read-only.
func (m *Model) Edges() [][2]int { return m.edges }

// NumEdges returns the number of undirected edges.
func (m *Model) NumEdges() int { return len(m.edges) }
