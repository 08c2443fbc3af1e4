// Shared model builders and the brute-force log-partition reference used
// across the package tests.
package trbp_test

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kvalteri/treebp/mrf"
)

// uniformNodes builds n nodes with l labels each. External IDs are 100+i and
// label IDs are 1..l, deliberately different from the arena positions so the
// tests exercise the external-identifier mapping.
func uniformNodes(n, l int) []mrf.Node {
	out := make([]mrf.Node, n)
	for i := 0; i < n; i++ {
		labels := make([]int, l)
		for r := 0; r < l; r++ {
			labels[r] = r + 1
		}
		out[i] = mrf.Node{ID: 100 + i, Labels: labels}
	}

	return out
}

// chainEdges returns the path 0–1–…–(n−1).
func chainEdges(n int) [][2]int {
	edges := make([][2]int, 0, n-1)
	for i := 1; i < n; i++ {
		edges = append(edges, [2]int{i - 1, i})
	}

	return edges
}

// completeEdges returns all unordered pairs over n nodes.
func completeEdges(n int) [][2]int {
	var edges [][2]int
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}

	return edges
}

// lollipopEdges returns a triangle 0–1–2 plus the bridge 2–3: the smallest
// connected graph mixing a cycle with a cut edge.
func lollipopEdges() [][2]int {
	return [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}}
}

// smoothEnergies fills a table with small deterministic energies: a shifted
// quadratic per label for one-body terms and a label-distance well for
// pairwise terms. Magnitudes stay within a few RT at RT=1 so damped message
// passing settles quickly.
func smoothEnergies(nodes []mrf.Node, edges [][2]int, offset float64) *mrf.TableEnergies {
	return scaledEnergies(nodes, edges, offset, 1)
}

// scaledEnergies is smoothEnergies with every one-body and pairwise term
// multiplied by scale, to sharpen or flatten the same landscape.
func scaledEnergies(nodes []mrf.Node, edges [][2]int, offset, scale float64) *mrf.TableEnergies {
	te := mrf.NewTableEnergies(offset)
	for _, nd := range nodes {
		for _, lb := range nd.Labels {
			te.SetOneBody(nd.ID, lb, scale*(0.4*float64(lb*lb)-0.9*float64(lb)+0.15*float64(nd.ID-100)))
		}
	}
	for _, e := range edges {
		ni, nj := nodes[e[0]], nodes[e[1]]
		for _, li := range ni.Labels {
			for _, lj := range nj.Labels {
				d := float64(li - lj)
				te.SetPairwise(ni.ID, li, nj.ID, lj, scale*(0.3*d*d-0.25+0.05*float64(e[0]+e[1])))
			}
		}
	}

	return te
}

// bruteForceLogZ enumerates every joint assignment and returns
// log Σ exp(−(E_total)/rt), E_total including the constant offset. Only
// usable on tiny models; the tests keep label-space sizes below 100.
func bruteForceLogZ(m *mrf.Model, en mrf.EnergyModel, rt float64) float64 {
	n := m.NumNodes()
	assign := make([]int, n)
	var terms []float64

	var rec func(i int)
	rec = func(i int) {
		if i == n {
			total := en.ConstantOffset()
			for a := 0; a < n; a++ {
				na := m.Node(a)
				total += en.OneBody(na.ID, na.Labels[assign[a]])
				for b := 0; b < a; b++ {
					if m.Interacts(a, b) {
						nb := m.Node(b)
						total += en.Pairwise(na.ID, na.Labels[assign[a]], nb.ID, nb.Labels[assign[b]])
					}
				}
			}
			terms = append(terms, -total/rt)

			return
		}
		for r := 0; r < m.NumLabels(i); r++ {
			assign[i] = r
			rec(i + 1)
		}
	}
	rec(0)

	return floats.LogSumExp(terms)
}

// minOf returns the minimum of a non-empty slice.
func minOf(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		if x < m {
			m = x
		}
	}

	return m
}
