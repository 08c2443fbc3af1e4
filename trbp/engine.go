package trbp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/kvalteri/treebp/mrf"
)

// engine holds the mutable state of one bound computation. All tables are
// allocated once in newEngine and reused across sweeps to avoid per-iteration
// allocations; an engine is owned by exactly one ComputeUpperBound call.
type engine struct {
	model *mrf.Model
	opts  Options

	n       int
	nLabels []int

	// Prefetched negated energies: pot1[i][r] = −OneBody, pot2[i][j] (i>j)
	// holds −Pairwise grids with rows indexed by labels of i.
	pot1   [][]float64
	pot2   [][]*mat.Dense
	offset float64

	edgeProb   *mat.SymDense // ρ(i,j); 0 for absent edges
	edgeWeight *mat.SymDense // −MI(i,j), refreshed by entropy()

	// logMsg[sender][receiver][receiver label], log domain, neutral value 0.
	logMsg      [][][]float64
	order       [][2]int
	numMessages int

	marg *Marginals

	// Scratch buffers sized to the largest label count / edge grid.
	termBuf []float64
	msgBuf  []float64
	gridBuf []float64

	lastDelta float64
	sweeps    int
}

// newEngine validates the energies while prefetching them into dense tables
// (NaN anywhere → ErrNonFiniteEnergy) and allocates all working state.
func newEngine(m *mrf.Model, en mrf.EnergyModel, opts Options) (*engine, error) {
	n := m.NumNodes()
	e := &engine{
		model:       m,
		opts:        opts,
		n:           n,
		nLabels:     make([]int, n),
		pot1:        make([][]float64, n),
		pot2:        make([][]*mat.Dense, n),
		edgeProb:    mat.NewSymDense(n, nil),
		edgeWeight:  mat.NewSymDense(n, nil),
		logMsg:      make([][][]float64, n),
		order:       buildSweepOrder(m),
		numMessages: 2 * m.NumEdges(),
		marg:        newMarginals(m),
	}

	// One-body prefetch with strict NaN sentinels.
	var (
		maxL, maxGrid int
		i, r          int
		v             float64
	)
	for i = 0; i < n; i++ {
		nd := m.Node(i)
		e.nLabels[i] = len(nd.Labels)
		if e.nLabels[i] > maxL {
			maxL = e.nLabels[i]
		}
		e.pot1[i] = make([]float64, e.nLabels[i])
		for r = 0; r < e.nLabels[i]; r++ {
			v = en.OneBody(nd.ID, nd.Labels[r])
			if math.IsNaN(v) {
				return nil, ErrNonFiniteEnergy
			}
			e.pot1[i][r] = -v
		}
		e.pot2[i] = make([]*mat.Dense, i)
	}

	// Pairwise prefetch over present edges only.
	var ri, rj int
	for _, ed := range m.Edges() {
		ndI, ndJ := m.Node(ed[0]), m.Node(ed[1])
		li, lj := len(ndI.Labels), len(ndJ.Labels)
		if li*lj > maxGrid {
			maxGrid = li * lj
		}
		grid := mat.NewDense(li, lj, nil)
		for ri = 0; ri < li; ri++ {
			for rj = 0; rj < lj; rj++ {
				v = en.Pairwise(ndI.ID, ndI.Labels[ri], ndJ.ID, ndJ.Labels[rj])
				if math.IsNaN(v) {
					return nil, ErrNonFiniteEnergy
				}
				grid.Set(ri, rj, -v)
			}
		}
		e.pot2[ed[0]][ed[1]] = grid
	}

	e.offset = en.ConstantOffset()
	if math.IsNaN(e.offset) {
		return nil, ErrNonFiniteEnergy
	}

	// Messages start at the neutral value: log of a uniform unnormalized
	// message is 0 for every entry.
	for _, p := range e.order {
		e.logMsg[p[0]] = ensureRow(e.logMsg[p[0]], n)
		e.logMsg[p[0]][p[1]] = make([]float64, e.nLabels[p[1]])
	}

	e.termBuf = make([]float64, maxL)
	e.msgBuf = make([]float64, maxL)
	if maxGrid > 0 {
		e.gridBuf = make([]float64, maxGrid)
	}

	e.initEdgeProbabilities()

	return e, nil
}

// ensureRow lazily allocates the receiver dimension of the message tensor.
func ensureRow(row [][]float64, n int) [][]float64 {
	if row == nil {
		return make([][]float64, n)
	}

	return row
}

// validateOptions rejects out-of-range configuration with strict sentinels.
func validateOptions(opts Options) error {
	if !(opts.Damping > 0 && opts.Damping <= 1) {
		return ErrBadDamping
	}
	if !(opts.RT > 0) || math.IsInf(opts.RT, 0) {
		return ErrBadRT
	}
	if !(opts.InnerTolerance > 0) || !(opts.OuterTolerance > 0) {
		return ErrBadTolerance
	}
	if opts.MaxSweeps < 1 || opts.MaxEdgeUpdates < 1 {
		return ErrBadBudget
	}

	return nil
}

// ComputeUpperBound runs the full TRBP state machine on the given model and
// energies and returns the best (minimum) log-partition-function upper bound
// observed, with the marginals of the final inner convergence.
//
// The driver alternates two loops: the inner loop sweeps damped message
// updates until the bound settles within InnerTolerance (or MaxSweeps runs
// out), the outer loop reweights edge probabilities toward the minimum
// spanning tree of the −MI weights until the converged bound settles within
// OuterTolerance (or MaxEdgeUpdates runs out). The bound is not guaranteed
// monotone between edge updates — damping can transiently raise it — so the
// running minimum is retained.
//
// Errors: ErrNilModel, ErrNilEnergies, option sentinels, ErrNonFiniteEnergy.
// Complexity: O(sweeps · E · L²) time, O(N·L + E·L²) memory.
func ComputeUpperBound(model *mrf.Model, energies mrf.EnergyModel, opts Options) (*Result, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if energies == nil {
		return nil, ErrNilEnergies
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	e, err := newEngine(model, energies, opts)
	if err != nil {
		return nil, err
	}

	var (
		best      = math.Inf(1) // running minimum over edge updates
		lastOuter = math.Inf(1) // bound at the previous edge update
		status    = StatusMaxEdgeUpdates
		history   = make([]float64, 0, opts.MaxEdgeUpdates)

		update int
		bound  float64
		ok     bool
	)
	for update = 0; update < opts.MaxEdgeUpdates; update++ {
		bound, ok = e.innerConverge()
		history = append(history, bound)
		if bound < best {
			best = bound
		}
		if !ok {
			status = StatusMaxSweeps
			break
		}
		if math.Abs(lastOuter-bound) <= opts.OuterTolerance {
			status = StatusConverged
			break
		}
		if update+1 == opts.MaxEdgeUpdates {
			// Cap reached: stop without another reweighting step, so the
			// reported probabilities are the ones the last inner loop used.
			break
		}
		lastOuter = bound
		e.updateEdgeProbabilities(update)
	}

	return &Result{
		Bound:        best,
		Status:       status,
		Marginals:    e.marg,
		EdgeUpdates:  len(history),
		Sweeps:       e.sweeps,
		LastDelta:    e.lastDelta,
		BoundHistory: history,
		edgeProb:     e.edgeProb,
	}, nil
}

// innerConverge sweeps messages, marginals and the free-energy bound until
// |Δbound| ≤ InnerTolerance, returning the converged bound and true; if
// MaxSweeps is exhausted first it returns the last bound and false.
func (e *engine) innerConverge() (float64, bool) {
	var (
		last  = math.Inf(1)
		bound float64
		s     int
	)
	for s = 0; s < e.opts.MaxSweeps; s++ {
		e.sweeps++
		e.updateMessages()
		e.updateMarginals()
		bound = e.upperBound()
		if math.Abs(last-bound) <= e.opts.InnerTolerance {
			return bound, true
		}
		last = bound
	}

	return last, false
}
