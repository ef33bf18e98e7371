package sim

import (
	"fmt"
	"math"
	"math/rand"

	"nefsim/internal/nef"
	"nefsim/internal/neuron"
	"nefsim/internal/solver"
)

// Number of decoder evaluation points per ensemble, scaled up for large
// populations so the least-squares problem stays overdetermined.
const minEvalPoints = 500

type builtEnsemble struct {
	ens      *nef.Ensemble
	model    neuron.Model
	gain     []float64
	bias     []float64
	encoders [][]float64 // neurons x dims

	input    nef.Signal // summed connection inputs, represented space
	current  []float64  // input current scratch
	activity []float64  // model output this step

	identity   [][]float64 // neurons x dims decoders for the identity
	decodedRaw nef.Signal
	decFilter  *Lowpass
}

type builtConn struct {
	conn     *nef.Connection
	preNode  *nef.Node
	preEns   *builtEnsemble
	post     *builtEnsemble
	decoders [][]float64 // neurons x srcDim, nil for node sources
	srcDim   int
	src      nef.Signal
	raw      nef.Signal // transformed value, post dims
	filter   *Lowpass
}

// build turns the static network into runnable state: tuning curves,
// encoders, and decoders, all derived from the run seed.
func (s *Simulator) build(seed int64) error {
	if err := s.net.Validate(); err != nil {
		return err
	}

	s.ensembles = s.ensembles[:0]
	s.ensByName = make(map[string]*builtEnsemble)
	s.conns = s.conns[:0]

	lsq := solver.NewLstsqL2()

	for idx, ens := range s.net.Ensembles() {
		ensSeed := ens.Seed
		if ensSeed == 0 {
			ensSeed = seed + int64(idx)*1000003
		}
		rng := rand.New(rand.NewSource(ensSeed))

		model, err := neuron.New(ens.Model)
		if err != nil {
			return fmt.Errorf("ensemble %q: %w", ens.Name, err)
		}

		n, d := ens.Neurons, ens.Dimensions
		maxRates := make([]float64, n)
		intercepts := make([]float64, n)
		for i := 0; i < n; i++ {
			maxRates[i] = ens.MaxRateLow + (ens.MaxRateHigh-ens.MaxRateLow)*rng.Float64()
			intercepts[i] = ens.InterceptLow + (ens.InterceptHigh-ens.InterceptLow)*rng.Float64()
		}
		gain, bias := model.GainBias(maxRates, intercepts)

		be := &builtEnsemble{
			ens:        ens,
			model:      model,
			gain:       gain,
			bias:       bias,
			encoders:   unitEncoders(rng, n, d),
			input:      make(nef.Signal, d),
			current:    make([]float64, n),
			activity:   make([]float64, n),
			decodedRaw: make(nef.Signal, d),
			decFilter:  NewLowpass(nef.DefaultProbeSynapse, d),
		}

		points := evalPoints(rng, evalCount(n), d, ens.Radius)
		A := tuningCurves(be, points)

		targets := make([][]float64, len(points))
		for k := range points {
			targets[k] = points[k]
		}
		be.identity, err = lsq.Solve(A, targets)
		if err != nil {
			return fmt.Errorf("ensemble %q identity decoders: %w", ens.Name, err)
		}

		// Connection decoders share the ensemble's eval points.
		for _, c := range s.net.Connections() {
			if c.Pre != ens.Name {
				continue
			}
			bc := &builtConn{conn: c, preEns: be}
			if c.Function == nil {
				bc.decoders = be.identity
				bc.srcDim = d
			} else {
				fnTargets := make([][]float64, len(points))
				for k := range points {
					fnTargets[k] = c.Function(nef.Signal(points[k]))
				}
				bc.decoders, err = lsq.Solve(A, fnTargets)
				if err != nil {
					return fmt.Errorf("connection %s->%s decoders: %w", c.Pre, c.Post, err)
				}
				bc.srcDim = c.FnDim
			}
			s.conns = append(s.conns, bc)
		}

		s.ensembles = append(s.ensembles, be)
		s.ensByName[ens.Name] = be
	}

	for _, node := range s.net.Nodes() {
		for _, c := range s.net.Connections() {
			if c.Pre != node.Name {
				continue
			}
			s.conns = append(s.conns, &builtConn{conn: c, preNode: node, srcDim: node.Size})
		}
	}

	for _, bc := range s.conns {
		bc.post = s.ensByName[bc.conn.Post]
		postDim := bc.post.ens.Dimensions
		bc.src = make(nef.Signal, bc.srcDim)
		bc.raw = make(nef.Signal, postDim)
		bc.filter = NewLowpass(bc.conn.Synapse, postDim)
	}

	// A decoded probe's synapse overrides the default decode filter.
	for _, p := range s.net.Probes() {
		if p.Attr != nef.AttrDecoded {
			continue
		}
		if be, ok := s.ensByName[p.Target]; ok && p.Synapse > 0 {
			be.decFilter.Tau = p.Synapse
		}
	}

	s.nodes = s.net.Nodes()
	s.nodeOut = make(map[string]nef.Signal, len(s.nodes))

	s.frame = &nef.Frame{
		Node:    make(map[string]nef.Signal),
		Decoded: make(map[string]nef.Signal),
		Spikes:  make(map[string][]float64),
	}

	s.seed = seed
	s.built = true
	s.t = 0
	s.step = 0
	return nil
}

func evalCount(neurons int) int {
	if 2*neurons > minEvalPoints {
		return 2 * neurons
	}
	return minEvalPoints
}

// unitEncoders draws encoders uniformly from the unit hypersphere.
func unitEncoders(rng *rand.Rand, n, d int) [][]float64 {
	enc := make([][]float64, n)
	for i := 0; i < n; i++ {
		e := make([]float64, d)
		if d == 1 {
			if rng.Float64() < 0.5 {
				e[0] = 1
			} else {
				e[0] = -1
			}
		} else {
			norm := 0.0
			for norm == 0 {
				for j := 0; j < d; j++ {
					e[j] = rng.NormFloat64()
				}
				norm = nef.Signal(e).Norm()
			}
			for j := 0; j < d; j++ {
				e[j] /= norm
			}
		}
		enc[i] = e
	}
	return enc
}

// evalPoints samples decoder evaluation points uniformly over the
// represented range: an interval for 1-D, a ball for higher dimensions.
func evalPoints(rng *rand.Rand, m, d int, radius float64) [][]float64 {
	points := make([][]float64, m)
	for k := 0; k < m; k++ {
		p := make([]float64, d)
		if d == 1 {
			p[0] = radius * (2*rng.Float64() - 1)
		} else {
			norm := 0.0
			for norm == 0 {
				for j := 0; j < d; j++ {
					p[j] = rng.NormFloat64()
				}
				norm = nef.Signal(p).Norm()
			}
			r := radius * math.Pow(rng.Float64(), 1.0/float64(d))
			for j := 0; j < d; j++ {
				p[j] *= r / norm
			}
		}
		points[k] = p
	}
	return points
}

// tuningCurves evaluates steady-state activities at each point.
func tuningCurves(be *builtEnsemble, points [][]float64) [][]float64 {
	n := be.ens.Neurons
	radius := be.ens.Radius
	A := make([][]float64, len(points))
	j := make([]float64, n)
	for k, p := range points {
		for i := 0; i < n; i++ {
			dot := 0.0
			for q, e := range be.encoders[i] {
				dot += e * p[q]
			}
			j[i] = be.gain[i]*dot/radius + be.bias[i]
		}
		A[k] = make([]float64, n)
		be.model.Rates(j, A[k])
	}
	return A
}
