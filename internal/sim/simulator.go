package sim

import (
	"context"
	"fmt"

	"nefsim/internal/nef"
)

// Simulator builds a network into runnable state and steps it. Instances
// are NOT thread-safe; for parallel seed sweeps use [Sweep].
type Simulator struct {
	net       *nef.Network
	metrics   []nef.Metric
	observers []nef.Observer

	built     bool
	seed      int64
	ensembles []*builtEnsemble
	ensByName map[string]*builtEnsemble
	conns     []*builtConn
	nodes     []*nef.Node
	nodeOut   map[string]nef.Signal

	t     float64
	step  int
	frame *nef.Frame
}

func New(net *nef.Network) *Simulator {
	return &Simulator{
		net:       net,
		metrics:   make([]nef.Metric, 0),
		observers: make([]nef.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m nef.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o nef.Observer) { s.observers = append(s.observers, o) }

// Build constructs encoders, tuning curves, and decoders for the given seed.
// Run calls it implicitly; live views call it directly before stepping.
func (s *Simulator) Build(seed int64) error {
	return s.build(seed)
}

// Reset rewinds simulation state (voltages, filters, time) without
// re-solving decoders.
func (s *Simulator) Reset() {
	if !s.built {
		return
	}
	for _, be := range s.ensembles {
		be.model.Reset()
		be.decFilter.Reset()
		for i := range be.activity {
			be.activity[i] = 0
		}
		for i := range be.input {
			be.input[i] = 0
		}
		for i := range be.decodedRaw {
			be.decodedRaw[i] = 0
		}
	}
	for _, bc := range s.conns {
		bc.filter.Reset()
	}
	s.t = 0
	s.step = 0
}

// Step advances the whole network by dt and returns the resulting frame.
// The frame's maps are reused between calls.
func (s *Simulator) Step(dt float64) (*nef.Frame, error) {
	if !s.built {
		return nil, nef.ErrNotBuilt
	}
	s.t += dt
	s.step++

	for _, node := range s.nodes {
		s.nodeOut[node.Name] = node.Fn(s.t)
	}

	// Connection values are computed from the previous step's activity, so
	// ensemble-to-ensemble signals see a one-step delay.
	for _, be := range s.ensembles {
		for i := range be.input {
			be.input[i] = 0
		}
	}
	for _, bc := range s.conns {
		if bc.preNode != nil {
			out := s.nodeOut[bc.preNode.Name]
			if len(out) != bc.srcDim {
				return nil, fmt.Errorf("%w: node %q emitted %d values, declared %d",
					nef.ErrDimensionMismatch, bc.preNode.Name, len(out), bc.srcDim)
			}
			copy(bc.src, out)
		} else {
			decode(bc.decoders, bc.preEns.activity, bc.src)
		}

		if bc.conn.Transform == nil {
			copy(bc.raw, bc.src)
		} else {
			for i, row := range bc.conn.Transform {
				sum := 0.0
				for q, w := range row {
					sum += w * bc.src[q]
				}
				bc.raw[i] = sum
			}
		}

		filtered := bc.filter.Step(bc.raw, dt)
		for i := range filtered {
			bc.post.input[i] += filtered[i]
		}
	}

	for _, be := range s.ensembles {
		radius := be.ens.Radius
		for i := range be.current {
			dot := 0.0
			for q, e := range be.encoders[i] {
				dot += e * be.input[q]
			}
			be.current[i] = be.gain[i]*dot/radius + be.bias[i]
		}
		be.model.Step(be.current, dt, be.activity)

		decode(be.identity, be.activity, be.decodedRaw)
		filtered := be.decFilter.Step(be.decodedRaw, dt)

		s.frame.Decoded[be.ens.Name] = nef.Signal(filtered)
		s.frame.Spikes[be.ens.Name] = be.activity
	}

	for name, out := range s.nodeOut {
		s.frame.Node[name] = out
	}
	s.frame.T = s.t
	s.frame.Step = s.step

	for _, m := range s.metrics {
		m.Observe(s.frame)
	}
	for _, o := range s.observers {
		o.OnStep(s.frame)
	}
	return s.frame, nil
}

// Run executes a full fixed-duration simulation, sampling probes and
// collecting metrics.
func (s *Simulator) Run(ctx context.Context, cfg nef.Config) (*nef.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if !s.built || s.seed != cfg.Seed {
		if err := s.build(cfg.Seed); err != nil {
			return nil, err
		}
	} else {
		s.Reset()
	}

	sampleEvery := cfg.SampleEvery
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	probes := s.net.Probes()

	result := &nef.Result{
		Times:   make([]float64, 0, steps/sampleEvery+1),
		Probes:  make(map[string][]nef.Signal, len(probes)),
		Metrics: make(map[string]float64),
	}
	for _, p := range probes {
		result.Probes[p.Name] = make([]nef.Signal, 0, steps/sampleEvery+1)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		frame, err := s.Step(cfg.Dt)
		if err != nil {
			return result, err
		}
		result.StepsTaken++

		if cfg.ValidateState {
			for name, dec := range frame.Decoded {
				if !dec.IsValid() {
					return result, fmt.Errorf("%w: ensemble %q at t=%.4f", nef.ErrInvalidState, name, frame.T)
				}
			}
		}

		if i%sampleEvery != 0 {
			continue
		}
		result.Times = append(result.Times, frame.T)
		for _, p := range probes {
			var v nef.Signal
			switch p.Attr {
			case nef.AttrOutput:
				v = frame.Node[p.Target].Clone()
			case nef.AttrDecoded:
				v = frame.Decoded[p.Target].Clone()
			case nef.AttrSpikes:
				v = nef.Signal(frame.Spikes[p.Target]).Clone()
			}
			result.Probes[p.Name] = append(result.Probes[p.Name], v)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func validateConfig(cfg nef.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func decode(decoders [][]float64, activity []float64, out nef.Signal) {
	for q := range out {
		out[q] = 0
	}
	for i, a := range activity {
		if a == 0 {
			continue
		}
		for q, w := range decoders[i] {
			out[q] += a * w
		}
	}
}
