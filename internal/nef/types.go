package nef

import "math"

type Signal []float64

func (s Signal) Clone() Signal {
	c := make(Signal, len(s))
	copy(c, s)
	return c
}

func (s Signal) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s Signal) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// NodeFn produces a node's output signal at simulation time t.
type NodeFn func(t float64) Signal

// Frame is the snapshot of all observable signals after one step.
// Probe sampling, metrics, and the live view all read from it.
type Frame struct {
	T       float64
	Step    int
	Node    map[string]Signal
	Decoded map[string]Signal
	Spikes  map[string][]float64
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f *Frame)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		Duration:      1.0,
		SampleEvery:   1,
		ValidateState: true,
	}
}

type Result struct {
	Times      []float64
	Probes     map[string][]Signal
	Metrics    map[string]float64
	StepsTaken int
}
