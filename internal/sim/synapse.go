package sim

import "math"

// Lowpass is a first-order exponential filter. A filtered spike train
// integrates to the underlying firing rate, which is what makes decoded
// values readable from spiking ensembles.
type Lowpass struct {
	Tau   float64
	state []float64
}

func NewLowpass(tau float64, dim int) *Lowpass {
	return &Lowpass{Tau: tau, state: make([]float64, dim)}
}

// Step advances the filter by dt and returns the filtered value. The
// returned slice aliases internal state and is only valid until the next
// call. A zero time constant passes the input through.
func (l *Lowpass) Step(x []float64, dt float64) []float64 {
	if l.Tau <= 0 {
		copy(l.state, x)
		return l.state
	}
	a := -math.Expm1(-dt / l.Tau)
	for i := range l.state {
		l.state[i] += a * (x[i] - l.state[i])
	}
	return l.state
}

func (l *Lowpass) Reset() {
	for i := range l.state {
		l.state[i] = 0
	}
}

func (l *Lowpass) Value() []float64 { return l.state }
