package neuron

import "math"

// LIF is a leaky integrate-and-fire neuron. Currents are normalized so the
// firing threshold sits at J = 1: membrane voltage decays toward J with time
// constant TauRC, a spike fires when it crosses 1, and the voltage resets to
// zero for TauRef seconds.
type LIF struct {
	TauRC  float64
	TauRef float64

	voltage    []float64
	refractory []float64
}

func NewLIF() *LIF {
	return &LIF{TauRC: 0.02, TauRef: 0.002}
}

func (l *LIF) Spiking() bool { return true }

func (l *LIF) ensure(n int) {
	if len(l.voltage) != n {
		l.voltage = make([]float64, n)
		l.refractory = make([]float64, n)
	}
}

// Rates evaluates the analytic LIF response curve: zero below threshold,
// 1 / (tau_ref + tau_rc * ln(1 + 1/(J-1))) above it.
func (l *LIF) Rates(j []float64, out []float64) {
	for i, ji := range j {
		if ji > 1 {
			out[i] = 1.0 / (l.TauRef + l.TauRC*math.Log1p(1.0/(ji-1)))
		} else {
			out[i] = 0
		}
	}
}

func (l *LIF) Step(j []float64, dt float64, out []float64) {
	l.ensure(len(j))
	for i, ji := range j {
		// Voltage only integrates for the part of the step outside the
		// refractory window.
		delta := dt - l.refractory[i]
		if delta < 0 {
			delta = 0
		} else if delta > dt {
			delta = dt
		}

		v := l.voltage[i]
		v += (ji - v) * -math.Expm1(-delta/l.TauRC)

		l.refractory[i] -= dt
		if l.refractory[i] < 0 {
			l.refractory[i] = 0
		}

		if v > 1 {
			out[i] = 1.0 / dt
			v = 0
			l.refractory[i] = l.TauRef
		} else {
			out[i] = 0
		}
		if v < 0 {
			v = 0
		}
		l.voltage[i] = v
	}
}

// GainBias solves for the current scaling that makes each neuron start firing
// at its intercept and reach its maximum rate at the edge of the range.
func (l *LIF) GainBias(maxRates, intercepts []float64) (gain, bias []float64) {
	n := len(maxRates)
	gain = make([]float64, n)
	bias = make([]float64, n)
	for i := 0; i < n; i++ {
		// Current needed at x = 1 to fire at the maximum rate.
		jmax := 1.0 / (1.0 - math.Exp((l.TauRef-1.0/maxRates[i])/l.TauRC))
		gain[i] = (1 - jmax) / (intercepts[i] - 1)
		bias[i] = 1 - gain[i]*intercepts[i]
	}
	return gain, bias
}

func (l *LIF) Reset() {
	for i := range l.voltage {
		l.voltage[i] = 0
		l.refractory[i] = 0
	}
}

// LIFRate is the non-spiking rate approximation of LIF. It shares the tuning
// math but emits instantaneous rates every step, which makes decoding exact
// up to the solver error. Useful for fast runs and accuracy baselines.
type LIFRate struct {
	LIF
}

func NewLIFRate() *LIFRate {
	return &LIFRate{LIF{TauRC: 0.02, TauRef: 0.002}}
}

func (l *LIFRate) Spiking() bool { return false }

func (l *LIFRate) Step(j []float64, dt float64, out []float64) {
	l.Rates(j, out)
}

func (l *LIFRate) Reset() {}
