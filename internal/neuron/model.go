package neuron

import "fmt"

// Model maps input current to neuron activity. Rates gives the steady-state
// firing rate for a constant current; Step advances internal dynamics by dt
// and writes the instantaneous output (spikes are emitted as 1/dt so that a
// filtered spike train integrates to the firing rate).
type Model interface {
	Rates(j []float64, out []float64)
	Step(j []float64, dt float64, out []float64)
	GainBias(maxRates, intercepts []float64) (gain, bias []float64)
	Spiking() bool
	Reset()
}

// New returns a fresh model instance by registry name.
func New(name string) (Model, error) {
	switch name {
	case "lif":
		return NewLIF(), nil
	case "lifrate":
		return NewLIFRate(), nil
	case "relu":
		return NewRectifiedLinear(), nil
	}
	return nil, fmt.Errorf("unknown neuron model: %s", name)
}

func List() []string {
	return []string{"lif", "lifrate", "relu"}
}
