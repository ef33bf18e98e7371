package neuron

// RectifiedLinear is a non-spiking threshold-linear unit: activity is the
// input current clipped at zero. Its threshold sits at J = 0 rather than
// LIF's J = 1, which GainBias accounts for.
type RectifiedLinear struct{}

func NewRectifiedLinear() *RectifiedLinear {
	return &RectifiedLinear{}
}

func (r *RectifiedLinear) Spiking() bool { return false }

func (r *RectifiedLinear) Rates(j []float64, out []float64) {
	for i, ji := range j {
		if ji > 0 {
			out[i] = ji
		} else {
			out[i] = 0
		}
	}
}

func (r *RectifiedLinear) Step(j []float64, dt float64, out []float64) {
	r.Rates(j, out)
}

func (r *RectifiedLinear) GainBias(maxRates, intercepts []float64) (gain, bias []float64) {
	n := len(maxRates)
	gain = make([]float64, n)
	bias = make([]float64, n)
	for i := 0; i < n; i++ {
		gain[i] = maxRates[i] / (1 - intercepts[i])
		bias[i] = -intercepts[i] * gain[i]
	}
	return gain, bias
}

func (r *RectifiedLinear) Reset() {}
