// Package metrics provides run metrics observed during simulation.
package metrics

import "nefsim/internal/nef"

// MeanRate reports the average firing rate across all ensembles, in Hz.
// Spike outputs are emitted as 1/dt, so their per-step mean is an unbiased
// rate estimate; for rate models the activity already is the rate.
type MeanRate struct {
	sum     float64
	samples int
}

func NewMeanRate() *MeanRate {
	return &MeanRate{}
}

func (m *MeanRate) Name() string { return "mean_rate" }

func (m *MeanRate) Observe(f *nef.Frame) {
	for _, activity := range f.Spikes {
		for _, a := range activity {
			m.sum += a
			m.samples++
		}
	}
}

func (m *MeanRate) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanRate) Reset() {
	m.sum = 0
	m.samples = 0
}
