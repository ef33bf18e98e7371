package metrics

import "nefsim/internal/nef"

// Saturation reports the fraction of steps on which any decoded value left
// the given representational limit. A high value means an ensemble radius is
// too small for the signals flowing through it.
type Saturation struct {
	limit      float64
	violations int
	samples    int
}

func NewSaturation(limit float64) *Saturation {
	return &Saturation{limit: limit}
}

func (s *Saturation) Name() string { return "saturation" }

func (s *Saturation) Observe(f *nef.Frame) {
	s.samples++
	for _, dec := range f.Decoded {
		if dec.Norm() > s.limit {
			s.violations++
			break
		}
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.violations = 0
	s.samples = 0
}
