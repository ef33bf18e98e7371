package metrics

import (
	"math"
	"testing"

	"nefsim/internal/nef"
)

func frameWith(t float64, decoded nef.Signal, spikes []float64) *nef.Frame {
	return &nef.Frame{
		T:       t,
		Decoded: map[string]nef.Signal{"a": decoded},
		Spikes:  map[string][]float64{"a": spikes},
	}
}

func TestMeanRate(t *testing.T) {
	m := NewMeanRate()
	m.Observe(frameWith(0.001, nef.Signal{0}, []float64{100, 300}))
	m.Observe(frameWith(0.002, nef.Signal{0}, []float64{200, 400}))

	if m.Value() != 250 {
		t.Errorf("expected mean rate 250, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestSaturation(t *testing.T) {
	s := NewSaturation(1.0)
	s.Observe(frameWith(0.001, nef.Signal{0.5}, nil))
	s.Observe(frameWith(0.002, nef.Signal{1.5}, nil))
	s.Observe(frameWith(0.003, nef.Signal{-0.2}, nil))
	s.Observe(frameWith(0.004, nef.Signal{-1.2}, nil))

	if s.Value() != 0.5 {
		t.Errorf("expected saturation 0.5, got %f", s.Value())
	}
}

func TestTrackingError(t *testing.T) {
	ref := func(t float64) nef.Signal { return nef.Signal{t} }
	e := NewTrackingError("a", ref, 0.5)

	// Within the skip window: ignored.
	e.Observe(frameWith(0.1, nef.Signal{99}, nil))
	if e.Value() != 0 {
		t.Errorf("transient should be skipped, got %f", e.Value())
	}

	// Constant offset of 0.1 -> RMSE 0.1.
	e.Observe(frameWith(1.0, nef.Signal{1.1}, nil))
	e.Observe(frameWith(2.0, nef.Signal{2.1}, nil))
	if math.Abs(e.Value()-0.1) > 1e-9 {
		t.Errorf("expected rmse 0.1, got %f", e.Value())
	}

	if e.Name() != "rmse_a" {
		t.Errorf("unexpected metric name %q", e.Name())
	}
}

func TestTrackingErrorUnknownTarget(t *testing.T) {
	e := NewTrackingError("missing", func(t float64) nef.Signal { return nef.Signal{0} }, 0)
	e.Observe(frameWith(1.0, nef.Signal{1}, nil))
	if e.Value() != 0 {
		t.Errorf("expected 0 for unknown target, got %f", e.Value())
	}
}
