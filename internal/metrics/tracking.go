package metrics

import (
	"fmt"
	"math"

	"nefsim/internal/nef"
)

// TrackingError accumulates the RMSE between an ensemble's decoded value and
// a reference function of time, ignoring an initial transient while filters
// settle.
type TrackingError struct {
	target  string
	ref     func(t float64) nef.Signal
	skip    float64
	sum     float64
	samples int
}

func NewTrackingError(target string, ref func(t float64) nef.Signal, skip float64) *TrackingError {
	return &TrackingError{target: target, ref: ref, skip: skip}
}

func (e *TrackingError) Name() string { return fmt.Sprintf("rmse_%s", e.target) }

func (e *TrackingError) Observe(f *nef.Frame) {
	if f.T < e.skip {
		return
	}
	dec, ok := f.Decoded[e.target]
	if !ok {
		return
	}
	want := e.ref(f.T)
	for i := range dec {
		if i >= len(want) {
			break
		}
		diff := dec[i] - want[i]
		e.sum += diff * diff
		e.samples++
	}
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sum / float64(e.samples))
}

func (e *TrackingError) Reset() {
	e.sum = 0
	e.samples = 0
}
