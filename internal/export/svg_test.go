package export

import (
	"strings"
	"testing"

	"nefsim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 3)

	svg := CanvasToSVG(c, 4)
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}

	if CanvasToSVG(nil, 4) != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestTraceToSVG(t *testing.T) {
	times := []float64{0, 0.001, 0.002, 0.003}
	values := []float64{0, 0.5, 1.0, 0.5}

	svg := TraceToSVG(times, values, 400, 200, "#00ffcc")
	if !strings.Contains(svg, "<path") {
		t.Error("expected a path element")
	}
	if !strings.Contains(svg, "#00ffcc") {
		t.Error("expected stroke color in output")
	}

	if TraceToSVG(times[:1], values[:1], 400, 200, "#fff") != "" {
		t.Error("expected empty output for a single sample")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	points := []struct{ X, Y float64 }{{-1, 0}, {0, 1}, {1, 0}}
	svg := TrajectoryToSVG(points, 300, 300, "#ff00ff")
	if !strings.Contains(svg, " L") {
		t.Error("expected polyline segments")
	}
}
