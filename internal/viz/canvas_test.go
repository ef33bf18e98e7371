package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)

	out := c.String()
	if !strings.ContainsRune(out, 0x2801) {
		t.Errorf("expected dot 1 set, got %q", out)
	}

	// Out of range is ignored.
	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 19, 19)

	lit := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("expected line to light cells")
	}
}

func TestRasterScrolls(t *testing.T) {
	r := NewRaster(4, 3)
	for i := 0; i < 5; i++ {
		r.Observe([]float64{1000, 0, 0, 0})
	}
	if len(r.events) != 3 {
		t.Errorf("expected raster to keep 3 columns, got %d", len(r.events))
	}

	out := r.Render(4, 1)
	if out == "" {
		t.Error("expected non-empty raster output")
	}
}

func TestRasterFoldsLargePopulations(t *testing.T) {
	// 100 neurons into 1 character row (4 dot rows) must not drop events.
	r := NewRaster(100, 10)
	spikes := make([]float64, 100)
	spikes[99] = 1000
	r.Observe(spikes)

	out := r.Render(5, 1)
	lit := false
	for _, c := range out {
		if c != 0x2800 && c != '\n' {
			lit = true
		}
	}
	if !lit {
		t.Error("expected folded spike to appear on the raster")
	}
}

func TestSparklineChart(t *testing.T) {
	if out := SparklineChart(nil, 5); out != "─────" {
		t.Errorf("expected flat line for empty input, got %q", out)
	}
	if out := SparklineChart([]float64{0, 1, 2, 3}, 4); out == "" {
		t.Error("expected non-empty sparkline")
	}
}
