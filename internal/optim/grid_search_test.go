package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch(
		[]string{"a", "b"},
		[][]float64{{-1, 0, 1, 2}, {0, 1, 2}},
	)

	// Minimum of (a-1)^2 + (b-2)^2 over the grid is at a=1, b=2.
	run := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		da := params["a"] - 1
		db := params["b"] - 2
		return map[string]float64{"loss": da*da + db*db}, nil
	}

	best, val, err := g.Search(context.Background(), run, "loss")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best["a"] != 1 || best["b"] != 2 {
		t.Errorf("expected a=1 b=2, got %v", best)
	}
	if val != 0 {
		t.Errorf("expected loss 0, got %f", val)
	}
}

func TestGridSearchSkipsFailedRuns(t *testing.T) {
	g := NewGridSearch([]string{"a"}, [][]float64{{0, 1}})

	run := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		if params["a"] == 0 {
			return nil, errors.New("boom")
		}
		return map[string]float64{"loss": params["a"]}, nil
	}

	best, val, err := g.Search(context.Background(), run, "loss")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best["a"] != 1 || val != 1 {
		t.Errorf("expected the surviving run to win, got %v %f", best, val)
	}
}

func TestGridSearchCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"a"}, [][]float64{{0, 1}})
	run := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		return map[string]float64{"loss": 0}, nil
	}

	if _, _, err := g.Search(ctx, run, "loss"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGridSearchNoMetric(t *testing.T) {
	g := NewGridSearch([]string{"a"}, [][]float64{{0}})
	run := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		return map[string]float64{}, nil
	}

	best, val, err := g.Search(context.Background(), run, "loss")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best != nil || !math.IsInf(val, 1) {
		t.Errorf("expected no winner, got %v %f", best, val)
	}
}
