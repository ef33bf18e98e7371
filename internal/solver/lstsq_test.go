package solver

import (
	"math"
	"math/rand"
	"testing"
)

func TestCholeskyKnownSystem(t *testing.T) {
	// G = [[4,2],[2,3]], b = [10, 8] -> x = [1.75, 1.5]
	G := [][]float64{{4, 2}, {2, 3}}
	L, err := cholesky(G)
	if err != nil {
		t.Fatalf("cholesky failed: %v", err)
	}

	x := choleskySolve(L, []float64{10, 8})
	if math.Abs(x[0]-1.75) > 1e-12 || math.Abs(x[1]-1.5) > 1e-12 {
		t.Errorf("expected [1.75 1.5], got %v", x)
	}
}

func TestCholeskyRejectsIndefinite(t *testing.T) {
	G := [][]float64{{1, 2}, {2, 1}}
	if _, err := cholesky(G); err == nil {
		t.Error("expected error for indefinite matrix")
	}
}

func TestSolveRejectsBadShapes(t *testing.T) {
	s := NewLstsqL2()
	if _, err := s.Solve(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := s.Solve([][]float64{{1}}, [][]float64{{1}, {2}}); err == nil {
		t.Error("expected error for mismatched rows")
	}
	if _, err := s.Solve([][]float64{{0, 0}}, [][]float64{{1}}); err == nil {
		t.Error("expected error for all-zero activities")
	}
}

// syntheticCurves builds rectified-linear tuning curves over [-1, 1] with
// random slopes and offsets, the same family the builder produces.
func syntheticCurves(rng *rand.Rand, m, n int) (points []float64, A [][]float64) {
	gain := make([]float64, n)
	bias := make([]float64, n)
	enc := make([]float64, n)
	for i := 0; i < n; i++ {
		gain[i] = 50 + 100*rng.Float64()
		bias[i] = 60*rng.Float64() - 30
		if rng.Float64() < 0.5 {
			enc[i] = 1
		} else {
			enc[i] = -1
		}
	}

	points = make([]float64, m)
	A = make([][]float64, m)
	for k := 0; k < m; k++ {
		x := -1 + 2*float64(k)/float64(m-1)
		points[k] = x
		A[k] = make([]float64, n)
		for i := 0; i < n; i++ {
			j := gain[i]*enc[i]*x + bias[i]
			if j > 0 {
				A[k][i] = j
			}
		}
	}
	return points, A
}

func TestSolveReconstructsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	points, A := syntheticCurves(rng, 200, 60)

	Y := make([][]float64, len(points))
	for k, x := range points {
		Y[k] = []float64{x}
	}

	D, err := NewLstsqL2().Solve(A, Y)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	sum := 0.0
	for k := range points {
		got := 0.0
		for i := range D {
			got += A[k][i] * D[i][0]
		}
		diff := got - points[k]
		sum += diff * diff
	}
	rmse := math.Sqrt(sum / float64(len(points)))
	if rmse > 0.05 {
		t.Errorf("identity reconstruction rmse %f too large", rmse)
	}
}

func TestSolveReconstructsSquare(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	points, A := syntheticCurves(rng, 200, 80)

	Y := make([][]float64, len(points))
	for k, x := range points {
		Y[k] = []float64{x * x}
	}

	D, err := NewLstsqL2().Solve(A, Y)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	sum := 0.0
	for k := range points {
		got := 0.0
		for i := range D {
			got += A[k][i] * D[i][0]
		}
		diff := got - points[k]*points[k]
		sum += diff * diff
	}
	rmse := math.Sqrt(sum / float64(len(points)))
	if rmse > 0.1 {
		t.Errorf("square reconstruction rmse %f too large", rmse)
	}
}

func TestSolveMultipleOutputDims(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	points, A := syntheticCurves(rng, 150, 60)

	Y := make([][]float64, len(points))
	for k, x := range points {
		Y[k] = []float64{x, -x}
	}

	D, err := NewLstsqL2().Solve(A, Y)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if len(D) != 60 || len(D[0]) != 2 {
		t.Fatalf("expected 60x2 decoders, got %dx%d", len(D), len(D[0]))
	}

	// The second column decodes the negation of the first target.
	for k := range points {
		a, b := 0.0, 0.0
		for i := range D {
			a += A[k][i] * D[i][0]
			b += A[k][i] * D[i][1]
		}
		if math.Abs(a+b) > 0.05 {
			t.Fatalf("columns should be negatives: %f vs %f", a, b)
		}
	}
}
