// Package solver computes decoders for neural ensembles by regularized
// least squares. Given the matrix A of neuron activities at a set of
// evaluation points and the target values Y at those points, it finds
// decoders D minimizing ||A D - Y||^2 with L2 regularization.
package solver

import (
	"fmt"
	"math"
)

// LstsqL2 solves the decoder problem through the normal equations with
// Tikhonov regularization scaled by the largest activity, factoring the
// Gram matrix once and reusing it for every output dimension.
type LstsqL2 struct {
	// Reg scales the regularization relative to the peak activity.
	Reg float64
}

func NewLstsqL2() *LstsqL2 {
	return &LstsqL2{Reg: 0.1}
}

// Solve returns the n x d decoder matrix for m x n activities A and
// m x d targets Y.
func (s *LstsqL2) Solve(A, Y [][]float64) ([][]float64, error) {
	m := len(A)
	if m == 0 || m != len(Y) {
		return nil, fmt.Errorf("solver: need matching non-empty activities and targets, got %d and %d", m, len(Y))
	}
	n := len(A[0])
	d := len(Y[0])

	maxA := 0.0
	for i := range A {
		for _, a := range A[i] {
			if a > maxA {
				maxA = a
			}
		}
	}
	if maxA == 0 {
		return nil, fmt.Errorf("solver: all activities are zero")
	}

	sigma := s.Reg * maxA
	lambda := float64(m) * sigma * sigma

	// G = A'A + lambda I
	G := make([][]float64, n)
	for i := range G {
		G[i] = make([]float64, n)
	}
	for k := 0; k < m; k++ {
		row := A[k]
		for i := 0; i < n; i++ {
			ai := row[i]
			if ai == 0 {
				continue
			}
			gi := G[i]
			for j := i; j < n; j++ {
				gi[j] += ai * row[j]
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			G[i][j] = G[j][i]
		}
		G[i][i] += lambda
	}

	L, err := cholesky(G)
	if err != nil {
		return nil, err
	}

	// B = A'Y
	B := make([][]float64, n)
	for i := range B {
		B[i] = make([]float64, d)
	}
	for k := 0; k < m; k++ {
		for i := 0; i < n; i++ {
			ai := A[k][i]
			if ai == 0 {
				continue
			}
			for j := 0; j < d; j++ {
				B[i][j] += ai * Y[k][j]
			}
		}
	}

	D := make([][]float64, n)
	for i := range D {
		D[i] = make([]float64, d)
	}
	b := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			b[i] = B[i][j]
		}
		x := choleskySolve(L, b)
		for i := 0; i < n; i++ {
			D[i][j] = x[i]
		}
	}
	return D, nil
}

// cholesky factors a symmetric positive-definite matrix into L L', returning
// the lower triangle.
func cholesky(G [][]float64) ([][]float64, error) {
	n := len(G)
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := G[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}
			if i == j {
				if sum <= 0 {
					return nil, fmt.Errorf("solver: matrix not positive definite at row %d", i)
				}
				L[i][i] = math.Sqrt(sum)
			} else {
				L[i][j] = sum / L[j][j]
			}
		}
	}
	return L, nil
}

// choleskySolve solves L L' x = b by forward then backward substitution.
func choleskySolve(L [][]float64, b []float64) []float64 {
	n := len(L)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= L[i][k] * y[k]
		}
		y[i] = sum / L[i][i]
	}
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k < n; k++ {
			sum -= L[k][i] * x[k]
		}
		x[i] = sum / L[i][i]
	}
	return x
}
