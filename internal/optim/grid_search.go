// Package optim provides parameter search over simulation runs.
package optim

import (
	"context"
	"math"
)

// Runner evaluates one parameter assignment and returns the run's metrics.
type Runner func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// GridSearch exhaustively evaluates the cross product of parameter ranges
// and keeps the assignment minimizing one metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

func (g *GridSearch) Search(ctx context.Context, run Runner, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), run, metricName, &best, &bestParams); err != nil {
		return nil, 0, err
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run Runner,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		metrics, err := run(ctx, current)
		if err != nil {
			// A bad corner of the grid should not abort the search.
			return nil
		}

		val, ok := metrics[metricName]
		if !ok {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, run, metricName, best, bestParams); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}
