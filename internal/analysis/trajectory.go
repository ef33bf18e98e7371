package analysis

import "strings"

// Trajectory holds a recorded 2D path, typically the two components of a
// decoded probe plotted against each other.
type Trajectory struct {
	Points []struct{ X, Y float64 }
}

// NewTrajectory pairs up two equal-length series. Extra samples in the
// longer series are dropped.
func NewTrajectory(xs, ys []float64) *Trajectory {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	tr := &Trajectory{Points: make([]struct{ X, Y float64 }, n)}
	for i := 0; i < n; i++ {
		tr.Points[i] = struct{ X, Y float64 }{X: xs[i], Y: ys[i]}
	}
	return tr
}

// ToASCII renders the trajectory as an ASCII scatter plot with axes.
func (tr *Trajectory) ToASCII(width, height int) string {
	if tr == nil || len(tr.Points) == 0 {
		return ""
	}

	// Find bounds
	minX, maxX := tr.Points[0].X, tr.Points[0].X
	minY, maxY := tr.Points[0].Y, tr.Points[0].Y

	for _, p := range tr.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	// Create canvas
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Plot points
	for _, p := range tr.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	// Convert to string
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
