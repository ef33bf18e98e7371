package viz

// Raster accumulates spike events into a scrolling braille plot, one row of
// dots per neuron, newest column on the right.
type Raster struct {
	neurons int
	cols    int
	events  [][]int // per column, indices of neurons that fired
}

// NewRaster sizes the raster for a population. cols is in sub-pixel columns,
// so a raster rendered into a canvas of width w holds 2*w columns.
func NewRaster(neurons, cols int) *Raster {
	return &Raster{neurons: neurons, cols: cols}
}

// Observe records one step of spike output (1/dt entries mark a spike).
func (r *Raster) Observe(spikes []float64) {
	fired := []int(nil)
	for i, s := range spikes {
		if s > 0 {
			fired = append(fired, i)
		}
	}
	r.events = append(r.events, fired)
	if len(r.events) > r.cols {
		r.events = r.events[1:]
	}
}

func (r *Raster) Reset() {
	r.events = nil
}

// Render draws the raster into a fresh canvas of the given character size.
// Neuron indices are folded onto the available dot rows when the population
// is larger than 4*height.
func (r *Raster) Render(width, height int) string {
	c := NewCanvas(width, height)
	rows := height * 4
	offset := r.cols - len(r.events)

	for col, fired := range r.events {
		x := col + offset
		for _, n := range fired {
			y := n
			if r.neurons > rows {
				y = n * rows / r.neurons
			}
			c.Set(x, y)
		}
	}
	return c.String()
}
