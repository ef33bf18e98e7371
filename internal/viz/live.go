package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"nefsim/internal/nef"
	"nefsim/internal/sim"
)

const (
	graphWidth      = 60
	graphHeight     = 5
	rasterWidth     = 40
	rasterHeight    = 6
	historyCapacity = 600
)

type TickMsg time.Time

// Model drives the simulator one tick at a time and renders decoded probe
// traces, spike rasters, and live metric values.
type Model struct {
	s       *sim.Simulator
	net     *nef.Network
	metrics []nef.Metric
	dt      float64
	seed    int64

	running      bool
	stepsPerTick int
	t            float64
	err          error
	showHelp     bool
	showRaster   bool

	traceKeys  []string
	traces     map[string][]float64
	rasterKeys []string
	rasters    map[string]*Raster
}

// NewModel builds the simulator and wires a trace per decoded probe
// component and a raster per spike probe.
func NewModel(net *nef.Network, metrics []nef.Metric, dt float64, seed int64) (Model, error) {
	s := sim.New(net)
	if err := s.Build(seed); err != nil {
		return Model{}, err
	}

	m := Model{
		s:            s,
		net:          net,
		metrics:      metrics,
		dt:           dt,
		seed:         seed,
		running:      true,
		stepsPerTick: stepsPerTicks(dt),
		traces:       make(map[string][]float64),
		rasters:      make(map[string]*Raster),
	}

	for _, p := range net.Probes() {
		switch p.Attr {
		case nef.AttrDecoded, nef.AttrOutput:
			dims := 1
			if ens := net.EnsembleByName(p.Target); ens != nil {
				dims = ens.Dimensions
			} else if node := net.NodeByName(p.Target); node != nil {
				dims = node.Size
			}
			for d := 0; d < dims; d++ {
				key := p.Target
				if dims > 1 {
					key = fmt.Sprintf("%s[%d]", p.Target, d)
				}
				m.traceKeys = append(m.traceKeys, key)
				m.traces[key] = nil
			}
		case nef.AttrSpikes:
			ens := net.EnsembleByName(p.Target)
			if ens == nil {
				continue
			}
			m.rasterKeys = append(m.rasterKeys, p.Target)
			m.rasters[p.Target] = NewRaster(ens.Neurons, rasterWidth*2)
			m.showRaster = true
		}
	}
	sort.Strings(m.rasterKeys)
	return m, nil
}

// stepsPerTicks picks how many dt steps fit in one 30fps tick so the view
// tracks wall-clock time.
func stepsPerTicks(dt float64) int {
	n := int(1.0 / 30.0 / dt)
	if n < 1 {
		n = 1
	}
	return n
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerTick *= 2
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		case "s":
			m.showRaster = !m.showRaster
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		frame, err := m.s.Step(m.dt)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.t = frame.T
		m.record(frame)
	}
}

func (m *Model) record(frame *nef.Frame) {
	for _, metric := range m.metrics {
		metric.Observe(frame)
	}
	for _, key := range m.traceKeys {
		target, dim := splitTraceKey(key)
		sig, ok := frame.Decoded[target]
		if !ok {
			sig = frame.Node[target]
		}
		if dim >= len(sig) {
			continue
		}
		hist := append(m.traces[key], sig[dim])
		if len(hist) > historyCapacity {
			hist = hist[1:]
		}
		m.traces[key] = hist
	}
	for _, target := range m.rasterKeys {
		m.rasters[target].Observe(frame.Spikes[target])
	}
}

func splitTraceKey(key string) (target string, dim int) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, 0
	}
	fmt.Sscanf(key[open:], "[%d]", &dim)
	return key[:open], dim
}

func (m *Model) reset() {
	m.s.Reset()
	m.t = 0
	m.err = nil
	for key := range m.traces {
		m.traces[key] = nil
	}
	for _, r := range m.rasters {
		r.Reset()
	}
	for _, metric := range m.metrics {
		metric.Reset()
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.net.Name)) + "\n")

	status := "RUNNING"
	if m.err != nil {
		status = "ERROR: " + m.err.Error()
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d steps/tick", m.stepsPerTick)) + "\n\n")

	for _, key := range m.traceKeys {
		hist := m.traces[key]
		if len(hist) < 2 {
			continue
		}
		chart := asciigraph.Plot(hist,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(key))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	if m.showRaster {
		for _, target := range m.rasterKeys {
			s.WriteString(subtle.Render("spikes: "+target) + "\n")
			s.WriteString(rasterStyle.Render(m.rasters[target].Render(rasterWidth, rasterHeight)) + "\n")
		}
	}

	if len(m.metrics) > 0 {
		s.WriteString(Separator(graphWidth) + "\n")
		for _, metric := range m.metrics {
			s.WriteString(labelStyle.Render(metric.Name()) + valueStyle.Render(fmt.Sprintf("%.4f", metric.Value())) + "\n")
		}
	}

	if m.showHelp {
		s.WriteString(helpStyle.Render("\nSpace pause/resume  R reset  +/- speed  S raster  Q quit"))
	} else {
		s.WriteString(helpStyle.Render("\n? for keys"))
	}
	return s.String()
}
