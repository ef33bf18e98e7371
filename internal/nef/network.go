package nef

import "fmt"

// Default synapse time constants, in seconds.
const (
	DefaultSynapse      = 0.005
	DefaultProbeSynapse = 0.01
)

type Node struct {
	Name string
	Size int
	Fn   NodeFn
}

type Ensemble struct {
	Name       string
	Neurons    int
	Dimensions int
	Radius     float64
	Model      string

	// Per-neuron tuning is drawn uniformly from these ranges at build time.
	MaxRateLow    float64
	MaxRateHigh   float64
	InterceptLow  float64
	InterceptHigh float64

	// Seed overrides the network-derived seed when non-zero.
	Seed int64
}

type Connection struct {
	Pre  string
	Post string

	// Function is applied to the decoded value of an ensemble source.
	// FnDim is its output dimension. Only valid for ensemble sources.
	Function func(Signal) Signal
	FnDim    int

	// Transform maps the source dimension onto the target dimension,
	// shaped [post dims][source dims]. Nil means identity.
	Transform [][]float64

	// Synapse is the lowpass filter time constant. Zero disables filtering.
	Synapse float64
}

type ProbeAttr string

const (
	AttrOutput  ProbeAttr = "output"
	AttrDecoded ProbeAttr = "decoded"
	AttrSpikes  ProbeAttr = "spikes"
)

type Probe struct {
	Name    string
	Target  string
	Attr    ProbeAttr
	Synapse float64
}

// Network is a static, declarative description of nodes, ensembles,
// connections, and probes. It performs structural validation; numeric
// construction happens in the builder.
type Network struct {
	Name string
	Seed int64

	nodes     map[string]*Node
	ensembles map[string]*Ensemble
	nodeOrder []string
	ensOrder  []string
	conns     []*Connection
	probes    []*Probe
}

func NewNetwork(name string) *Network {
	return &Network{
		Name:      name,
		nodes:     make(map[string]*Node),
		ensembles: make(map[string]*Ensemble),
	}
}

func (n *Network) AddNode(name string, fn NodeFn, size int) (*Node, error) {
	if err := n.checkName(name); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: node %q size must be positive, got %d", ErrDimensionMismatch, name, size)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: node %q has no output function", ErrBadTarget, name)
	}
	node := &Node{Name: name, Size: size, Fn: fn}
	n.nodes[name] = node
	n.nodeOrder = append(n.nodeOrder, name)
	return node, nil
}

func (n *Network) AddEnsemble(name string, neurons, dims int) (*Ensemble, error) {
	if err := n.checkName(name); err != nil {
		return nil, err
	}
	if neurons <= 0 || dims <= 0 {
		return nil, fmt.Errorf("%w: ensemble %q needs positive neurons and dimensions, got %d, %d",
			ErrDimensionMismatch, name, neurons, dims)
	}
	ens := &Ensemble{
		Name:          name,
		Neurons:       neurons,
		Dimensions:    dims,
		Radius:        1.0,
		Model:         "lif",
		MaxRateLow:    200,
		MaxRateHigh:   400,
		InterceptLow:  -0.95,
		InterceptHigh: 0.95,
	}
	n.ensembles[name] = ens
	n.ensOrder = append(n.ensOrder, name)
	return ens, nil
}

func (n *Network) Connect(pre, post string) (*Connection, error) {
	if _, ok := n.nodes[pre]; !ok {
		if _, ok := n.ensembles[pre]; !ok {
			return nil, fmt.Errorf("%w: connection source %q", ErrUnknownObject, pre)
		}
	}
	if _, ok := n.ensembles[post]; !ok {
		if _, ok := n.nodes[post]; ok {
			return nil, fmt.Errorf("%w: nodes cannot receive connections (%q)", ErrBadTarget, post)
		}
		return nil, fmt.Errorf("%w: connection target %q", ErrUnknownObject, post)
	}
	c := &Connection{Pre: pre, Post: post}
	if _, isEns := n.ensembles[pre]; isEns {
		c.Synapse = DefaultSynapse
	}
	n.conns = append(n.conns, c)
	return c, nil
}

func (n *Network) Probe(target string, attr ProbeAttr) (*Probe, error) {
	if _, isNode := n.nodes[target]; isNode {
		if attr != AttrOutput {
			return nil, fmt.Errorf("%w: nodes only expose %q, not %q", ErrBadTarget, AttrOutput, attr)
		}
	} else if _, isEns := n.ensembles[target]; isEns {
		if attr != AttrDecoded && attr != AttrSpikes {
			return nil, fmt.Errorf("%w: ensembles expose %q or %q, not %q",
				ErrBadTarget, AttrDecoded, AttrSpikes, attr)
		}
	} else {
		return nil, fmt.Errorf("%w: probe target %q", ErrUnknownObject, target)
	}

	p := &Probe{
		Name:   fmt.Sprintf("%s.%s", target, attr),
		Target: target,
		Attr:   attr,
	}
	if attr == AttrDecoded {
		p.Synapse = DefaultProbeSynapse
	}
	for _, existing := range n.probes {
		if existing.Name == p.Name {
			return nil, fmt.Errorf("%w: probe %q", ErrDuplicateName, p.Name)
		}
	}
	n.probes = append(n.probes, p)
	return p, nil
}

// Validate checks structural constraints that can only be settled after
// callers finished mutating connections (transform shape, function dims).
func (n *Network) Validate() error {
	for _, c := range n.conns {
		post := n.ensembles[c.Post]
		if post == nil {
			return fmt.Errorf("%w: connection target %q", ErrUnknownObject, c.Post)
		}

		srcDim := 0
		if node, ok := n.nodes[c.Pre]; ok {
			if c.Function != nil {
				return fmt.Errorf("%w: function connections need an ensemble source (%q)", ErrBadTarget, c.Pre)
			}
			srcDim = node.Size
		} else if ens, ok := n.ensembles[c.Pre]; ok {
			srcDim = ens.Dimensions
			if c.Function != nil {
				if c.FnDim <= 0 {
					return fmt.Errorf("%w: connection %s->%s function output dimension not set",
						ErrDimensionMismatch, c.Pre, c.Post)
				}
				srcDim = c.FnDim
			}
		} else {
			return fmt.Errorf("%w: connection source %q", ErrUnknownObject, c.Pre)
		}

		if c.Transform == nil {
			if srcDim != post.Dimensions {
				return fmt.Errorf("%w: %s (%dD) -> %s (%dD) needs a transform",
					ErrDimensionMismatch, c.Pre, srcDim, c.Post, post.Dimensions)
			}
			continue
		}
		if len(c.Transform) != post.Dimensions {
			return fmt.Errorf("%w: transform on %s->%s has %d rows, target is %dD",
				ErrDimensionMismatch, c.Pre, c.Post, len(c.Transform), post.Dimensions)
		}
		for i, row := range c.Transform {
			if len(row) != srcDim {
				return fmt.Errorf("%w: transform row %d on %s->%s has %d columns, source is %dD",
					ErrDimensionMismatch, i, c.Pre, c.Post, len(row), srcDim)
			}
		}
	}
	return nil
}

func (n *Network) checkName(name string) error {
	if _, ok := n.nodes[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if _, ok := n.ensembles[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}

// Accessors return objects in insertion order so builds are deterministic.

func (n *Network) Nodes() []*Node {
	out := make([]*Node, 0, len(n.nodeOrder))
	for _, name := range n.nodeOrder {
		out = append(out, n.nodes[name])
	}
	return out
}

func (n *Network) Ensembles() []*Ensemble {
	out := make([]*Ensemble, 0, len(n.ensOrder))
	for _, name := range n.ensOrder {
		out = append(out, n.ensembles[name])
	}
	return out
}

func (n *Network) Connections() []*Connection { return n.conns }
func (n *Network) Probes() []*Probe           { return n.probes }

func (n *Network) NodeByName(name string) *Node         { return n.nodes[name] }
func (n *Network) EnsembleByName(name string) *Ensemble { return n.ensembles[name] }
