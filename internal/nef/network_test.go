package nef

import (
	"errors"
	"math"
	"testing"
)

func sineNode(t float64) Signal { return Signal{math.Sin(t)} }

func TestAddDuplicateName(t *testing.T) {
	net := NewNetwork("test")
	if _, err := net.AddNode("a", sineNode, 1); err != nil {
		t.Fatalf("add node failed: %v", err)
	}
	if _, err := net.AddEnsemble("a", 10, 1); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestConnectUnknownObject(t *testing.T) {
	net := NewNetwork("test")
	net.AddEnsemble("a", 10, 1)

	if _, err := net.Connect("missing", "a"); !errors.Is(err, ErrUnknownObject) {
		t.Errorf("expected ErrUnknownObject for source, got %v", err)
	}
	if _, err := net.Connect("a", "missing"); !errors.Is(err, ErrUnknownObject) {
		t.Errorf("expected ErrUnknownObject for target, got %v", err)
	}
}

func TestConnectIntoNode(t *testing.T) {
	net := NewNetwork("test")
	net.AddNode("in", sineNode, 1)
	net.AddEnsemble("a", 10, 1)

	if _, err := net.Connect("a", "in"); !errors.Is(err, ErrBadTarget) {
		t.Errorf("expected ErrBadTarget, got %v", err)
	}
}

func TestValidateDimensionMismatch(t *testing.T) {
	net := NewNetwork("test")
	net.AddEnsemble("a", 10, 1)
	net.AddEnsemble("b", 10, 2)

	if _, err := net.Connect("a", "b"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	// 1D -> 2D without a transform cannot line up.
	if err := net.Validate(); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestValidateTransformShape(t *testing.T) {
	net := NewNetwork("test")
	net.AddEnsemble("a", 10, 1)
	net.AddEnsemble("b", 10, 2)

	c, err := net.Connect("a", "b")
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	c.Transform = [][]float64{{1}, {0}}
	if err := net.Validate(); err != nil {
		t.Errorf("valid 2x1 transform rejected: %v", err)
	}

	c.Transform = [][]float64{{1, 0}}
	if err := net.Validate(); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for wrong row count, got %v", err)
	}
}

func TestValidateFunctionNeedsDim(t *testing.T) {
	net := NewNetwork("test")
	net.AddEnsemble("a", 10, 1)
	net.AddEnsemble("b", 10, 1)

	c, _ := net.Connect("a", "b")
	c.Function = func(x Signal) Signal { return Signal{x[0] * x[0]} }

	if err := net.Validate(); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch when FnDim unset, got %v", err)
	}

	c.FnDim = 1
	if err := net.Validate(); err != nil {
		t.Errorf("validate failed: %v", err)
	}
}

func TestProbeAttrs(t *testing.T) {
	net := NewNetwork("test")
	net.AddNode("in", sineNode, 1)
	net.AddEnsemble("a", 10, 1)

	if _, err := net.Probe("in", AttrDecoded); !errors.Is(err, ErrBadTarget) {
		t.Errorf("expected ErrBadTarget probing node decoded, got %v", err)
	}
	if _, err := net.Probe("a", AttrOutput); !errors.Is(err, ErrBadTarget) {
		t.Errorf("expected ErrBadTarget probing ensemble output, got %v", err)
	}

	p, err := net.Probe("a", AttrDecoded)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if p.Name != "a.decoded" {
		t.Errorf("expected probe name 'a.decoded', got %q", p.Name)
	}
	if p.Synapse != DefaultProbeSynapse {
		t.Errorf("expected default probe synapse, got %f", p.Synapse)
	}

	if _, err := net.Probe("a", AttrDecoded); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName for repeated probe, got %v", err)
	}
}

func TestNodeConnectionDefaults(t *testing.T) {
	net := NewNetwork("test")
	net.AddNode("in", sineNode, 1)
	net.AddEnsemble("a", 10, 1)
	net.AddEnsemble("b", 10, 1)

	nc, _ := net.Connect("in", "a")
	if nc.Synapse != 0 {
		t.Errorf("node connection should be unfiltered by default, got tau=%f", nc.Synapse)
	}

	ec, _ := net.Connect("a", "b")
	if ec.Synapse != DefaultSynapse {
		t.Errorf("ensemble connection should default to tau=%f, got %f", DefaultSynapse, ec.Synapse)
	}
}

func TestSignalHelpers(t *testing.T) {
	s := Signal{3, 4}
	if s.Norm() != 5 {
		t.Errorf("expected norm 5, got %f", s.Norm())
	}

	c := s.Clone()
	c[0] = 0
	if s[0] != 3 {
		t.Error("clone aliases original")
	}

	if !s.IsValid() {
		t.Error("finite signal reported invalid")
	}
	if (Signal{math.NaN()}).IsValid() {
		t.Error("NaN signal reported valid")
	}
}
