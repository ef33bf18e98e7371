// Package nef provides the core model for neural-ensemble simulation.
//
// The package defines the building blocks of a network and the types shared
// by the builder, simulator, and tooling:
//
//   - [Signal]: vector carried between network objects
//   - [Node]: deterministic function of time emitting a signal
//   - [Ensemble]: neuron population representing a vector
//   - [Connection]: signal routing with optional function and transform
//   - [Probe]: recording tap on a node output, decoded value, or spike train
//   - [Network]: validated container tying the above together
//
// # Example
//
//	net := nef.NewNetwork("commchannel")
//	net.AddNode("in", func(t float64) nef.Signal { return nef.Signal{math.Sin(t)} }, 1)
//	net.AddEnsemble("a", 100, 1)
//	net.Connect("in", "a")
//	net.Probe("a", nef.AttrDecoded)
//
// A Network is a static description. Building it into runnable state
// (encoders, gains, decoders) and stepping it is the job of internal/sim.
package nef
