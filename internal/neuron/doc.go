// Package neuron provides the neuron models driven by the simulator.
//
// Each model implements the [Model] interface, mapping input current to
// activity:
//
//   - [LIF]: spiking leaky integrate-and-fire with refractory period
//   - [LIFRate]: closed-form rate approximation of LIF
//   - [RectifiedLinear]: non-spiking linear threshold unit
//
// Models also derive per-neuron gain and bias from desired tuning (maximum
// firing rate and intercept), so that an ensemble's response curves span its
// representational range.
//
// Model instances hold per-neuron state (membrane voltage, refractory
// timers) and are NOT safe for concurrent use.
package neuron
