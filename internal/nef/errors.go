package nef

import "errors"

// Domain errors for network construction and simulation.
var (
	// ErrUnknownObject indicates a connection or probe references a name
	// that is not in the network.
	ErrUnknownObject = errors.New("nef: unknown network object")

	// ErrDuplicateName indicates two network objects share a name.
	ErrDuplicateName = errors.New("nef: duplicate object name")

	// ErrDimensionMismatch indicates incompatible dimensions between a
	// connection's endpoints, transform, or function output.
	ErrDimensionMismatch = errors.New("nef: dimension mismatch")

	// ErrBadTarget indicates a probe attribute that the target does not have,
	// or a connection endpoint of the wrong kind.
	ErrBadTarget = errors.New("nef: invalid target for operation")

	// ErrInvalidState indicates NaN or Inf appeared in a simulated signal.
	ErrInvalidState = errors.New("nef: invalid state (NaN or Inf detected)")

	// ErrNotBuilt indicates a simulator operation before Build.
	ErrNotBuilt = errors.New("nef: network not built")
)
