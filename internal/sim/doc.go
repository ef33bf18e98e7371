// Package sim builds networks into runnable state and steps them.
//
// Building samples each ensemble's tuning (encoders, max rates, intercepts)
// from a seeded source, derives gain and bias from the neuron model, and
// solves connection decoders by regularized least squares. Stepping then
// reduces to dense mat-vec work per dt: node evaluation, connection
// filtering, current injection, neuron update, decode.
//
// Ensemble-to-ensemble signals see a one-step delay: connections read the
// activity of the previous step.
package sim
