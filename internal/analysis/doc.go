// Package analysis provides offline tools for recorded probe series.
//
//   - [PowerSpectrum] and [DominantFrequency]: frequency content of a
//     decoded signal, used to check oscillator tuning
//   - [Trajectory]: 2D scatter plots of paired probe components
package analysis
