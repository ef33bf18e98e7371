package analysis

import (
	"math"
	"math/cmplx"
)

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude of the first half of the FFT of data,
// truncating to the largest power-of-2 prefix.
func PowerSpectrum(data []float64) []float64 {
	data = data[:largestPow2(len(data))]
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantFrequency returns the frequency (in Hz, given the sample interval
// dt) of the strongest non-DC component of a time series, along with its
// magnitude.
func DominantFrequency(data []float64, dt float64) (freq, magnitude float64) {
	n := largestPow2(len(data))
	if n < 4 || dt <= 0 {
		return 0, 0
	}

	// Remove the mean so a constant offset does not mask the oscillation.
	mean := 0.0
	for _, v := range data[:n] {
		mean += v
	}
	mean /= float64(n)
	centered := make([]float64, n)
	for i := range centered {
		centered[i] = data[i] - mean
	}

	ps := PowerSpectrum(centered)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) / (float64(n) * dt), ps[best]
}

func largestPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
