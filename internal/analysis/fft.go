package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// ErrShortSignal is returned when a signal is too short to analyse.
var ErrShortSignal = errors.New("analysis: signal too short")

const padFactor = 8

// PowerSpectrum returns |X_k| for k in [0, n/2) of the mean-removed,
// Hann-windowed signal zero-padded to n samples.
func PowerSpectrum(data []float64, n int) []float64 {
	if len(data) < 2 {
		return nil
	}
	if n < len(data) {
		n = len(data)
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	buf := make([]float64, n)
	for i, v := range data {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(data)-1)))
		buf[i] = (v - mean) * window
	}

	spectrum := fft.FFTReal(buf)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency estimates the strongest non-zero frequency of a signal
// sampled every dt, in cycles per unit of dt. The peak bin is refined by
// fitting a parabola through the log magnitudes of its neighbours.
func DominantFrequency(signal []float64, dt float64) (float64, error) {
	if len(signal) < 4 {
		return 0, ErrShortSignal
	}
	n := nextPow2(padFactor * len(signal))
	ps := PowerSpectrum(signal, n)

	peak := 1
	for k := 2; k < len(ps)-1; k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("analysis: signal is constant")
	}

	offset := 0.0
	if peak+1 < len(ps) && ps[peak-1] > 0 && ps[peak+1] > 0 {
		a, b, c := math.Log(ps[peak-1]), math.Log(ps[peak]), math.Log(ps[peak+1])
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
	}
	return (float64(peak) + offset) / (float64(n) * dt), nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
