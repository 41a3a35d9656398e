package levels

import (
	"math"

	"github.com/cwbudde/algo-buttercomp/dsp/core"
)

// Peak returns the maximum absolute sample value of buf, 0 for empty input.
func Peak(buf []float64) float64 {
	peak := 0.0
	for _, v := range buf {
		av := math.Abs(v)
		if av > peak {
			peak = av
		}
	}
	return peak
}

// RMS returns the root-mean-square level of buf, 0 for empty input.
func RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}

// PeakDB returns the peak level in dBFS (-Inf for silence).
func PeakDB(buf []float64) float64 {
	return core.LinearToDB(Peak(buf))
}

// RMSDB returns the RMS level in dBFS (-Inf for silence).
func RMSDB(buf []float64) float64 {
	return core.LinearToDB(RMS(buf))
}

// CrestFactorDB returns the peak-to-RMS ratio in dB, a rough measure of how
// much dynamics processing has flattened a signal. Returns 0 for silence.
func CrestFactorDB(buf []float64) float64 {
	rms := RMS(buf)
	if rms == 0 {
		return 0
	}
	return core.LinearToDB(Peak(buf) / rms)
}
