package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman

	typeCount // sentinel for validation
)

var typeNames = [typeCount]string{
	"Rectangular", "Hann", "Hamming", "Blackman",
}

// String returns the name of the window type.
func (t Type) String() string {
	if t >= 0 && t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Valid reports whether t is a known window type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// Cosine-sum coefficients: w(x) = a0 - a1*cos(2*pi*x) + a2*cos(4*pi*x) - ...
var (
	hannCoeffs     = []float64{0.5, 0.5}
	hammingCoeffs  = []float64{0.54, 0.46}
	blackmanCoeffs = []float64{0.42, 0.5, 0.08}
)

func cosineAt(x float64, coeffs []float64) float64 {
	sign := 1.0
	sum := 0.0
	for k, a := range coeffs {
		sum += sign * a * math.Cos(2*math.Pi*float64(k)*x)
		sign = -sign
	}
	return sum
}

func at(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineAt(x, hannCoeffs)
	case TypeHamming:
		return cosineAt(x, hammingCoeffs)
	case TypeBlackman:
		return cosineAt(x, blackmanCoeffs)
	default:
		return 1
	}
}

// Generate returns symmetric window coefficients of the given length.
// Unknown types and non-positive lengths yield a rectangular fallback.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}

	denom := float64(length - 1)
	for i := range out {
		out[i] = at(t, float64(i)/denom)
	}
	return out
}

// Apply multiplies buf in place by the window coefficients for type t.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 {
		return
	}

	coeffs := Generate(t, len(buf))
	vecmath.MulBlockInPlace(buf, coeffs)
}

// AppliedCopy returns a new slice holding samples multiplied by the window
// coefficients for type t, leaving samples untouched.
func AppliedCopy(t Type, samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}

	out := make([]float64, len(samples))
	coeffs := Generate(t, len(samples))
	vecmath.MulBlock(out, samples, coeffs)
	return out
}

// CoherentGain returns the mean of the window coefficients, the factor by
// which a windowed sine's spectral peak is attenuated.
func CoherentGain(t Type, length int) float64 {
	coeffs := Generate(t, length)
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}
