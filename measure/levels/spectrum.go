package levels

import (
	"fmt"

	"github.com/cwbudde/algo-buttercomp/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// SpectrumConfig holds amplitude spectrum analysis parameters.
type SpectrumConfig struct {
	SampleRate float64
	FFTSize    int // 0 selects the next power of two >= signal length
	WindowType window.Type
}

// AmplitudeSpectrum computes the single-sided amplitude spectrum of signal.
//
// The signal is windowed, zero-padded to the FFT size and transformed; the
// returned slice holds FFTSize/2+1 bins scaled so a full-scale sine landing
// exactly on a bin reports its amplitude (coherent-gain and single-sided
// corrections applied). Bin k corresponds to k*SampleRate/FFTSize Hz.
func AmplitudeSpectrum(signal []float64, cfg SpectrumConfig) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("levels: spectrum input must not be empty")
	}

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("levels: spectrum sample rate must be > 0: %f", cfg.SampleRate)
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOfTwo(len(signal))
	}

	if fftSize < len(signal) {
		return nil, fmt.Errorf("levels: fft size %d smaller than signal length %d", fftSize, len(signal))
	}

	windowed := window.AppliedCopy(cfg.WindowType, signal)

	inData := make([]complex128, fftSize)
	for i, v := range windowed {
		inData[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("levels: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, inData)
	if err != nil {
		return nil, fmt.Errorf("levels: fft forward: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	// Amplitude scaling: 2/(N*coherentGain) for interior bins, 1/(N*cg)
	// for DC and Nyquist.
	gain := window.CoherentGain(cfg.WindowType, len(signal))
	if gain <= 0 {
		return nil, fmt.Errorf("levels: window %v has non-positive coherent gain", cfg.WindowType)
	}

	scale := 1.0 / (float64(len(signal)) * gain)
	for i := range mags {
		if i == 0 || i == bins-1 {
			mags[i] *= scale
		} else {
			mags[i] *= 2 * scale
		}
	}

	return mags, nil
}

// DominantBin returns the index of the largest-magnitude bin, skipping DC.
// Returns -1 for inputs with fewer than two bins.
func DominantBin(mags []float64) int {
	if len(mags) < 2 {
		return -1
	}

	best := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[best] {
			best = i
		}
	}
	return best
}

// BinFrequency returns the center frequency in Hz of a spectrum bin.
func BinFrequency(bin, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return 0
	}
	return float64(bin) * sampleRate / float64(fftSize)
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
