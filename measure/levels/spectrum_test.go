package levels

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-buttercomp/dsp/core"
	"github.com/cwbudde/algo-buttercomp/dsp/signal"
	"github.com/cwbudde/algo-buttercomp/dsp/window"
)

func TestAmplitudeSpectrumSine(t *testing.T) {
	const (
		sampleRate = 4096.0
		fftSize    = 4096
		freq       = 256.0
		amp        = 0.9
	)

	g := signal.NewGenerator(core.WithSampleRate(sampleRate))

	// Whole number of cycles: the tone lands exactly on bin 256.
	sine, err := g.Sine(freq, amp, fftSize)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	mags, err := AmplitudeSpectrum(sine, SpectrumConfig{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		WindowType: window.TypeRectangular,
	})
	if err != nil {
		t.Fatalf("AmplitudeSpectrum() error = %v", err)
	}

	if len(mags) != fftSize/2+1 {
		t.Fatalf("len(mags) = %d, want %d", len(mags), fftSize/2+1)
	}

	bin := DominantBin(mags)
	if bin != 256 {
		t.Errorf("DominantBin() = %d, want 256", bin)
	}

	if gotFreq := BinFrequency(bin, fftSize, sampleRate); !core.NearlyEqual(gotFreq, freq, 1e-9) {
		t.Errorf("BinFrequency() = %f, want %f", gotFreq, freq)
	}

	if !core.NearlyEqual(mags[bin], amp, 1e-6) {
		t.Errorf("fundamental amplitude = %f, want %f", mags[bin], amp)
	}
}

func TestAmplitudeSpectrumHannWindow(t *testing.T) {
	const (
		sampleRate = 4096.0
		fftSize    = 4096
	)

	g := signal.NewGenerator(core.WithSampleRate(sampleRate))
	sine, _ := g.Sine(128, 0.5, fftSize)

	mags, err := AmplitudeSpectrum(sine, SpectrumConfig{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		WindowType: window.TypeHann,
	})
	if err != nil {
		t.Fatalf("AmplitudeSpectrum() error = %v", err)
	}

	bin := DominantBin(mags)
	if bin != 128 {
		t.Errorf("DominantBin() = %d, want 128", bin)
	}

	// Coherent-gain correction recovers the amplitude for on-bin tones.
	if math.Abs(mags[bin]-0.5) > 1e-3 {
		t.Errorf("fundamental amplitude = %f, want ~0.5", mags[bin])
	}
}

func TestAmplitudeSpectrumErrors(t *testing.T) {
	if _, err := AmplitudeSpectrum(nil, SpectrumConfig{SampleRate: 48000}); err == nil {
		t.Error("empty input should error")
	}

	if _, err := AmplitudeSpectrum([]float64{1, 2, 3}, SpectrumConfig{SampleRate: 0}); err == nil {
		t.Error("zero sample rate should error")
	}

	if _, err := AmplitudeSpectrum(make([]float64, 100), SpectrumConfig{SampleRate: 48000, FFTSize: 64}); err == nil {
		t.Error("fft size below signal length should error")
	}
}

func TestDominantBinEdgeCases(t *testing.T) {
	if got := DominantBin(nil); got != -1 {
		t.Errorf("DominantBin(nil) = %d, want -1", got)
	}

	if got := DominantBin([]float64{1}); got != -1 {
		t.Errorf("DominantBin(single bin) = %d, want -1", got)
	}
}
