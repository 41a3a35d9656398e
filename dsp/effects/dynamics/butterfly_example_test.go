package dynamics_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-buttercomp/dsp/effects/dynamics"
)

// ExampleButterflyCompressor demonstrates basic usage with default settings.
func ExampleButterflyCompressor() {
	comp, err := dynamics.NewButterflyCompressor(48000)
	if err != nil {
		panic(err)
	}

	// Process a single stereo frame
	_, _ = comp.ProcessStereo(0.5, -0.5)

	fmt.Println("Compressor processed one frame")
	// Output:
	// Compressor processed one frame
}

// ExampleButterflyCompressor_configuration demonstrates configuring parameters.
func ExampleButterflyCompressor_configuration() {
	comp, _ := dynamics.NewButterflyCompressor(48000)

	// Configure for heavy compression with a 50% dry blend
	comp.SetCompress(0.8)
	comp.SetOutput(0.5) // unity output gain
	comp.SetDryWet(0.5)

	// Process a stereo buffer pair in place
	left := make([]float64, 256)
	right := make([]float64, 256)
	for i := range left {
		left[i] = 0.3 * math.Sin(2*math.Pi*440*float64(i)/48000)
		right[i] = left[i]
	}

	if err := comp.ProcessStereoInPlace(left, right); err != nil {
		panic(err)
	}

	fmt.Println("Configured compressor parameters:")
	fmt.Printf("Compress: %.1f\n", comp.Compress())
	fmt.Printf("Output: %.1f\n", comp.Output())
	fmt.Printf("DryWet: %.1f\n", comp.DryWet())
	// Output:
	// Configured compressor parameters:
	// Compress: 0.8
	// Output: 0.5
	// DryWet: 0.5
}

// ExampleButterflyCompressor_reset demonstrates clearing gain-reduction
// history between playback runs.
func ExampleButterflyCompressor_reset() {
	comp, _ := dynamics.NewButterflyCompressor(44100, dynamics.WithCompress(1))

	left := []float64{0.9, -0.9, 0.9, -0.9}
	right := []float64{0.9, -0.9, 0.9, -0.9}
	_ = comp.ProcessStereoInPlace(left, right)

	// Drop stale envelope state before the next take; parameters survive.
	comp.Reset()

	fmt.Printf("Compress after reset: %.1f\n", comp.Compress())
	// Output:
	// Compress after reset: 1.0
}
