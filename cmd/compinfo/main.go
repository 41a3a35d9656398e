// Command compinfo prints measured response information for the butterfly
// compressor driven by a generated test tone.
//
// Usage:
//
//	compinfo [flags]
//
// Without flags it processes a 1 kHz sine at 48 kHz with full compression
// and prints input/output levels, crest factors and gain reduction.
//
// Examples:
//
//	compinfo -compress 0.5 -output 0.5
//	compinfo -rate 96000 -freq 440 -amp 0.7
//	compinfo -curve
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-buttercomp/dsp/core"
	"github.com/cwbudde/algo-buttercomp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-buttercomp/dsp/signal"
	"github.com/cwbudde/algo-buttercomp/dsp/window"
	"github.com/cwbudde/algo-buttercomp/measure/levels"
)

func main() {
	var (
		rate     = flag.Float64("rate", 48000, "sample rate in Hz")
		freq     = flag.Float64("freq", 1000, "test tone frequency in Hz")
		amp      = flag.Float64("amp", 0.9, "test tone amplitude")
		samples  = flag.Int("samples", 4096, "number of samples to process")
		compress = flag.Float64("compress", 1.0, "compression amount [0..1]")
		output   = flag.Float64("output", 0.5, "output gain [0..1], 0.5 = unity")
		dryWet   = flag.Float64("drywet", 1.0, "dry/wet mix [0..1]")
		curve    = flag.Bool("curve", false, "print output levels across compression settings")
	)

	flag.Parse()

	if *rate <= 0 || *samples <= 0 || *amp < 0 {
		fmt.Fprintln(os.Stderr, "compinfo: rate and samples must be positive, amp non-negative")
		os.Exit(2)
	}

	gen := signal.NewGenerator(core.WithSampleRate(*rate))

	tone, err := gen.Sine(*freq, *amp, *samples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compinfo: %v\n", err)
		os.Exit(2)
	}

	if *curve {
		printCurve(tone, *rate, *output, *dryWet)
		return
	}

	printRun(tone, *rate, *compress, *output, *dryWet)
}

func process(tone []float64, rate, compress, output, dryWet float64) (*dynamics.ButterflyCompressor, []float64) {
	comp, err := dynamics.NewButterflyCompressor(rate,
		dynamics.WithCompress(compress),
		dynamics.WithOutput(output),
		dynamics.WithDryWet(dryWet))
	if err != nil {
		fmt.Fprintf(os.Stderr, "compinfo: %v\n", err)
		os.Exit(2)
	}

	left := append([]float64(nil), tone...)
	right := append([]float64(nil), tone...)

	if err := comp.ProcessStereoInPlace(left, right); err != nil {
		fmt.Fprintf(os.Stderr, "compinfo: %v\n", err)
		os.Exit(2)
	}

	return comp, left
}

func printRun(tone []float64, rate, compress, output, dryWet float64) {
	comp, out := process(tone, rate, compress, output, dryWet)
	metrics := comp.GetMetrics()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "compress\t%.2f\n", comp.Compress())
	fmt.Fprintf(w, "output\t%.2f\n", comp.Output())
	fmt.Fprintf(w, "dry/wet\t%.2f\n", comp.DryWet())
	fmt.Fprintf(w, "input peak\t%.2f dBFS\n", levels.PeakDB(tone))
	fmt.Fprintf(w, "input RMS\t%.2f dBFS\n", levels.RMSDB(tone))
	fmt.Fprintf(w, "output peak\t%.2f dBFS\n", levels.PeakDB(out))
	fmt.Fprintf(w, "output RMS\t%.2f dBFS\n", levels.RMSDB(out))
	fmt.Fprintf(w, "input crest\t%.2f dB\n", levels.CrestFactorDB(tone))
	fmt.Fprintf(w, "output crest\t%.2f dB\n", levels.CrestFactorDB(out))
	fmt.Fprintf(w, "max gain reduction\t%.2f dB\n", core.LinearToDB(metrics.GainReduction))

	mags, err := levels.AmplitudeSpectrum(out, levels.SpectrumConfig{
		SampleRate: rate,
		WindowType: window.TypeHann,
	})
	if err == nil {
		bin := levels.DominantBin(mags)
		fftSize := 2 * (len(mags) - 1)
		fmt.Fprintf(w, "dominant frequency\t%.1f Hz\n", levels.BinFrequency(bin, fftSize, rate))
		fmt.Fprintf(w, "dominant level\t%.2f dBFS\n", core.LinearToDB(mags[bin]))
	}
}

func printCurve(tone []float64, rate, output, dryWet float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "compress\tout peak (dBFS)\tout RMS (dBFS)\tgain reduction (dB)")

	for i := 0; i <= 10; i++ {
		compress := float64(i) / 10

		comp, out := process(tone, rate, compress, output, dryWet)
		metrics := comp.GetMetrics()

		fmt.Fprintf(w, "%.1f\t%.2f\t%.2f\t%.2f\n",
			compress, levels.PeakDB(out), levels.RMSDB(out),
			core.LinearToDB(metrics.GainReduction))
	}
}
