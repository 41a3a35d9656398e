package dynamics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-buttercomp/dsp/core"
)

const (
	// Default normalized parameters.
	defaultButterflyCompress = 0.0
	defaultButterflyOutput   = 0.5 // unity gain
	defaultButterflyDryWet   = 1.0 // fully wet

	// Internal parameter scaling for the normalized [0, 1] controls.
	butterflyDriveRange      = 14.0 // compress maps to 0-14 drive units
	butterflyOutputGainRange = 2.0  // output maps to 0-2x linear gain

	// One-pole coefficients for the butterfly targets and the transient
	// envelope. These are fixed constants, not derived from the sample
	// rate: the tracked time constant shortens as the rate rises, which
	// is part of the effect's character and must not be "corrected".
	butterflySmoothKeep = 0.999
	butterflySmoothFeed = 0.001

	// A transient must exceed the tracked envelope by this factor before
	// the second gain stage engages.
	butterflyTransientMargin = 1.1

	// Magnitude of the dither noise added on alternating samples.
	butterflyDitherScale = 1.0e-10
)

// ButterflyMetrics holds metering information for visualization and analysis.
type ButterflyMetrics struct {
	InputPeak     float64 // Maximum input level since last reset
	OutputPeak    float64 // Maximum output level since last reset
	GainReduction float64 // Minimum wet-path gain (maximum reduction) since last reset
}

// butterflyChannel holds the running trackers for one channel of the stereo
// pair. The two channels carry identical structure but never couple.
type butterflyChannel struct {
	targetPos  float64 // slow envelope of positive excursions
	targetNeg  float64 // slow envelope of negative excursions
	controlPos float64 // smoothed gain control, positive half
	controlNeg float64 // smoothed gain control, negative half
	envelope   float64 // fast-attack/slow-release transient envelope
}

// ButterflyCompressor is a stereo two-stage program compressor built around a
// bipolar "butterfly" detector: the positive and negative excursions of each
// channel are tracked by independent slow envelopes, and the derived control
// values are applied with sign-dependent release smoothing. A second
// fast-attack/slow-release envelope applies a coarser ratio to transients
// that jump above the tracked level, and the result is hard-limited, scaled
// by the output gain and crossfaded with the dry signal.
//
// The two detector stages deliberately age differently across sample rates:
// the butterfly targets and the transient envelope use fixed smoothing
// coefficients (their perceived time constant shortens at higher rates),
// while the control release scales with 1/sampleRate. Both behaviors are
// part of the sonic character and are preserved exactly.
//
// The processing path performs no allocation and no locking, making it safe
// for audio-callback use. The type is not thread-safe: the host must
// serialize access to a given instance, and Reset must never run
// concurrently with processing.
type ButterflyCompressor struct {
	sampleRate float64

	// Normalized user parameters, always held in [0, 1].
	compress float64
	output   float64
	dryWet   float64

	// Per-channel running state (index 0 = left, 1 = right).
	channels [2]butterflyChannel

	// Free-running 2-cycle toggle; dither is added on the "on" phase only.
	ditherPhase bool
	rng         *rand.Rand

	metrics ButterflyMetrics
}

// Option mutates construction-time settings of a ButterflyCompressor.
// Invalid values are clamped or ignored, mirroring the setter contract.
type Option func(*ButterflyCompressor)

// WithCompress sets the initial compression amount, clamped to [0, 1].
func WithCompress(v float64) Option {
	return func(c *ButterflyCompressor) { c.SetCompress(v) }
}

// WithOutput sets the initial output gain, clamped to [0, 1].
func WithOutput(v float64) Option {
	return func(c *ButterflyCompressor) { c.SetOutput(v) }
}

// WithDryWet sets the initial dry/wet mix, clamped to [0, 1].
func WithDryWet(v float64) Option {
	return func(c *ButterflyCompressor) { c.SetDryWet(v) }
}

// WithRand sets the random source used for output dither. Useful for
// reproducible processing in tests; nil is ignored. By default each
// instance owns a freshly seeded PCG generator.
func WithRand(rng *rand.Rand) Option {
	return func(c *ButterflyCompressor) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// NewButterflyCompressor creates a stereo butterfly compressor.
//
// Sample rate must be positive and finite and is fixed for the instance's
// lifetime; changing it requires creating a new instance.
//
// Default parameters:
//   - Compress: 0 (no gain reduction)
//   - Output: 0.5 (unity gain; 1.0 is +6 dB)
//   - DryWet: 1 (fully processed signal)
func NewButterflyCompressor(sampleRate float64, opts ...Option) (*ButterflyCompressor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("butterfly compressor sample rate must be > 0 and finite: %f", sampleRate)
	}

	c := &ButterflyCompressor{
		sampleRate:  sampleRate,
		compress:    defaultButterflyCompress,
		output:      defaultButterflyOutput,
		dryWet:      defaultButterflyDryWet,
		ditherPhase: true,
		metrics:     ButterflyMetrics{GainReduction: 1.0},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return c, nil
}

// SetCompress sets the normalized compression amount.
// The value is clamped to [0, 1]: 0 disables gain reduction, 1 is maximum
// drive. Takes effect from the next processed sample.
func (c *ButterflyCompressor) SetCompress(v float64) {
	c.compress = core.ClampUnit(v)
}

// SetOutput sets the normalized output gain.
// The value is clamped to [0, 1]: 0 is silence, 0.5 unity, 1 is +6 dB.
func (c *ButterflyCompressor) SetOutput(v float64) {
	c.output = core.ClampUnit(v)
}

// SetDryWet sets the normalized dry/wet crossfade.
// The value is clamped to [0, 1]: 0 is fully dry (bypass), 1 fully wet.
func (c *ButterflyCompressor) SetDryWet(v float64) {
	c.dryWet = core.ClampUnit(v)
}

// Compress returns the current normalized compression amount.
func (c *ButterflyCompressor) Compress() float64 { return c.compress }

// Output returns the current normalized output gain.
func (c *ButterflyCompressor) Output() float64 { return c.output }

// DryWet returns the current normalized dry/wet mix.
func (c *ButterflyCompressor) DryWet() float64 { return c.dryWet }

// SampleRate returns the sample rate the instance was created with.
func (c *ButterflyCompressor) SampleRate() float64 { return c.sampleRate }

// Reset zeroes the per-channel running state (butterfly targets, control
// smoothers and the transient envelope). Parameters, sample rate and the
// dither source are untouched. Idempotent; must not run concurrently with
// processing.
func (c *ButterflyCompressor) Reset() {
	for ch := range c.channels {
		c.channels[ch] = butterflyChannel{}
	}
}

// butterflyParams caches the per-call derivation of the normalized
// parameters so the per-sample loop stays divisions-and-multiplies only.
type butterflyParams struct {
	drive        float64 // compress scaled to internal drive units
	control      float64 // drive * 0.1, shared by conditioning and ratio
	outputGain   float64
	wet          float64
	dry          float64
	releaseSpeed float64 // control smoothing step, scales with 1/sampleRate
}

func (c *ButterflyCompressor) deriveParams() butterflyParams {
	drive := c.compress * butterflyDriveRange

	return butterflyParams{
		drive:        drive,
		control:      drive * 0.1,
		outputGain:   c.output * butterflyOutputGainRange,
		wet:          c.dryWet,
		dry:          1.0 - c.dryWet,
		releaseSpeed: butterflySmoothFeed * (1.0 / c.sampleRate),
	}
}

// ProcessStereo processes a single stereo frame and returns the compressed
// left and right outputs. Running state carries forward between calls, so a
// continuous stream may be fed one frame at a time.
func (c *ButterflyCompressor) ProcessStereo(left, right float64) (float64, float64) {
	p := c.deriveParams()

	outL := c.processChannel(&c.channels[0], left, p)
	outR := c.processChannel(&c.channels[1], right, p)

	return outL, outR
}

// ProcessStereoInPlace applies the compressor to paired left/right buffers
// in place. A nil buffer makes the whole call a no-op with no partial side
// effects; zero-length buffers are likewise a no-op. Non-nil buffers must
// have equal length.
//
// Safe to call repeatedly on consecutive, non-overlapping segments of a
// continuous stream; the running state carries across call boundaries.
func (c *ButterflyCompressor) ProcessStereoInPlace(left, right []float64) error {
	if left == nil || right == nil {
		return nil
	}

	if len(left) != len(right) {
		return fmt.Errorf("butterfly compressor: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	p := c.deriveParams()

	for i := range left {
		left[i] = c.processChannel(&c.channels[0], left[i], p)
		right[i] = c.processChannel(&c.channels[1], right[i], p)
	}

	return nil
}

// ProcessInterleavedInPlace applies the compressor to an interleaved stereo
// buffer (L, R, L, R, ...) in place. A nil buffer is a no-op; the length
// must be even.
func (c *ButterflyCompressor) ProcessInterleavedInPlace(buf []float64) error {
	if buf == nil {
		return nil
	}

	if len(buf)%2 != 0 {
		return fmt.Errorf("butterfly compressor: interleaved buffer length must be even: %d", len(buf))
	}

	p := c.deriveParams()

	for i := 0; i < len(buf); i += 2 {
		buf[i] = c.processChannel(&c.channels[0], buf[i], p)
		buf[i+1] = c.processChannel(&c.channels[1], buf[i+1], p)
	}

	return nil
}

// processChannel runs one sample of one channel through the full chain:
// input conditioning, butterfly detection, sign-dependent gain, transient
// stage, output gain, hard limit, dry/wet mix and alternating dither.
//
// The arithmetic and its evaluation order are kept exactly as modeled so
// results stay reproducible sample-for-sample.
func (c *ButterflyCompressor) processChannel(st *butterflyChannel, in float64, p butterflyParams) float64 {
	drySample := in
	sample := in * (1.0 + p.control)

	// Butterfly split: positive and negative excursions feed independent
	// slow envelopes.
	posTarget := math.Abs(sample)
	negTarget := -posTarget

	st.targetPos = st.targetPos*butterflySmoothKeep + posTarget*butterflySmoothFeed
	st.targetNeg = st.targetNeg*butterflySmoothKeep + negTarget*butterflySmoothFeed

	controlPosTarget := st.targetPos * p.drive * 0.1
	controlNegTarget := st.targetNeg * p.drive * 0.1

	// Sign-dependent gain with release-style smoothing. Control values
	// chase their targets at a rate that scales with 1/sampleRate.
	var divisor float64

	if sample > 0.0 {
		st.controlPos += (controlPosTarget - st.controlPos) * p.releaseSpeed
		divisor = 1.0 + st.controlPos
	} else {
		st.controlNeg += (controlNegTarget - st.controlNeg) * p.releaseSpeed
		divisor = 1.0 + math.Abs(st.controlNeg)
	}

	sample /= divisor

	// Second stage: instant-attack/slow-release envelope. Transients more
	// than 10% above the tracked level get the coarser ratio.
	absSample := math.Abs(sample)
	if absSample > st.envelope {
		st.envelope = absSample
	} else {
		st.envelope = st.envelope*butterflySmoothKeep + absSample*butterflySmoothFeed
	}

	compRatio := 1.0 + p.control
	if absSample > st.envelope*butterflyTransientMargin {
		sample /= compRatio
		divisor *= compRatio
	}

	// Output gain into a hard ceiling/floor.
	sample *= p.outputGain

	if sample > 1.0 {
		sample = 1.0
	}

	if sample < -1.0 {
		sample = -1.0
	}

	out := drySample*p.dry + sample*p.wet

	// Inaudible decorrelation noise on every other sample.
	c.ditherPhase = !c.ditherPhase
	if c.ditherPhase {
		out += (c.rng.Float64() - 0.5) * butterflyDitherScale
	}

	c.updateMetrics(math.Abs(drySample), math.Abs(out), 1.0/divisor)

	return out
}

// GetMetrics returns current metering values.
func (c *ButterflyCompressor) GetMetrics() ButterflyMetrics {
	return c.metrics
}

// ResetMetrics clears metering state.
func (c *ButterflyCompressor) ResetMetrics() {
	c.metrics = ButterflyMetrics{
		GainReduction: 1.0, // Initialize to no reduction
	}
}

func (c *ButterflyCompressor) updateMetrics(inputLevel, outputLevel, gain float64) {
	if inputLevel > c.metrics.InputPeak {
		c.metrics.InputPeak = inputLevel
	}

	if outputLevel > c.metrics.OutputPeak {
		c.metrics.OutputPeak = outputLevel
	}

	if gain < c.metrics.GainReduction {
		c.metrics.GainReduction = gain
	}
}
