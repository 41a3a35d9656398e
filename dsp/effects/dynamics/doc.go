// Package dynamics provides reusable non-I/O dynamics processors.
//
// Included processors:
//   - ButterflyCompressor: Stereo two-stage compressor with a bipolar
//     butterfly detector, sign-dependent release smoothing, a transient
//     gain stage, hard limiting and dry/wet crossfading.
package dynamics
