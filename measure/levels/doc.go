// Package levels provides amplitude measurements for audio buffers: peak,
// RMS and crest-factor levels in linear and dB form, plus a single-sided
// amplitude spectrum for locating spectral content of processed signals.
package levels
