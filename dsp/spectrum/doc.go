// Package spectrum provides FFT-adjacent spectrum-domain utilities.
//
// The package does not implement the FFT itself. It operates on complex
// spectrum bins produced by [github.com/cwbudde/algo-cam/internal/transform]
// or any other backend and provides helpers for frequency axes, polar
// decomposition, sorting and interpolation of spectra.
//
// Frequency axes follow the conventional DFT ordering: bin 0 is DC, the
// positive frequencies follow in ascending order up to Nyquist, then the
// negative frequencies from most negative towards zero. [FFTFreq] produces
// exactly this layout and [SortByFrequency] reorders it for interpolation.
package spectrum
