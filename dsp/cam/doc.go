// Package cam implements the cloud advection model for plant-level
// irradiance smoothing.
//
// A point sensor sees every cloud edge at once; a plant spread over
// kilometres sees it arrive gradually as the cloud front advects across it.
// The package models that averaging in the frequency domain. A 1-D
// generation density d(x) sampled every dx metres is normalised, transformed,
// and its spatial frequency axis is mapped onto a temporal one through the
// cloud speed. The resulting transfer function is resampled onto the
// frequency grid of the measured series, shifted so that it is referenced to
// the sensor position within the plant, and applied by spectral
// multiplication.
//
// The pipeline is split into five stateless stages which can be used on
// their own:
//
//   - [Analyze]:       amplitude-normalised spectrum and frequency axis of the input
//   - [PlantSpectrum]: normalised plant spectrum on its temporal frequency axis
//   - [Resample]:      magnitude/phase interpolation onto the input axis
//   - [CorrectDelay]:  reference-position phase shift, conjugated for negative speeds
//   - [Synthesize]:    spectral product and inverse transform
//
// [Smooth] runs all five with up-front validation.
//
// # Usage
//
//	res, err := cam.Smooth(dt, ghi, dx, density, 20, cam.WithReferencePosition(500))
//	if err != nil {
//		return err
//	}
//	smoothed := res.Smoothed
//
// # Known limitation
//
// [Resample] interpolates the wrapped phase of the plant spectrum. Where the
// phase jumps between +π and -π the interpolated value between two plant bins
// averages across the jump. For distributions whose spectrum crosses the
// wrap at non-negligible magnitude this produces an inaccurate bin. Zero
// padding the distribution narrows the affected interval.
package cam
