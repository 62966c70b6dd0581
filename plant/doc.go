// Package plant builds one-dimensional plant distributions for smoothing.
//
// A plant is described along the direction of cloud motion: a generation
// density sampled every DX metres, position 0 being the edge a cloud
// reaches first, and the position of the irradiance sensor within that
// frame. Two builders are provided. [Uniform] lays out a constant density
// with trailing zero padding. [Project] and [Rasterize] turn a 2-D point
// layout into a density by projecting each generator onto the wind
// direction through the sensor and binning the distances.
//
// Trailing zeros refine the frequency resolution of the plant spectrum
// without changing the plant.
package plant
