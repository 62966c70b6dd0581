package cam

import "errors"

// Errors returned by the smoothing pipeline.
var (
	// ErrInvalidParameter reports an argument that makes the model undefined,
	// such as a zero cloud speed or an all-zero plant distribution.
	ErrInvalidParameter = errors.New("cam: invalid parameter")

	// ErrNumericDegenerate reports a NaN or Inf in a computed result.
	ErrNumericDegenerate = errors.New("cam: non-finite result")
)
