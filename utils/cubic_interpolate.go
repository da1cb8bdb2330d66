// SPDX-License-Identifier: EPL-2.0

// Package utils holds the per-sample kernels of the audio stream stages.
package utils

// CubicInterpolate evaluates the Catmull-Rom spline through four consecutive
// samples at x, the fractional position between y1 (x=0) and y2 (x=1).
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	c1 := 0.5 * (y2 - y0)
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c3 := 0.5*(y3-y0) + 1.5*(y1-y2)
	return ((c3*x+c2)*x+c1)*x + y1
}

// LowPass is one step of a one-pole low-pass filter with smoothing factor
// alpha in (0, 1]: the new output from input x and the previous output.
func LowPass(x, prev, alpha float32) float32 {
	return alpha*x + (1-alpha)*prev
}
