package merge

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// InterpolationMethod selects how values between anchors are estimated when
// upsampling a coarse series onto a finer grid.
type InterpolationMethod string

const (
	Linear     InterpolationMethod = "linear"
	Nearest    InterpolationMethod = "nearest"
	Cubic      InterpolationMethod = "cubic"
	Polynomial InterpolationMethod = "polynomial"
)

// minAnchors returns the minimum anchor count the method is defined for.
// order only applies to Polynomial.
func (m InterpolationMethod) minAnchors(order int) (int, bool) {
	switch m {
	case Nearest:
		return 1, true
	case Linear:
		return 2, true
	case Cubic:
		return 4, true
	case Polynomial:
		return order + 1, true
	}
	return 0, false
}

// Interpolate fills null slots of one column using its non-null cells as
// anchor points. Only slots strictly between the first and last anchor are
// filled; the interpolator never extrapolates, so slots outside that range
// stay null. With fewer anchors than the method needs it fails with
// InsufficientAnchorsError rather than degrading to a lower-order method.
// Returns the number of cells filled.
func Interpolate(f *Frame, col string, method InterpolationMethod, order int) (int, error) {
	if !f.HasColumn(col) {
		return 0, &SchemaError{Column: col, Reason: "interpolation target not in merged table"}
	}
	if method == Polynomial && order < 1 {
		return 0, &ConfigError{Field: "interpolation.order", Reason: "polynomial order must be at least 1"}
	}
	need, known := method.minAnchors(order)
	if !known {
		return 0, &ConfigError{Field: "interpolation.method", Reason: "unknown method " + string(method)}
	}

	vals := f.Data[col]
	var xs, ys []float64
	for i, v := range vals {
		if !math.IsNaN(v) {
			xs = append(xs, float64(f.Timestamps[i].Unix()))
			ys = append(ys, v)
		}
	}
	if len(xs) < need {
		return 0, &InsufficientAnchorsError{Column: col, Method: string(method), Need: need, Got: len(xs)}
	}

	predict, err := fitPredictor(method, order, xs, ys)
	if err != nil {
		return 0, err
	}

	filled := 0
	lo, hi := xs[0], xs[len(xs)-1]
	for i := range vals {
		if !math.IsNaN(vals[i]) {
			continue
		}
		x := float64(f.Timestamps[i].Unix())
		if x < lo || x > hi {
			continue // outside the anchor range: never extrapolate
		}
		vals[i] = predict(x)
		filled++
	}
	return filled, nil
}

// fitPredictor builds the evaluation function for a method over sorted,
// strictly increasing anchors. Linear and cubic come from gonum/interp;
// nearest and local Lagrange polynomials are evaluated here since gonum
// ships neither.
func fitPredictor(method InterpolationMethod, order int, xs, ys []float64) (func(float64) float64, error) {
	switch method {
	case Linear:
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return nil, err
		}
		return pl.Predict, nil
	case Cubic:
		var nc interp.NaturalCubic
		if err := nc.Fit(xs, ys); err != nil {
			return nil, err
		}
		return nc.Predict, nil
	case Nearest:
		return func(x float64) float64 {
			i := sort.SearchFloat64s(xs, x)
			if i == 0 {
				return ys[0]
			}
			if i == len(xs) {
				return ys[len(ys)-1]
			}
			if x-xs[i-1] <= xs[i]-x {
				return ys[i-1]
			}
			return ys[i]
		}, nil
	case Polynomial:
		return func(x float64) float64 {
			return lagrange(xs, ys, x, order)
		}, nil
	}
	return nil, &ConfigError{Field: "interpolation.method", Reason: "unknown method " + string(method)}
}

// lagrange evaluates a local Lagrange polynomial of the given order through
// the order+1 anchors nearest to x.
func lagrange(xs, ys []float64, x float64, order int) float64 {
	n := order + 1
	// Window of n anchors around x, clamped to the anchor range.
	i := sort.SearchFloat64s(xs, x)
	start := i - n/2
	if start < 0 {
		start = 0
	}
	if start+n > len(xs) {
		start = len(xs) - n
	}
	wx, wy := xs[start:start+n], ys[start:start+n]

	y := 0.0
	for j := 0; j < n; j++ {
		term := wy[j]
		for k := 0; k < n; k++ {
			if k != j {
				term *= (x - wx[k]) / (wx[j] - wx[k])
			}
		}
		y += term
	}
	return y
}
