package rhythm

import "golang.org/x/exp/constraints"

// Clamp limits t to the interval [minVal, maxVal], in whichever order the bounds are given.
func Clamp[T constraints.Ordered](t, minVal, maxVal T) T {
	if minVal > maxVal {
		minVal, maxVal = maxVal, minVal
	}
	if t < minVal {
		return minVal
	}
	if t > maxVal {
		return maxVal
	}
	return t
}
