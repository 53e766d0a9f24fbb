// Package gen contains a bunch of generic functions that will probably be in the Go std lib someday
package gen

// Return a copy of the slice
func CopySlice[T any](src []T) []T {
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// Limit v to the range [min, max]
func Clamp[T int | int64 | float32 | float64](v, min, max T) T {
	if v < min {
		return min
	} else if v > max {
		return max
	}
	return v
}
