// Package intutils provides utilities for working with ints
package intutils

// Clip clips an int to within a minimum and maximum value. If the int
// exceeds max, then the function returns max. If min exceeds the int,
// then the function returns min.
func Clip(value, min, max int) int {
	return Max(Min(value, max), min)
}

// Min calculates and returns the minimum integer in a list
func Min(ints ...int) int {
	min := ints[0]
	for _, val := range ints {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum int in a list
func Max(ints ...int) int {
	max := ints[0]
	for _, val := range ints {
		if val > max {
			max = val
		}
	}
	return max
}
