package omath

import "github.com/chewxy/math32"

// Sum ...
func Sum(nums []float32) (result float32) {
	for _, v := range nums {
		result += v
	}
	return result
}

// Mean ...
func Mean(nums []float32) float32 {
	if len(nums) == 0 {
		return 0
	}
	return Sum(nums) / float32(len(nums))
}

// Variance ...
func Variance(nums []float32) (variance float32) {
	if len(nums) == 0 {
		return 0
	}
	mean := Mean(nums)
	for _, number := range nums {
		d := number - mean
		variance += d * d
	}
	return variance / float32(len(nums))
}

// StandardDeviation ...
func StandardDeviation(nums []float32) float32 {
	return math32.Sqrt(Variance(nums))
}

// Max returns the largest number, or 0 for an empty slice.
func Max(nums []float32) (max float32) {
	for i, v := range nums {
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}
