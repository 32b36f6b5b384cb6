// Package omath holds small float32 math helpers used to summarise simulations.
package omath

import (
	"math"

	"github.com/chewxy/math32"
)

// Round will round a number to a given precision.
func Round(val float32, precision int) float32 {
	p := math32.Pow(10, float32(precision))
	return float32(math.Round(float64(val*p))) / p
}
