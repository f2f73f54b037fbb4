// Package signal holds the preprocessing applied to a cast before detection:
// median-filter despiking and the derived gradient/power series consumed by
// the statistical detectors.
package signal

import (
	"fmt"
	"sort"
)

// MedFilt applies a running median of width kernelSize. Unlike scipy's medfilt
// the series is padded by repeating the edge samples, so surface and bottom
// temperatures are not pulled towards zero.
// kernelSize must be a positive odd integer.
func MedFilt(data []float64, kernelSize int) ([]float64, error) {
	if kernelSize < 1 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("kernel size must be a positive odd integer, got %d", kernelSize)
	}
	n := len(data)
	if n == 0 {
		return nil, nil
	}

	half := kernelSize / 2
	result := make([]float64, n)
	window := make([]float64, kernelSize)

	for i := 0; i < n; i++ {
		for j := -half; j <= half; j++ {
			idx := i + j
			if idx < 0 {
				idx = 0
			} else if idx >= n {
				idx = n - 1
			}
			window[j+half] = data[idx]
		}

		sort.Float64s(window)
		result[i] = window[half]
	}
	return result, nil
}
