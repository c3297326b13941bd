package service

import (
	"fmt"
	"math"
)

// StandardScaler standardizes feature columns to zero mean and unit variance
// using the population standard deviation.
type StandardScaler struct {
	mean     []float64
	std      []float64
	constant []bool
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-column mean and standard deviation. A column whose values
// are all equal is marked constant, whatever rounding does to its std.
func (s *StandardScaler) Fit(data [][]float64) error {
	if len(data) == 0 {
		return fmt.Errorf("no data provided")
	}

	numFeatures := len(data[0])
	s.mean = make([]float64, numFeatures)
	s.std = make([]float64, numFeatures)
	s.constant = make([]bool, numFeatures)
	lo := make([]float64, numFeatures)
	hi := make([]float64, numFeatures)
	copy(lo, data[0])
	copy(hi, data[0])

	for _, sample := range data {
		if len(sample) != numFeatures {
			return fmt.Errorf("ragged data: expected %d features, got %d", numFeatures, len(sample))
		}
		for i, value := range sample {
			s.mean[i] += value
			lo[i] = math.Min(lo[i], value)
			hi[i] = math.Max(hi[i], value)
		}
	}
	for i := range s.mean {
		s.mean[i] /= float64(len(data))
	}

	for _, sample := range data {
		for i, value := range sample {
			diff := value - s.mean[i]
			s.std[i] += diff * diff
		}
	}
	for i := range s.std {
		s.std[i] = math.Sqrt(s.std[i] / float64(len(data)))
		s.constant[i] = lo[i] == hi[i] || s.std[i] == 0
	}

	return nil
}

// Transform returns the standardized copy of data. Constant columns map to
// exactly 0.0.
func (s *StandardScaler) Transform(data [][]float64) ([][]float64, error) {
	if len(s.mean) == 0 {
		return nil, fmt.Errorf("scaler not fitted")
	}

	result := make([][]float64, len(data))
	for i, sample := range data {
		if len(sample) != len(s.mean) {
			return nil, fmt.Errorf("row %d: expected %d features, got %d", i, len(s.mean), len(sample))
		}
		scaled := make([]float64, len(sample))
		for j, value := range sample {
			if s.constant[j] {
				continue
			}
			scaled[j] = (value - s.mean[j]) / s.std[j]
		}
		result[i] = scaled
	}
	return result, nil
}

// FitTransform fits the scaler on data and transforms it.
func (s *StandardScaler) FitTransform(data [][]float64) ([][]float64, error) {
	if err := s.Fit(data); err != nil {
		return nil, err
	}
	return s.Transform(data)
}

// Mean returns the fitted column means.
func (s *StandardScaler) Mean() []float64 { return s.mean }

// Std returns the fitted column standard deviations.
func (s *StandardScaler) Std() []float64 { return s.std }
