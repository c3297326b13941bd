package entity

import "fmt"

// Shape is the (batch, timesteps, features) extent of a Tensor.
type Shape struct {
	Batch     int `json:"batch"`
	Timesteps int `json:"timesteps"`
	Features  int `json:"features"`
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.Batch, s.Timesteps, s.Features)
}

// Size returns the number of cells.
func (s Shape) Size() int {
	return s.Batch * s.Timesteps * s.Features
}

// Tensor is a dense 3-D array stored row-major. Row r of the flattened
// (Batch*Timesteps, Features) view starts at Data[r*Features].
type Tensor struct {
	Shape Shape
	Data  []float64
}

// NewTensor allocates a zero-filled tensor.
func NewTensor(shape Shape) Tensor {
	return Tensor{Shape: shape, Data: make([]float64, shape.Size())}
}

// At returns the value at (b, t, f).
func (t Tensor) At(b, ts, f int) float64 {
	return t.Data[t.index(b, ts, f)]
}

// Set stores v at (b, t, f).
func (t Tensor) Set(b, ts, f int, v float64) {
	t.Data[t.index(b, ts, f)] = v
}

func (t Tensor) index(b, ts, f int) int {
	return (b*t.Shape.Timesteps+ts)*t.Shape.Features + f
}

// Rows returns the flattened (Batch*Timesteps, Features) view. The rows share
// memory with the tensor.
func (t Tensor) Rows() [][]float64 {
	n := t.Shape.Batch * t.Shape.Timesteps
	rows := make([][]float64, n)
	for r := 0; r < n; r++ {
		rows[r] = t.Data[r*t.Shape.Features : (r+1)*t.Shape.Features]
	}
	return rows
}

// Nested returns the tensor as [batch][timesteps][features] slices, the layout
// model servers expect on the wire.
func (t Tensor) Nested() [][][]float64 {
	out := make([][][]float64, t.Shape.Batch)
	for b := range out {
		out[b] = make([][]float64, t.Shape.Timesteps)
		for ts := range out[b] {
			start := t.index(b, ts, 0)
			row := make([]float64, t.Shape.Features)
			copy(row, t.Data[start:start+t.Shape.Features])
			out[b][ts] = row
		}
	}
	return out
}
