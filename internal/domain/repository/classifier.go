package repository

import (
	"context"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
)

// Classifier is the pretrained sequence model. It receives a (batch, timesteps,
// features) tensor and returns one probability per batch entry, in batch order.
// Implementations must be safe for concurrent use with distinct inputs.
type Classifier interface {
	// InputShape declares the timesteps and features the model accepts.
	// The Batch field is ignored.
	InputShape() entity.Shape
	Predict(ctx context.Context, input entity.Tensor) ([]float64, error)
	Name() string
}
