package service

import (
	"context"
	"fmt"
	"math"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/domain/repository"
	"github.com/diillson/consumption-fraud-go/internal/shared/types"
)

// Decide maps a probability to a verdict. Only probabilities strictly above
// entity.DecisionThreshold are fraudulent.
func Decide(probability float64) (entity.Verdict, error) {
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return "", fmt.Errorf("%w: probability %v outside [0,1]", types.ErrInvalidModelOutput, probability)
	}
	if probability > entity.DecisionThreshold {
		return entity.VerdictFraudulent, nil
	}
	return entity.VerdictLegitimate, nil
}

// Decision is the verdict for one batch entry together with the probability it
// was derived from.
type Decision struct {
	Probability float64
	Verdict     entity.Verdict
}

// VerdictEngine runs the classifier over a normalized tensor.
type VerdictEngine struct {
	classifier repository.Classifier
}

// NewVerdictEngine creates an engine bound to a classifier.
func NewVerdictEngine(classifier repository.Classifier) *VerdictEngine {
	return &VerdictEngine{classifier: classifier}
}

// Evaluate returns one decision per batch entry, in batch order. Either every
// entry gets a decision or an error is returned.
func (e *VerdictEngine) Evaluate(ctx context.Context, input entity.Tensor) ([]Decision, error) {
	if err := checkShape(input, e.classifier.InputShape()); err != nil {
		return nil, err
	}

	probabilities, err := e.classifier.Predict(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("classifier %s: %w", e.classifier.Name(), err)
	}
	if len(probabilities) != input.Shape.Batch {
		return nil, fmt.Errorf("%w: expected %d probabilities, got %d",
			types.ErrInvalidModelOutput, input.Shape.Batch, len(probabilities))
	}

	decisions := make([]Decision, len(probabilities))
	for i, p := range probabilities {
		verdict, err := Decide(p)
		if err != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i, err)
		}
		decisions[i] = Decision{Probability: p, Verdict: verdict}
	}
	return decisions, nil
}

func checkShape(input entity.Tensor, declared entity.Shape) error {
	if input.Shape.Batch <= 0 || len(input.Data) != input.Shape.Size() {
		return fmt.Errorf("%w: tensor %s holds %d values", types.ErrShapeMismatch, input.Shape, len(input.Data))
	}
	if input.Shape.Timesteps != declared.Timesteps || input.Shape.Features != declared.Features {
		return fmt.Errorf("%w: tensor %s, classifier expects (n, %d, %d)",
			types.ErrShapeMismatch, input.Shape, declared.Timesteps, declared.Features)
	}
	return nil
}
