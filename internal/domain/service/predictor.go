package service

import (
	"context"
	"fmt"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/domain/repository"
)

// Predictor chains sequence building, normalization and the verdict engine.
// It holds no state between calls and is safe for concurrent use as long as
// the classifier is.
type Predictor struct {
	engine *VerdictEngine
}

// NewPredictor creates a predictor around a loaded classifier. The caller owns
// the classifier's lifecycle.
func NewPredictor(classifier repository.Classifier) *Predictor {
	return &Predictor{engine: NewVerdictEngine(classifier)}
}

// Predict scores every client present in records as one batch.
func (p *Predictor) Predict(ctx context.Context, records []entity.RawRecord) ([]entity.ClientVerdict, error) {
	set, err := BuildSequences(records)
	if err != nil {
		return nil, err
	}
	return p.PredictSet(ctx, set)
}

// PredictSet scores an already built sequence set as one batch.
func (p *Predictor) PredictSet(ctx context.Context, set *entity.SequenceSet) ([]entity.ClientVerdict, error) {
	tensor, err := Normalize(set)
	if err != nil {
		return nil, err
	}

	decisions, err := p.engine.Evaluate(ctx, tensor)
	if err != nil {
		return nil, err
	}

	ids := set.ClientIDs()
	verdicts := make([]entity.ClientVerdict, len(ids))
	for i, id := range ids {
		verdicts[i] = entity.ClientVerdict{
			ClientID:    id,
			Probability: decisions[i].Probability,
			Verdict:     decisions[i].Verdict,
			RecordCount: len(set.Sequence(id)),
			Label:       set.Label(id),
		}
	}
	return verdicts, nil
}

// PredictClient scores records and returns the verdict of the first client, the
// usual call when the records belong to a single client.
func (p *Predictor) PredictClient(ctx context.Context, records []entity.RawRecord) (entity.ClientVerdict, error) {
	verdicts, err := p.Predict(ctx, records)
	if err != nil {
		return entity.ClientVerdict{}, err
	}
	if len(verdicts) == 0 {
		return entity.ClientVerdict{}, fmt.Errorf("no verdict produced")
	}
	return verdicts[0], nil
}
