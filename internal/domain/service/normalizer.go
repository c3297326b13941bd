package service

import (
	"fmt"
	"math"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
	"github.com/diillson/consumption-fraud-go/internal/shared/types"
)

// PadSequence returns a sequence of exactly length steps. Longer sequences keep
// their first length entries; shorter ones get zero vectors appended.
func PadSequence(seq entity.Sequence, length int) entity.Sequence {
	out := make(entity.Sequence, length)
	copy(out, seq)
	return out
}

// Normalize pads every client sequence to entity.SequenceLength and standardizes
// each feature across all clients and timesteps of this batch, zero padding
// included.
//
// The scaling statistics come from the batch being scored and are thrown away
// afterwards, so the same client can get different inputs depending on who it
// is scored with.
func Normalize(set *entity.SequenceSet) (entity.Tensor, error) {
	if set == nil || set.Len() == 0 {
		return entity.Tensor{}, types.ErrEmptyBatch
	}

	tensor := entity.NewTensor(entity.Shape{
		Batch:     set.Len(),
		Timesteps: entity.SequenceLength,
		Features:  entity.NumFeatures,
	})

	for b, id := range set.ClientIDs() {
		for t, features := range PadSequence(set.Sequence(id), entity.SequenceLength) {
			for f, v := range features {
				tensor.Set(b, t, f, v)
			}
		}
	}

	rows := tensor.Rows()
	scaled, err := NewStandardScaler().FitTransform(rows)
	if err != nil {
		return entity.Tensor{}, fmt.Errorf("scaling batch: %w", err)
	}

	for r, row := range scaled {
		for f, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return entity.Tensor{}, fmt.Errorf("%w: row %d, feature %s", types.ErrNumericOverflow, r, entity.FeatureNames[f])
			}
		}
		copy(rows[r], row)
	}

	return tensor, nil
}
