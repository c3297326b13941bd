package repository

import (
	"context"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
)

// RecordRepository loads raw client records from a source location.
type RecordRepository interface {
	LoadRecords(ctx context.Context, source string) ([]entity.RawRecord, error)
}
