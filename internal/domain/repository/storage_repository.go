package repository

import (
	"context"

	"github.com/diillson/consumption-fraud-go/internal/domain/entity"
)

// ObjectStorage defines the object store operations used to read record files
// and publish reports.
type ObjectStorage interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, body []byte) error
}

// IdentityRepository resolves the cloud account the CLI runs under.
type IdentityRepository interface {
	GetAccountID(ctx context.Context) (string, error)
}

// AuditRepository records every verdict of a run in an external audit trail.
type AuditRepository interface {
	PublishVerdicts(ctx context.Context, logGroup string, report entity.ScoringReport) error
}
