package usecase

import (
	"context"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
)

// ActivityRecorder abstracts where activity lands so use cases stay storage-agnostic.
type ActivityRecorder interface {
	Record(ctx context.Context, activity domain.Activity) error
}

// RecordFunc adapts a plain function to ActivityRecorder.
type RecordFunc func(ctx context.Context, activity domain.Activity) error

func (f RecordFunc) Record(ctx context.Context, activity domain.Activity) error {
	return f(ctx, activity)
}
