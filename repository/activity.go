package repository

import (
	"context"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
)

type ActivityRepository interface {
	Append(ctx context.Context, activity domain.Activity) error
	ListByItem(ctx context.Context, kind domain.ItemKind, itemID string) ([]domain.Activity, error)
}
