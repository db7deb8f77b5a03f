package services

import (
	"context"
	"encoding/json"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/internal/infrastructure/buffer"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/usecase"
)

// ActivityBridge exposes the activity buffer to use cases as an ActivityRecorder.
type ActivityBridge struct {
	buffer *ActivityBuffer
}

func NewActivityBridge(buffer *ActivityBuffer) *ActivityBridge {
	return &ActivityBridge{buffer: buffer}
}

func (b *ActivityBridge) Record(ctx context.Context, activity domain.Activity) error {
	if b.buffer == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	priority := 3
	if activity.ActorID == "" {
		// system entries (sweeps) replay after user actions
		priority = 4
	}
	return b.buffer.Offer(ctx, buffer.Item{
		ID:        activity.ID,
		ActorID:   activity.ActorID,
		Entity:    buffer.EntityActivity,
		Operation: buffer.OperationAppend,
		Data:      payload,
		Priority:  priority,
	})
}

var _ usecase.ActivityRecorder = (*ActivityBridge)(nil)
