package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "courier/internal/delivery/context"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/service"
	"courier/internal/errors"

	"github.com/google/uuid"
)

func newEvent(ctx context.Context, eventType, accountRef, subjectID string, attrs map[string]string) *service.DomainEvent {
	return &service.DomainEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		AccountRef: accountRef,
		SubjectID:  subjectID,
		Attributes: attrs,
		OccurredAt: time.Now(),
	}
}

// publish never fails the calling operation
func publish(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, event *service.DomainEvent) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			slog.String("event_type", event.Type),
			slog.String("subject_id", event.SubjectID),
			slog.Any("error", err),
		)
	}
}

// transportAppError maps a transport failure onto the public taxonomy
func transportAppError(err error) error {
	terr, ok := errors.AsType[*service.TransportError](err)
	if !ok {
		return err
	}
	if terr.Unavailable {
		return domainerrors.ErrTransportUnavailable.WithReason(terr.Reason)
	}

	return domainerrors.ErrTransportRejected.WithReason(terr.Reason)
}

func isTransportUnavailable(err error) bool {
	terr, ok := errors.AsType[*service.TransportError](err)

	return ok && terr.Unavailable
}
