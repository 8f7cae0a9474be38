package businessflow

import (
	"context"
	"strings"

	"github.com/amirphl/spam-guard/app/services"
	"github.com/amirphl/spam-guard/models"
	"github.com/amirphl/spam-guard/repository"
	"github.com/amirphl/spam-guard/utils"
	"go.uber.org/zap"
)

// CallEventFlow appends call events to the event log
type CallEventFlow interface {
	Append(ctx context.Context, number, eventType, source string, details models.EventDetails) (*models.CallEvent, error)
}

type CallEventFlowImpl struct {
	eventRepo repository.CallEventRepository
	publisher services.EventPublisher
}

func NewCallEventFlow(eventRepo repository.CallEventRepository, publisher services.EventPublisher) CallEventFlow {
	if publisher == nil {
		publisher = services.NewNoopEventPublisher()
	}
	return &CallEventFlowImpl{
		eventRepo: eventRepo,
		publisher: publisher,
	}
}

// Append stores one event. The number does not need to be registered as spam.
func (f *CallEventFlowImpl) Append(ctx context.Context, number, eventType, source string, details models.EventDetails) (*models.CallEvent, error) {
	number = NormalizeNumber(number)
	if err := checkStorableNumber(number); err != nil {
		return nil, err
	}
	if strings.TrimSpace(eventType) == "" || strings.TrimSpace(source) == "" {
		return nil, NewBusinessError("CALL_EVENT_REQUIRED", "Call event type and source are required", ErrCallEventRequired)
	}

	event := &models.CallEvent{
		Number:     number,
		EventType:  eventType,
		Source:     source,
		Details:    details,
		OccurredAt: utils.UTCNow(),
	}

	if err := f.eventRepo.Save(ctx, event); err != nil {
		return nil, NewBusinessError("CALL_EVENT_RECORD_FAILED", "Failed to record call event", err)
	}
	callEventsRecordedTotal.Inc()

	// Fan-out is best effort; the row is already committed
	if err := f.publisher.PublishCallEvent(ctx, event); err != nil {
		zap.L().Warn("failed to publish call event",
			zap.Uint("event_id", event.ID),
			zap.String("numero", event.Number),
			zap.String("request_id", utils.RequestIDFromContext(ctx)),
			zap.Error(err),
		)
	}

	return event, nil
}
