package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amirphl/spam-guard/models"
	"github.com/amirphl/spam-guard/utils"
	"github.com/nats-io/nats.go"
)

// DefaultCallEventSubject is where recorded call events are fanned out
const DefaultCallEventSubject = "spam.call-events"

// EventPublisher forwards recorded call events to downstream consumers
type EventPublisher interface {
	PublishCallEvent(ctx context.Context, event *models.CallEvent) error
}

// NATSEventPublisher publishes call events as JSON messages on a NATS subject
type NATSEventPublisher struct {
	nc      *nats.Conn
	subject string
}

// NewNATSEventPublisher returns a NATS publisher, or a no-op publisher when nc is nil
func NewNATSEventPublisher(nc *nats.Conn, subject string) EventPublisher {
	if nc == nil {
		return NewNoopEventPublisher()
	}
	if subject == "" {
		subject = DefaultCallEventSubject
	}
	return &NATSEventPublisher{nc: nc, subject: subject}
}

func (p *NATSEventPublisher) PublishCallEvent(ctx context.Context, event *models.CallEvent) error {
	if event == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode call event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	if requestID := utils.RequestIDFromContext(ctx); requestID != "" {
		msg.Header.Set("X-Request-ID", requestID)
	}

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish call event to %s: %w", p.subject, err)
	}
	return nil
}

type noopEventPublisher struct{}

// NewNoopEventPublisher returns a publisher that drops every event
func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

func (noopEventPublisher) PublishCallEvent(context.Context, *models.CallEvent) error { return nil }
