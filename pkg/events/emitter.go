// Package events handles event emission for relationship lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Emitter publishes relationship lifecycle events. Emission is best
// effort: a publish failure is logged and counted but never fails the
// mutation that triggered it.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// Emit publishes a single social event and swallows publish failures.
func (e *Emitter) Emit(ctx context.Context, eventType, playerID, targetID string, payload any) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.Emit")
	defer span.End()

	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			e.logger.WithContext(ctx).WithError(err).WithField("event_type", eventType).Error("Failed to encode social event payload")
			metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
			return
		}
		data = encoded
	}

	event := &kafka.SocialEvent{
		EventType: eventType,
		PlayerID:  playerID,
		TargetID:  targetID,
		Data:      data,
	}

	if err := e.producer.PublishSocialEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("event_type", eventType).Error("Failed to emit social event")
		metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(eventType, "success").Inc()
}
