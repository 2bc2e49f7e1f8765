package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/pkg/messaging"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/metrics"
)

type Emitter interface {
	Emit(ctx context.Context, evt *AppointmentEvent)
}

// Service publishes appointment events. Publishing is best effort: a
// failure is logged and counted, never returned to the caller.
type Service struct {
	publisher messaging.Publisher
	metrics   *metrics.Metrics
}

func NewService(publisher messaging.Publisher, m *metrics.Metrics) *Service {
	return &Service{publisher: publisher, metrics: m}
}

func (s *Service) Emit(ctx context.Context, evt *AppointmentEvent) {
	if s == nil || s.publisher == nil || evt == nil {
		return
	}
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	if err := s.publisher.Publish(ctx, AppointmentChannel, evt); err != nil {
		if s.metrics != nil {
			s.metrics.EventsFailed.WithLabelValues(string(evt.Type)).Inc()
		}
		log.Warn().Err(err).
			Str("event_type", string(evt.Type)).
			Str("appointment_id", evt.AppointmentID.String()).
			Msg("failed to publish appointment event")
		return
	}
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(string(evt.Type)).Inc()
	}
}
