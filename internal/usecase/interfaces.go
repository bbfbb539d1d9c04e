package usecase

import (
	"context"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

// EmailSender renders and delivers one sequence email. downloadURL is only
// meaningful for the lead_magnet type; implementations must return an error
// for sequence types missing from their template table rather than sending
// something empty.
type EmailSender interface {
	SendSequenceEmail(to, name, sequenceType, downloadURL string) error
}

// AnalyticsPublisher emits a product-analytics event. Implementations are
// fire-and-forget from the caller's perspective: intake treats a publish
// failure as a logged non-event.
type AnalyticsPublisher interface {
	PublishEvent(ctx context.Context, event entity.AnalyticsEvent) error
}

// EffectResult records the outcome of one best-effort side effect during
// intake, so a single log line can show exactly which secondary systems
// failed without any of them failing the request.
type EffectResult struct {
	Name string
	Err  error
}
