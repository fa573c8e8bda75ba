package worker

import (
	"context"
	"fmt"

	"github.com/PortNumber53/agency-site/backend/internal/models"
	"github.com/PortNumber53/agency-site/backend/internal/notify"
)

// Webhook event types.
const (
	EventContactCreated = "contact.created"
	EventQuoteSubmitted = "quote.submitted"
)

// Sender delivers a notification event. *notify.Client implements it.
type Sender interface {
	Send(ctx context.Context, event notify.Event) error
}

// RegisterNotificationJobs registers the handlers that forward new contact
// messages and quotes to sender.
func RegisterNotificationJobs(w *Worker, sender Sender) {
	w.RegisterHandler(models.JobTypeContactNotification, notificationHandler(EventContactCreated, sender))
	w.RegisterHandler(models.JobTypeQuoteNotification, notificationHandler(EventQuoteSubmitted, sender))
}

func notificationHandler(eventType string, sender Sender) Handler {
	return func(ctx context.Context, job *models.Job) error {
		id, _ := job.Payload["id"].(string)
		if id == "" {
			return Permanent(fmt.Errorf("missing id in %s payload", job.JobType))
		}

		err := sender.Send(ctx, notify.Event{
			Type:       eventType,
			ID:         id,
			OccurredAt: job.CreatedAt,
			Data:       map[string]interface{}(job.Payload),
		})
		if err != nil && notify.IsPermanent(err) {
			return Permanent(err)
		}
		return err
	}
}
