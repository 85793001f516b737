package projections

import (
	"context"
	"strings"

	"convocation/internal/domain/application"
	domainOutbox "convocation/internal/domain/outbox"
)

// FailedNotificationLimit caps the admin outbox listing.
const FailedNotificationLimit = 100

// FailedNotification is one undeliverable email as shown to admins.
type FailedNotification struct {
	ID            string
	To            string
	Subject       string
	Attempts      int
	LastAttempted string
	Error         string
}

// GetFailedNotificationsDeps holds dependencies for GetFailedNotifications.
type GetFailedNotificationsDeps struct {
	OutboxStore OutboxStore
}

// QueryGetFailedNotifications lists notification emails that ran out of retries.
// POST: Entries whose payload cannot be decoded are listed with their raw error
func QueryGetFailedNotifications(ctx context.Context, deps GetFailedNotificationsDeps) ([]FailedNotification, error) {
	entries, err := deps.OutboxStore.ListFailed(ctx, FailedNotificationLimit)
	if err != nil {
		return nil, err
	}
	out := make([]FailedNotification, 0, len(entries))
	for _, e := range entries {
		n := FailedNotification{
			ID:            e.ID,
			Attempts:      e.Attempts,
			LastAttempted: application.FormatSubmitted(e.LastAttemptedAt),
			Error:         e.ErrorMessage,
		}
		if e.ActionType == domainOutbox.ActionTypeEmail {
			if p, err := domainOutbox.DecodeEmail(e.Payload); err == nil {
				n.To = strings.Join(p.To, ", ")
				n.Subject = p.Subject
			}
		}
		out = append(out, n)
	}
	return out, nil
}
