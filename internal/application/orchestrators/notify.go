package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"convocation/internal/adapters/email"
	"convocation/internal/domain/outbox"
	"convocation/internal/domain/submission"
)

// OutboxStoreForNotify queues notifications whose first delivery failed.
type OutboxStoreForNotify interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// ContactNotifier emails the office about new contact messages. A failed
// send is queued in the outbox for the background processor.
type ContactNotifier struct {
	Sender     email.Sender
	Outbox     OutboxStoreForNotify
	To         []string
	From       string
	GenerateID func() string
	Now        func() time.Time
}

var contactEmail = template.Must(template.New("contact").Parse(`<h2>New contact message</h2>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Received:</strong> {{.Received}}</p>
<hr>
<p style="white-space: pre-wrap">{{.Message}}</p>
`))

// ContactPayload builds the notification for a stored contact submission.
func (n *ContactNotifier) ContactPayload(sub submission.Submission) (outbox.EmailPayload, error) {
	name := sub.Get("firstName") + " " + sub.Get("lastName")
	var buf bytes.Buffer
	err := contactEmail.Execute(&buf, map[string]string{
		"Name":     name,
		"Email":    sub.Get("email"),
		"Phone":    sub.Get("phone"),
		"Received": sub.SubmittedAt.UTC().Format("Jan 2, 2006 at 3:04 PM MST"),
		"Message":  sub.Get("message"),
	})
	if err != nil {
		return outbox.EmailPayload{}, fmt.Errorf("render contact email: %w", err)
	}
	return outbox.EmailPayload{
		To:      n.To,
		Subject: "New contact message from " + name,
		HTML:    buf.String(),
		ReplyTo: sub.Get("email"),
	}, nil
}

// Notify sends the office notification for sub. Delivery problems are logged
// and queued; the returned error is only non-nil when nothing could be queued either.
// PRE: sub is a stored contact submission
// POST: The email was sent, or an outbox entry exists for it, or an error is returned
func (n *ContactNotifier) Notify(ctx context.Context, sub submission.Submission) error {
	if len(n.To) == 0 {
		return nil
	}
	p, err := n.ContactPayload(sub)
	if err != nil {
		slog.Error("contact_notify_failed", "submission_id", sub.ID, "error", err)
		return err
	}

	res, sendErr := n.Sender.Send(ctx, toSendRequest(p, n.From))
	if sendErr == nil {
		slog.Info("contact_notified", "submission_id", sub.ID, "message_id", res.MessageID)
		return nil
	}

	entry, err := outbox.NewEmailEntry(n.GenerateID(), p, n.Now())
	if err == nil {
		entry.ErrorMessage = sendErr.Error()
		err = n.Outbox.Save(ctx, entry)
	}
	if err != nil {
		slog.Error("contact_notify_failed", "submission_id", sub.ID, "send_error", sendErr, "error", err)
		return fmt.Errorf("queue contact notification: %w", err)
	}
	slog.Warn("contact_notify_queued", "submission_id", sub.ID, "outbox_id", entry.ID, "error", sendErr)
	return nil
}

func toSendRequest(p outbox.EmailPayload, from string) email.SendRequest {
	return email.SendRequest{
		To:      p.To,
		From:    from,
		Subject: p.Subject,
		HTML:    p.HTML,
		Text:    p.Text,
		ReplyTo: p.ReplyTo,
	}
}
