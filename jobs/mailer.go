package jobs

import (
	"context"
	"fmt"
)

// ResetMailer satisfies the auth service's mailer seam by enqueueing the
// reset mail instead of talking SMTP on the request path.
type ResetMailer struct {
	client *Client
}

// NewResetMailer constructs a ResetMailer.
func NewResetMailer(client *Client) *ResetMailer {
	return &ResetMailer{client: client}
}

// SendResetLink queues the password reset mail.
func (m *ResetMailer) SendResetLink(ctx context.Context, to, name, link string) error {
	body := fmt.Sprintf("Hi %s,\n\nA password reset was requested for your account. "+
		"Use the link below within the next hour:\n\n%s\n\n"+
		"If you did not request this, ignore this mail.\n", name, link)
	_, err := m.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      to,
		Subject: "Password reset",
		Body:    body,
	})
	return err
}
