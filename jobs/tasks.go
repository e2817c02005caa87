package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// SMTPConfig locates the outbound mail relay.
type SMTPConfig struct {
	Host string
	Port int
	From string
}

// SMTPDelivery sends queued mail through a plain SMTP relay.
type SMTPDelivery struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPDelivery constructs an SMTPDelivery.
func NewSMTPDelivery(cfg SMTPConfig, logger *slog.Logger) *SMTPDelivery {
	return &SMTPDelivery{cfg: cfg, logger: logger}
}

// HandleSendEmail processes TaskTypeSendEmail tasks. A malformed payload is
// dropped rather than retried.
func (d *SMTPDelivery) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		d.cfg.From, payload.To, payload.Subject, payload.Body)
	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)
	if err := smtp.SendMail(addr, nil, d.cfg.From, []string{payload.To}, []byte(msg)); err != nil {
		d.logger.Error("send email failed", "to", payload.To, "error", err)
		return err
	}
	d.logger.Info("email sent", "to", payload.To, "subject", payload.Subject)
	return nil
}
