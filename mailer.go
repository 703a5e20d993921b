package identity

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/goliatone/go-errors"
)

// Message is an outbound notification
type Message struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Mailer delivers notifications. Implementations must treat Send as
// best-effort; callers report delivery as a boolean and never roll
// back business state over it.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds SMTP transport options
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers messages over plain SMTP
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates an SMTP backed mailer
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

var _ Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("message recipient is required", errors.CategoryBadInput)
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "context cancelled before SMTP send")
	}

	from := msg.From
	if from == "" {
		from = m.cfg.From
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	payload := buildMIMEMessage(from, msg)

	if err := smtp.SendMail(addr, auth, from, []string{msg.To}, payload); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "smtp delivery failed").
			WithMetadata(map[string]any{"to": msg.To, "host": m.cfg.Host})
	}

	return nil
}

func buildMIMEMessage(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// LogMailer prints messages instead of delivering them, for
// development environments without an SMTP relay.
type LogMailer struct {
	Logger Logger
}

var _ Mailer = (*LogMailer)(nil)

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	logger := m.Logger
	if logger == nil {
		logger = defLogger{}
	}

	logger.Info("====== SENDING EMAIL NOTIFICATION =======")
	logger.Info("to: %s", msg.To)
	logger.Info("subject: %s", msg.Subject)
	logger.Info("%s", msg.Body)

	return nil
}
