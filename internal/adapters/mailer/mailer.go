// Package mailer delivers availability notifications over SMTP.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"glacier_alert/internal/adapters/observability"
	"glacier_alert/internal/domain"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is also the first recipient.
	From       string
	Recipients []string
	Timeout    time.Duration
}

// sender is the part of *mail.Client the Mailer needs.
type sender interface {
	DialAndSendWithContext(ctx context.Context, msgs ...*mail.Msg) error
}

type Mailer struct {
	cfg   Config
	links Linker
	send  sender
}

func New(cfg Config, links Linker) (*Mailer, error) {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.From == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: mail address and password are required", domain.ErrInvalidConfig)
	}
	if cfg.Username == "" {
		cfg.Username = cfg.From
	}
	c, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{cfg: cfg, links: links, send: c}, nil
}

// Notify sends one message for all events of a cycle.
func (m *Mailer) Notify(ctx context.Context, n domain.Notification) error {
	msg, err := m.message(n)
	if err != nil {
		return err
	}
	err = m.send.DialAndSendWithContext(ctx, msg)
	observability.ObserveNotification("email", err)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	zerolog.Ctx(ctx).Info().Int("events", len(n.Events)).Int("recipients", len(m.recipients())).Msg("sent email with room updates")
	return nil
}

func (m *Mailer) message(n domain.Notification) (*mail.Msg, error) {
	htmlBody, textBody, err := Render(n, m.links)
	if err != nil {
		return nil, err
	}
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(m.recipients()...); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(Subject(n))
	if !n.SentAt.IsZero() {
		msg.SetDateWithValue(n.SentAt)
	}
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	msg.AddAlternativeString(mail.TypeTextPlain, textBody)
	return msg, nil
}

// recipients is From followed by the configured recipients, deduplicated.
func (m *Mailer) recipients() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, a := range append([]string{m.cfg.From}, m.cfg.Recipients...) {
		a = strings.TrimSpace(a)
		k := strings.ToLower(a)
		if a == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a)
	}
	return out
}
