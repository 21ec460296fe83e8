// Package mailer delivers devotional emails over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/hastingtx/backend/internal/config"
	"github.com/wneessen/go-mail"
)

// Sender sends devotional emails: daily drips, sync links, and new-series
// digests. In mock mode it logs instead of dialing SMTP.
type Sender struct {
	client   *mail.Client
	from     string
	baseURL  string
	mockMode bool
}

func New(cfg *config.Config) (*Sender, error) {
	s := &Sender{
		from:     cfg.MailFrom,
		baseURL:  cfg.BaseURL,
		mockMode: cfg.MailMockMode,
	}
	if s.mockMode {
		return s, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: create client: %w", err)
	}
	s.client = client
	return s, nil
}

// SendDay delivers one devotional day to a drip subscriber.
func (s *Sender) SendDay(ctx context.Context, to string, day DayEmail) error {
	subject := fmt.Sprintf("Day %d of %d: %s", day.DayNumber, day.TotalDays, day.ThreadTitle)
	return s.send(ctx, to, subject, day.text(s.baseURL), day.html(s.baseURL))
}

// SendSyncLink delivers the cross-device progress link.
func (s *Sender) SendSyncLink(ctx context.Context, to, token string) error {
	subject := "Your Devotional Progress Link - Pull The Thread"
	return s.send(ctx, to, subject, syncText(s.baseURL, token), syncHTML(s.baseURL, token))
}

// SendDigest announces newly published threads to a subscriber.
func (s *Sender) SendDigest(ctx context.Context, to string, threads []DigestThread, unsubscribeToken string) error {
	if len(threads) == 0 {
		return nil
	}
	subject := "New Devotional Series - Pull The Thread"
	return s.send(ctx, to, subject,
		digestText(s.baseURL, threads, unsubscribeToken),
		digestHTML(s.baseURL, threads, unsubscribeToken))
}

func (s *Sender) send(ctx context.Context, to, subject, text, html string) error {
	if s.mockMode {
		slog.Info("MOCK EMAIL", "to", to, "subject", subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mailer: from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailer: to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	err := retry.Do(
		func() error {
			return s.client.DialAndSendWithContext(ctx, msg)
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("email send failed, retrying", "to", to, "attempt", n, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("mailer: after retries: %w", err)
	}
	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}
