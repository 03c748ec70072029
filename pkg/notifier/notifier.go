package notifier

import (
	"context"
	"strings"

	"github.com/pershin-daniil/slotpoll/pkg/config"
	"github.com/sirupsen/logrus"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// DummyNotifier only logs what would have been sent.
type DummyNotifier struct {
	log *logrus.Entry
}

func NewDummyNotifier(log *logrus.Logger) *DummyNotifier {
	return &DummyNotifier{
		log: log.WithField("component", "notifier"),
	}
}

func (n *DummyNotifier) Send(_ context.Context, msg Message) error {
	n.log.Infof("email skipped, no provider configured: to %s: %s", msg.To, msg.Subject)
	return nil
}

// New picks the provider named in cfg. A provider without usable credentials
// degrades to DummyNotifier instead of failing startup.
func New(ctx context.Context, log *logrus.Logger, cfg config.Mail) Notifier {
	entry := log.WithField("component", "notifier")
	switch strings.ToLower(cfg.Provider) {
	case "smtp":
		if cfg.SMTPUser == "" || cfg.SMTPPass == "" {
			entry.Warnf("smtp provider selected but SMTP_USER or SMTP_PASS is empty, emails will only be logged")
			return NewDummyNotifier(log)
		}
		return NewSMTPNotifier(log, cfg)
	case "gmail":
		n, err := NewGmailNotifier(ctx, log, cfg)
		if err != nil {
			entry.Warnf("gmail provider unavailable, emails will only be logged: %v", err)
			return NewDummyNotifier(log)
		}
		return n
	case "", "log":
		return NewDummyNotifier(log)
	default:
		entry.Warnf("unknown mail provider %q, emails will only be logged", cfg.Provider)
		return NewDummyNotifier(log)
	}
}
