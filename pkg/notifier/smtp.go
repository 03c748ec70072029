package notifier

import (
	"context"
	"fmt"

	"github.com/pershin-daniil/slotpoll/pkg/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type SMTPNotifier struct {
	log    *logrus.Entry
	dialer *gomail.Dialer
	from   string
}

func NewSMTPNotifier(log *logrus.Logger, cfg config.Mail) *SMTPNotifier {
	return &SMTPNotifier{
		log:    log.WithField("component", "notifier"),
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.From,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.dialer.DialAndSend(compose(n.from, msg)); err != nil {
		return fmt.Errorf("err sending email to %s: %w", msg.To, err)
	}
	n.log.Infof("email sent to %s: %s", msg.To, msg.Subject)
	return nil
}

func compose(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)
	return m
}
