package notifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pershin-daniil/slotpoll/pkg/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type GmailNotifier struct {
	log  *logrus.Entry
	srv  *gmail.Service
	from string
}

func NewGmailNotifier(ctx context.Context, log *logrus.Logger, cfg config.Mail) (*GmailNotifier, error) {
	oauthCfg, err := GmailConfig(cfg.GmailCredentialsFile)
	if err != nil {
		return nil, err
	}
	tok, err := tokenFromFile(cfg.GmailTokenFile)
	if err != nil {
		return nil, fmt.Errorf("err reading gmail token, run the gmail-auth command first: %w", err)
	}
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(context.Background(), tok)))
	if err != nil {
		return nil, fmt.Errorf("err creating gmail client: %w", err)
	}
	return &GmailNotifier{
		log:  log.WithField("component", "notifier"),
		srv:  srv,
		from: cfg.From,
	}, nil
}

func (n *GmailNotifier) Send(ctx context.Context, msg Message) error {
	var raw bytes.Buffer
	if _, err := compose(n.from, msg).WriteTo(&raw); err != nil {
		return fmt.Errorf("err composing email to %s: %w", msg.To, err)
	}
	sent, err := n.srv.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw.Bytes()),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("err sending email to %s: %w", msg.To, err)
	}
	n.log.Infof("email sent to %s: %s (id %s)", msg.To, msg.Subject, sent.Id)
	return nil
}

// GmailConfig reads the OAuth client secret downloaded from the Google console.
func GmailConfig(credentialsFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("err reading client secret file: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("err parsing client secret file: %w", err)
	}
	return oauthCfg, nil
}

// ExchangeToken trades an authorization code for a token and stores it at path.
func ExchangeToken(ctx context.Context, oauthCfg *oauth2.Config, code, path string) error {
	tok, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("err retrieving token from web: %w", err)
	}
	return saveToken(path, tok)
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("err caching oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
