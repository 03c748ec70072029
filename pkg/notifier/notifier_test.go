package notifier

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pershin-daniil/slotpoll/pkg/config"
	"github.com/pershin-daniil/slotpoll/pkg/logger"
	"github.com/pershin-daniil/slotpoll/pkg/models"
	"github.com/stretchr/testify/require"
)

var meeting = models.Meeting{
	ID:           "abc123",
	CreatorName:  "Ivan",
	CreatorEmail: "ivan@example.com",
	Title:        "Planning <Q3>",
}

func TestTemplates_MeetingCreated(t *testing.T) {
	msg, err := NewTemplates("https://meet.example.com").MeetingCreated(meeting)
	require.NoError(t, err)
	require.Equal(t, "ivan@example.com", msg.To)
	require.Equal(t, "Meeting Created: Planning <Q3>", msg.Subject)
	require.Contains(t, msg.HTML, "https://meet.example.com/meeting/abc123/respond")
	require.Contains(t, msg.HTML, "Planning &lt;Q3&gt;")
	require.Contains(t, msg.Text, "Share link: https://meet.example.com/meeting/abc123/respond")
}

func TestTemplates_NewResponse(t *testing.T) {
	msg, err := NewTemplates("http://localhost:8080").NewResponse(meeting, "Petr")
	require.NoError(t, err)
	require.Equal(t, "ivan@example.com", msg.To)
	require.True(t, strings.HasPrefix(msg.Subject, "New Response: Petr responded to"))
	require.Contains(t, msg.HTML, "<strong>Petr</strong>")
	require.Contains(t, msg.Text, "http://localhost:8080/meeting/abc123")
}

func TestTemplates_Finalized(t *testing.T) {
	to := models.Attendee{Name: "Petr", Email: "petr@example.com"}
	msg, err := NewTemplates("http://localhost:8080").Finalized(meeting, to, "Mon, Jun 3, 9:00 AM - 9:30 AM")
	require.NoError(t, err)
	require.Equal(t, "petr@example.com", msg.To)
	require.Contains(t, msg.HTML, "Hi Petr,")
	require.Contains(t, msg.HTML, "Mon, Jun 3, 9:00 AM - 9:30 AM")
	require.Contains(t, msg.Text, "/meeting/abc123/results")
}

func TestNew_FallsBackToDummy(t *testing.T) {
	log := logger.New("error")
	ctx := context.Background()

	require.IsType(t, &DummyNotifier{}, New(ctx, log, config.Mail{Provider: "log"}))
	require.IsType(t, &DummyNotifier{}, New(ctx, log, config.Mail{Provider: "smtp"}))
	require.IsType(t, &DummyNotifier{}, New(ctx, log, config.Mail{Provider: "gmail", GmailCredentialsFile: "/nonexistent/credentials.json"}))
	require.IsType(t, &DummyNotifier{}, New(ctx, log, config.Mail{Provider: "pigeon"}))
	require.IsType(t, &SMTPNotifier{}, New(ctx, log, config.Mail{Provider: "smtp", SMTPHost: "localhost", SMTPPort: 25, SMTPUser: "u", SMTPPass: "p"}))
}

func TestCompose(t *testing.T) {
	var buf bytes.Buffer
	_, err := compose("noreply@example.com", Message{
		To:      "petr@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	}).WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	require.Contains(t, raw, "From: noreply@example.com")
	require.Contains(t, raw, "To: petr@example.com")
	require.Contains(t, raw, "multipart/alternative")
	require.Contains(t, raw, "text/html")
}

func TestDummyNotifier_Send(t *testing.T) {
	n := NewDummyNotifier(logger.New("error"))
	require.NoError(t, n.Send(context.Background(), Message{To: "a@example.com", Subject: "s"}))
}
