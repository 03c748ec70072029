package notifier

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pershin-daniil/slotpoll/pkg/models"
)

var (
	createdHTML = template.Must(template.New("created").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #059669;">Your meeting has been created!</h2>
  <p>Hi {{.Name}},</p>
  <p>Your meeting <strong>"{{.Title}}"</strong> is ready. Share this link with participants so they can mark their availability:</p>
  <p style="background: #f0fdf4; padding: 12px; border-radius: 8px; word-break: break-all;"><a href="{{.ShareLink}}" style="color: #059669;">{{.ShareLink}}</a></p>
  <p>View responses and pick a final time:</p>
  <p><a href="{{.DetailLink}}" style="color: #059669;">{{.DetailLink}}</a></p>
</div>`))

	responseHTML = template.Must(template.New("response").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #059669;">New availability response!</h2>
  <p>Hi {{.Name}},</p>
  <p><strong>{{.Respondent}}</strong> has submitted their availability for <strong>"{{.Title}}"</strong>.</p>
  <p><a href="{{.DetailLink}}" style="color: #059669;">View all responses</a></p>
</div>`))

	finalizedHTML = template.Must(template.New("finalized").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #059669;">Meeting time confirmed!</h2>
  <p>Hi {{.Name}},</p>
  <p>The meeting <strong>"{{.Title}}"</strong> has been scheduled for:</p>
  <p style="background: #f0fdf4; padding: 12px; border-radius: 8px; font-size: 18px; font-weight: bold; color: #059669;">{{.FinalTime}}</p>
  <p><a href="{{.ResultsLink}}" style="color: #059669;">View details</a></p>
</div>`))
)

type templateData struct {
	Name        string
	Title       string
	Respondent  string
	FinalTime   string
	ShareLink   string
	DetailLink  string
	ResultsLink string
}

// Templates renders the three emails the service sends. Links point at the
// web frontend served under baseURL.
type Templates struct {
	baseURL string
}

func NewTemplates(baseURL string) *Templates {
	return &Templates{baseURL: baseURL}
}

func ShareLink(meetingID string) string {
	return "/meeting/" + meetingID + "/respond"
}

func (t *Templates) data(m models.Meeting, name string) templateData {
	return templateData{
		Name:        name,
		Title:       m.Title,
		ShareLink:   t.baseURL + ShareLink(m.ID),
		DetailLink:  t.baseURL + "/meeting/" + m.ID,
		ResultsLink: t.baseURL + "/meeting/" + m.ID + "/results",
	}
}

func (t *Templates) MeetingCreated(m models.Meeting) (Message, error) {
	d := t.data(m, m.CreatorName)
	html, err := render(createdHTML, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      m.CreatorEmail,
		Subject: fmt.Sprintf("Meeting Created: %s", m.Title),
		HTML:    html,
		Text:    fmt.Sprintf("Your meeting %q has been created.\n\nShare link: %s\nView responses: %s", m.Title, d.ShareLink, d.DetailLink),
	}, nil
}

func (t *Templates) NewResponse(m models.Meeting, respondent string) (Message, error) {
	d := t.data(m, m.CreatorName)
	d.Respondent = respondent
	html, err := render(responseHTML, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      m.CreatorEmail,
		Subject: fmt.Sprintf("New Response: %s responded to %q", respondent, m.Title),
		HTML:    html,
		Text:    fmt.Sprintf("%s responded to %q.\nView responses: %s", respondent, m.Title, d.DetailLink),
	}, nil
}

func (t *Templates) Finalized(m models.Meeting, to models.Attendee, finalTime string) (Message, error) {
	d := t.data(m, to.Name)
	d.FinalTime = finalTime
	html, err := render(finalizedHTML, d)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to.Email,
		Subject: fmt.Sprintf("Meeting Confirmed: %s", m.Title),
		HTML:    html,
		Text:    fmt.Sprintf("Meeting %q confirmed for %s.\nDetails: %s", m.Title, finalTime, d.ResultsLink),
	}, nil
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("err rendering %s email: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
