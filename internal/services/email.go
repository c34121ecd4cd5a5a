package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltmpl "html/template"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

//go:embed templates/email
var emailTemplates embed.FS

var (
	textTemplates = texttmpl.Must(texttmpl.ParseFS(emailTemplates, "templates/email/*.txt"))
	htmlTemplates = htmltmpl.Must(htmltmpl.ParseFS(emailTemplates, "templates/email/*.gohtml"))
)

// Email template names (file names without extension).
const (
	EmailNewRequest       = "new_request"
	EmailContact          = "contact"
	EmailTrainerSubmitted = "trainer_submitted"
	EmailTrainerApproved  = "trainer_approved"
)

type EmailMessage struct {
	To      []mail.Address
	Subject string

	TemplateName string
	TemplateData interface{}
	TextContent  string
	HTMLContent  string
}

// Render fills TextContent and HTMLContent from the named templates. A
// template that only exists in one format leaves the other content empty.
func (m *EmailMessage) Render() error {
	if m.TemplateName == "" {
		return nil
	}
	if tmpl := textTemplates.Lookup(m.TemplateName + ".txt"); tmpl != nil {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, m.TemplateData); err != nil {
			return fmt.Errorf("render %s.txt: %w", m.TemplateName, err)
		}
		m.TextContent = buf.String()
	}
	if tmpl := htmlTemplates.Lookup(m.TemplateName + ".gohtml"); tmpl != nil {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, m.TemplateData); err != nil {
			return fmt.Errorf("render %s.gohtml: %w", m.TemplateName, err)
		}
		m.HTMLContent = buf.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.TextContent != "" || m.HTMLContent != "" }

// Mailer delivers rendered email messages.
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// SendEmails renders and delivers messages in the background. Failures are
// logged; callers never wait on email delivery.
func SendEmails(m Mailer, messages ...*EmailMessage) {
	if m == nil {
		return
	}
	for _, msg := range messages {
		go func(msg *EmailMessage) {
			if err := SendEmail(context.Background(), m, msg); err != nil {
				log.Printf("email %q to %d recipient(s) failed: %v", msg.Subject, len(msg.To), err)
			}
		}(msg)
	}
}

// SendEmail renders msg and delivers it synchronously.
func SendEmail(ctx context.Context, m Mailer, msg *EmailMessage) error {
	if err := msg.Render(); err != nil {
		return err
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return nil
	}
	return m.Send(ctx, msg)
}

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

var _ Mailer = (*SendGridMailer)(nil)

func NewSendGridMailer(key, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		key:        key,
		from:       sgmail.NewEmail(fromName, fromEmail),
		subjPrefix: "[" + fromName + "] ",
	}
}

func (s *SendGridMailer) prepare(msg *EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	if msg.TextContent != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	}
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return m
}

func (s *SendGridMailer) Send(_ context.Context, msg *EmailMessage) error {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// LogMailer writes messages to the log instead of delivering them. It is used
// when no SendGrid key is configured and in tests.
type LogMailer struct {
	Quiet bool

	mu   sync.Mutex
	sent []EmailMessage
}

var _ Mailer = (*LogMailer)(nil)

func (l *LogMailer) Send(_ context.Context, msg *EmailMessage) error {
	l.mu.Lock()
	l.sent = append(l.sent, *msg)
	l.mu.Unlock()

	if !l.Quiet {
		to := make([]string, 0, len(msg.To))
		for _, a := range msg.To {
			to = append(to, a.String())
		}
		log.Printf("📧 To: %s\nSubject: %s\n\n%s", strings.Join(to, ", "), msg.Subject, msg.TextContent)
	}
	return nil
}

// Sent returns a copy of every message passed to Send.
func (l *LogMailer) Sent() []EmailMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]EmailMessage(nil), l.sent...)
}
