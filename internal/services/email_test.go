package services

import (
	"context"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNewRequestEmail(t *testing.T) {
	msg := &EmailMessage{
		To:           []mail.Address{{Address: "studio@example.com"}},
		Subject:      "New request",
		TemplateName: EmailNewRequest,
		TemplateData: map[string]interface{}{
			"ClientName":   "Acme <Corp>",
			"Tier":         "elite",
			"FeedbackType": "feature",
			"Title":        "Dark mode",
			"Priority":     "high",
			"Description":  "Please",
			"ScoreText":    "Priority score: 130",
		},
	}
	require.NoError(t, msg.Render())

	assert.Contains(t, msg.TextContent, "Acme <Corp> (elite tier)")
	assert.Contains(t, msg.TextContent, "Priority score: 130")
	assert.Contains(t, msg.HTMLContent, "Acme &lt;Corp&gt;")
}

func TestRenderTextOnlyTemplate(t *testing.T) {
	msg := &EmailMessage{TemplateName: EmailContact, TemplateData: map[string]string{
		"Name": "Jo", "Email": "jo@x.io", "Message": "Hello there",
	}}
	require.NoError(t, msg.Render())
	assert.Contains(t, msg.TextContent, "From: Jo <jo@x.io>")
	assert.Empty(t, msg.HTMLContent)
}

func TestSendEmailSkipsMessagesWithoutRecipients(t *testing.T) {
	m := &LogMailer{Quiet: true}

	err := SendEmail(context.Background(), m, &EmailMessage{
		TemplateName: EmailTrainerApproved,
		TemplateData: map[string]string{"Name": "Sam"},
	})
	require.NoError(t, err)
	assert.Empty(t, m.Sent())

	err = SendEmail(context.Background(), m, &EmailMessage{
		To:           []mail.Address{{Name: "Sam", Address: "sam@x.io"}},
		Subject:      "Approved",
		TemplateName: EmailTrainerApproved,
		TemplateData: map[string]string{"Name": "Sam"},
	})
	require.NoError(t, err)
	require.Len(t, m.Sent(), 1)
	assert.Contains(t, m.Sent()[0].TextContent, "Hi Sam")
	assert.Contains(t, m.Sent()[0].HTMLContent, "<strong>approved</strong>")
}

func TestSendGridPrepare(t *testing.T) {
	s := NewSendGridMailer("key", "Studio", "hello@studio.dev")
	m := s.prepare(&EmailMessage{
		To:          []mail.Address{{Name: "Sam", Address: "sam@x.io"}},
		Subject:     "Hi",
		TextContent: "text",
	})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[Studio] Hi", m.Personalizations[0].Subject)
	assert.Equal(t, "sam@x.io", m.Personalizations[0].To[0].Address)
	require.Len(t, m.Content, 1)
	assert.Equal(t, "text/plain", m.Content[0].Type)
}
