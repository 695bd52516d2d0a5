package sender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPSender_Validation(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Port: "587", From: "shop@example.com"})
	assert.ErrorContains(t, err, "SMTP_HOST")

	_, err = NewSMTPSender(SMTPConfig{Host: "smtp.example.com", From: "shop@example.com"})
	assert.ErrorContains(t, err, "SMTP_PORT")

	_, err = NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: "587"})
	assert.ErrorContains(t, err, "SMTP_FROM")

	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "orders@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "orders@example.com", s.cfg.From)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("shop@example.com", "asha@example.com", "Order confirmed", "<p>hi</p>"))
	assert.Contains(t, msg, "To: asha@example.com\r\n")
	assert.Contains(t, msg, "Subject: Order confirmed\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>hi</p>")
}
