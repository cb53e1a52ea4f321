package email

import (
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// Mailer sends email with a binary attachment
type Mailer interface {
	SendWithAttachment(to, subject, body, filename, contentType string, attachment []byte) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer sends email over SMTP
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// SendWithAttachment sends a plain-text email with a single attachment as a
// multipart/mixed MIME message
func (m *SMTPMailer) SendWithAttachment(to, subject, body, filename, contentType string, attachment []byte) error {
	message, err := buildMixedMessage(m.config.From, to, subject, body, filename, contentType, attachment)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	addr := m.config.Host + ":" + m.config.Port

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildMixedMessage(from, to, subject, body, filename, contentType string, attachment []byte) ([]byte, error) {
	var buf strings.Builder
	writer := multipart.NewWriter(&buf)

	headers := fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/mixed; boundary=%q\r\n"+
			"\r\n",
		from, to, subject, writer.Boundary(),
	)

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=\"UTF-8\"")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return nil, err
	}

	attachmentHeader := textproto.MIMEHeader{}
	attachmentHeader.Set("Content-Type", contentType)
	attachmentHeader.Set("Content-Transfer-Encoding", "base64")
	attachmentHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	attachmentPart, err := writer.CreatePart(attachmentHeader)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(attachment)
	// Wrap base64 lines at 76 characters per RFC 2045
	for len(encoded) > 76 {
		if _, err := attachmentPart.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[76:]
	}
	if _, err := attachmentPart.Write([]byte(encoded + "\r\n")); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return []byte(headers + buf.String()), nil
}
