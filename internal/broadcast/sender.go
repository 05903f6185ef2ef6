package broadcast

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	mail "github.com/go-mail/mail"

	"station-dashboard/internal/common/config"
)

// Sender delivers a single email. Implementations must be safe for concurrent use.
type Sender interface {
	Name() string
	Send(ctx context.Context, email Email) error
}

type SESAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESSender struct {
	client SESAPI
}

func NewSESSender(client SESAPI) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Name() string { return "ses" }

func (s *SESSender) Send(ctx context.Context, email Email) error {
	body := &types.Body{Html: &types.Content{Data: aws.String(email.HTML), Charset: aws.String("UTF-8")}}
	if email.Text != "" {
		body.Text = &types.Content{Data: aws.String(email.Text), Charset: aws.String("UTF-8")}
	}

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
		Source: aws.String(email.From),
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

// Dialer is satisfied by *mail.Dialer.
type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type SMTPSender struct {
	dialer Dialer
}

// NewSMTPSender configures a go-mail dialer. TLSMode is auto, starttls, ssl or none.
func NewSMTPSender(cfg config.IntegrationConfig) *SMTPSender {
	smtp := cfg.SMTP
	d := mail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	d.TLSConfig = &tls.Config{ServerName: smtp.Host}
	switch smtp.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	return &SMTPSender{dialer: d}
}

func NewSMTPSenderWithDialer(d Dialer) *SMTPSender {
	return &SMTPSender{dialer: d}
}

func (s *SMTPSender) Name() string { return "smtp" }

// Send ignores ctx; go-mail has no cancellation.
func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	m := mail.NewMessage()
	m.SetHeader("From", email.From)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	if email.Text != "" {
		m.SetBody("text/plain", email.Text)
		m.AddAlternative("text/html", email.HTML)
	} else {
		m.SetBody("text/html", email.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
