package gomailer

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridMailer struct {
	APIKey   string        `yaml:"apiKey"`
	BaseURL  string        `yaml:"baseURL"`
	Timeout  time.Duration `yaml:"timeout"`
	FromName string        `yaml:"fromName"`
	FromMail string        `yaml:"fromMail"`
	Client   *sendgrid.Client
}

func NewSendGridMailer(apiKey, fromName, fromMail string) *SendGridMailer {
	return &SendGridMailer{
		APIKey:   apiKey,
		FromName: fromName,
		FromMail: fromMail,
		Timeout:  10 * time.Second,
		Client:   sendgrid.NewSendClient(apiKey),
	}
}

func (s *SendGridMailer) Send(e Email) error {
	from := mail.NewEmail(s.FromName, s.FromMail)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = e.Subject

	p := mail.NewPersonalization()
	for _, addr := range e.To {
		p.AddTos(mail.NewEmail("", addr))
	}
	message.AddPersonalizations(p)

	if e.Text != "" {
		message.AddContent(mail.NewContent("text/plain", e.Text))
	}
	if e.HTML != "" {
		message.AddContent(mail.NewContent("text/html", e.HTML))
	}

	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = "https://api.sendgrid.com"
	}
	body := mail.GetRequestBody(message)
	request, err := http.NewRequest("POST", baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+s.APIKey)
	request.Header.Set("Content-Type", "application/json")
	for k, v := range e.Headers {
		request.Header.Set(k, v)
	}
	if e.IdempotencyKey != "" {
		request.Header.Set("Idempotency-Key", e.IdempotencyKey)
	}

	client := &http.Client{Timeout: s.Timeout}
	resp, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid API error: %d %s", resp.StatusCode, respBody)
	}
	return nil
}
