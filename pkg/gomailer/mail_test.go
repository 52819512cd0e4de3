package gomailer_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/gomailer"
)

func TestEmailOptions(t *testing.T) {
	email := gomailer.NewEmail(
		"noreply@toogo.shop",
		[]string{"owner@example.com"},
		gomailer.WithSubject("Tu tienda ya está en línea"),
		gomailer.WithText("example.com is live"),
		gomailer.WithHTML("<p>example.com is live</p>"),
		gomailer.WithIdempotencyKey("domain-setup-123"),
		gomailer.Header("X-Toogo-Event", "domain.activated"),
	)

	if email.Subject != "Tu tienda ya está en línea" {
		t.Errorf("unexpected subject: %s", email.Subject)
	}
	if email.Text == "" || email.HTML == "" {
		t.Error("expected both text and html bodies")
	}
	if email.IdempotencyKey != "domain-setup-123" {
		t.Errorf("unexpected idempotency key: %s", email.IdempotencyKey)
	}
	if email.Headers["X-Toogo-Event"] != "domain.activated" {
		t.Errorf("unexpected headers: %v", email.Headers)
	}
}

func TestSendGridMailerSend(t *testing.T) {
	var gotAuth, gotIdem string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("Idempotency-Key")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Fatalf("failed to parse request body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	mailer := &gomailer.SendGridMailer{
		APIKey:   "test-key",
		BaseURL:  srv.URL,
		Timeout:  2 * time.Second,
		FromName: "Toogo",
		FromMail: "noreply@toogo.shop",
	}

	email := gomailer.NewEmail(
		"noreply@toogo.shop",
		[]string{"owner@example.com"},
		gomailer.WithSubject("Hello"),
		gomailer.WithText("body"),
		gomailer.WithIdempotencyKey("key-1"),
	)
	if err := mailer.Send(email); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header: %s", gotAuth)
	}
	if gotIdem != "key-1" {
		t.Errorf("unexpected idempotency header: %s", gotIdem)
	}
	if gotBody["subject"] != "Hello" {
		t.Errorf("unexpected subject in payload: %v", gotBody["subject"])
	}
}

func TestSendGridMailerSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	mailer := &gomailer.SendGridMailer{
		APIKey:  "bad-key",
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	}
	email := gomailer.NewEmail("noreply@toogo.shop", []string{"owner@example.com"})
	if err := mailer.Send(email); err == nil {
		t.Fatal("expected error on 401 response")
	}
}
