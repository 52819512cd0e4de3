package gomailer

// Mailer is satisfied by every concrete provider; callers pick one at
// startup and send through the interface.
type Mailer interface {
	Send(Email) error
}

type Email struct {
	From           string
	To             []string
	Subject        string
	Text           string
	HTML           string
	IdempotencyKey string
	Headers        map[string]string
}

type EmailOption func(*Email)

func NewEmail(from string, to []string, opts ...EmailOption) Email {
	e := Email{
		From: from,
		To:   to,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func WithSubject(sub string) EmailOption {
	return func(e *Email) {
		e.Subject = sub
	}
}

func WithText(text string) EmailOption {
	return func(e *Email) {
		e.Text = text
	}
}

func WithHTML(html string) EmailOption {
	return func(e *Email) {
		e.HTML = html
	}
}

func WithIdempotencyKey(key string) EmailOption {
	return func(e *Email) {
		e.IdempotencyKey = key
	}
}

func Header(key, value string) EmailOption {
	return func(e *Email) {
		if e.Headers == nil {
			e.Headers = make(map[string]string)
		}
		e.Headers[key] = value
	}
}
