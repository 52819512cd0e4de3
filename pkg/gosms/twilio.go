package gosms

import (
	"time"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioSender struct {
	FromNumber string        `yaml:"fromNumber"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"`
	Timeout    time.Duration `yaml:"timeout"`
	Client     *twilio.RestClient
}

func NewTwilioSender(accountSid, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(
		twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})

	return &TwilioSender{
		FromNumber: fromNumber,
		Client:     client,
		Timeout:    10 * time.Second,
	}
}

func (t *TwilioSender) Send(s SMS) error {
	if t.Client == nil {
		t.Client = twilio.NewRestClientWithParams(
			twilio.ClientParams{
				Username: t.Username,
				Password: t.Password,
			})
	}

	params := &api.CreateMessageParams{}
	params.SetBody(s.Text)
	params.SetFrom(t.FromNumber)
	params.SetTo(s.To)

	_, err := t.Client.Api.CreateMessage(params)
	return err
}
