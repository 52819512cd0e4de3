package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/gomailer"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/gosms"
)

type Config struct {
	Email EmailConfig `yaml:"email"`
	SMS   SMSConfig   `yaml:"sms"`
}

type EmailConfig struct {
	Provider string                   `yaml:"provider"`
	SMTP     *gomailer.SMTPMailer     `yaml:"smtp,omitempty"`
	SendGrid *gomailer.SendGridMailer `yaml:"sendgrid,omitempty"`
}

type SMSConfig struct {
	Provider string              `yaml:"provider"`
	Twilio   *gosms.TwilioSender `yaml:"twilio,omitempty"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	expanded := os.ExpandEnv(string(data))
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func BuildMailer(cfg *Config) (gomailer.Mailer, error) {
	switch cfg.Email.Provider {
	case "smtp":
		if cfg.Email.SMTP == nil {
			return nil, fmt.Errorf("missing smtp config for email provider")
		}
		return cfg.Email.SMTP, nil

	case "sendgrid":
		if cfg.Email.SendGrid == nil {
			return nil, fmt.Errorf("missing sendgrid config for email provider")
		}
		return gomailer.NewSendGridMailer(
			cfg.Email.SendGrid.APIKey,
			cfg.Email.SendGrid.FromName,
			cfg.Email.SendGrid.FromMail,
		), nil

	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Email.Provider)
	}
}

func BuildSender(cfg *Config) (gosms.Sender, error) {
	switch cfg.SMS.Provider {
	case "twilio":
		if cfg.SMS.Twilio == nil {
			return nil, fmt.Errorf("missing twilio config for sms provider")
		}
		return gosms.NewTwilioSender(
			cfg.SMS.Twilio.Username,
			cfg.SMS.Twilio.Password,
			cfg.SMS.Twilio.FromNumber,
		), nil

	default:
		return nil, fmt.Errorf("unsupported sms provider: %s", cfg.SMS.Provider)
	}
}
