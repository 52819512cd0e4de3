package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/metrics"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/gomailer"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/gosms"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/kafka"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/repositories"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/template"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/types"
	"github.com/cbeuvrin/toogo-shop-v2-sub001/pkg/utils"
)

const maxRetries = 3

var subjects = map[string]string{
	types.EventDomainActivated: "¡Tu tienda ya está en línea!",
	types.EventDomainFailed:    "Problema activando tu dominio",
}

// HandleDomainEvents consumes the domain lifecycle topic and notifies store
// owners. dns_pending events are informational and produce no notification;
// owners are only contacted on a final outcome.
func HandleDomainEvents(
	ctx context.Context,
	mailService gomailer.Mailer,
	smsService gosms.Sender,
	logger *zap.Logger,
	tmplRepo *repositories.TemplateRepository,
	producer *kafka.Producer,
) {
	topic := utils.GetEnvOr("DOMAIN_EVENTS_TOPIC", "domain.lifecycle")
	c := kafka.NewConsumerFromEnv(topic, "store_notifier")
	defer c.Close()

	logger.Info("Starting Kafka consumer", zap.String("topic", topic))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down domain event consumer", zap.String("topic", topic))
			return

		default:
			m, err := c.ReadFromKafka(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error("Error reading Kafka message", zap.String("topic", topic), zap.Error(err))
				continue
			}

			var event types.DomainEvent
			if err := json.Unmarshal(m.Value, &event); err != nil {
				logger.Error("Failed to unmarshal domain event",
					zap.ByteString("raw", m.Value),
					zap.Error(err),
				)
				continue
			}
			logger.Info("Domain event received",
				zap.String("event_type", event.EventType),
				zap.String("domain", event.Domain),
				zap.Int64("offset", m.Offset),
			)

			if _, ok := subjects[event.EventType]; !ok {
				continue
			}

			notifyOwner(ctx, event, mailService, smsService, logger, tmplRepo, producer)
		}
	}
}

func notifyOwner(
	ctx context.Context,
	event types.DomainEvent,
	mailService gomailer.Mailer,
	smsService gosms.Sender,
	logger *zap.Logger,
	tmplRepo *repositories.TemplateRepository,
	producer *kafka.Producer,
) {
	data := map[string]interface{}{
		"StoreName": event.StoreName,
		"Domain":    event.Domain,
		"Status":    event.Status,
	}

	if event.OwnerEmail != "" {
		content, err := template.Render(data, event.TenantID, "email", event.EventType, "es-MX", []string{"html", "text"}, tmplRepo)
		if err != nil {
			logger.Error("Couldn't render email template",
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
		} else {
			mail := gomailer.NewEmail(
				utils.GetEnvOr("NOTIFY_FROM_EMAIL", "hola@toogo.mx"),
				[]string{event.OwnerEmail},
				gomailer.WithSubject(subjects[event.EventType]),
				gomailer.WithHTML(string(content["html"])),
				gomailer.WithText(string(content["text"])),
				gomailer.WithIdempotencyKey(event.PurchaseID.String()+":"+event.EventType),
			)
			SendEmailWithRetry(ctx, logger, mailService, mail, producer)
		}
	}

	if smsService == nil || event.OwnerPhone == "" || event.EventType != types.EventDomainActivated {
		return
	}
	to, err := gosms.NormalizeSMS(event.OwnerPhone)
	if err != nil {
		logger.Warn("Skipping SMS, owner phone is not usable",
			zap.String("phone", event.OwnerPhone),
			zap.Error(err),
		)
		return
	}
	content, err := template.Render(data, event.TenantID, "sms", event.EventType, "es-MX", []string{"text"}, tmplRepo)
	if err != nil {
		logger.Error("Couldn't render sms template", zap.Error(err))
		return
	}
	sms := gosms.NewSMS(to, string(content["text"]),
		gosms.WithIdempotencyKey(event.PurchaseID.String()+":"+event.EventType))

	apiTimer := prometheus.NewTimer(metrics.ExternalAPIDuration.WithLabelValues("twilio", "sms"))
	err = smsService.Send(sms)
	apiTimer.ObserveDuration()
	if err != nil {
		metrics.NotificationsAttemptedTotal.WithLabelValues("sms", "failed", "twilio").Inc()
		logger.Error("SMS send failed", zap.String("to", to), zap.Error(err))
		return
	}
	metrics.NotificationsAttemptedTotal.WithLabelValues("sms", "success", "twilio").Inc()
}

func SendEmailWithRetry(
	ctx context.Context,
	logger *zap.Logger,
	mailService gomailer.Mailer,
	mail gomailer.Email,
	producer *kafka.Producer,
) error {
	timer := prometheus.NewTimer(metrics.NotificationSendDuration.WithLabelValues("email", "store_notifier"))
	defer timer.ObserveDuration()

	for attempt := 1; attempt <= maxRetries; attempt++ {
		apiTimer := prometheus.NewTimer(metrics.ExternalAPIDuration.WithLabelValues("email", "send"))
		err := mailService.Send(mail)
		apiTimer.ObserveDuration()

		if err == nil {
			metrics.NotificationsAttemptedTotal.WithLabelValues("email", "success", "store_notifier").Inc()
			return nil
		}
		metrics.NotificationsAttemptedTotal.WithLabelValues("email", "failed", "store_notifier").Inc()
		metrics.NotificationRetriesTotal.WithLabelValues("provider_error", "email").Inc()

		backoffDelay := time.Second * time.Duration(1<<(attempt-1))
		jitter := time.Duration(rand.Intn(500)) * time.Millisecond
		waitTime := backoffDelay + jitter

		logger.Warn("Email send failed, will retry",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", waitTime),
			zap.Error(err),
		)

		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	logger.Error("Permanent email failure - sending to DLQ",
		zap.String("to", strings.Join(mail.To, ",")),
		zap.String("subject", mail.Subject),
	)
	mailBytes, mErr := json.Marshal(mail)
	if mErr != nil {
		return mErr
	}
	if err := producer.Publish(ctx, "domain.lifecycle.dlq", []byte(mail.IdempotencyKey), mailBytes); err != nil {
		logger.Error("Failed to publish email to DLQ", zap.Error(err))
	}
	return fmt.Errorf("permanent email failure after %d retries", maxRetries)
}
