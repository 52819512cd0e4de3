package authadmin

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/metrics"
)

// User is the auth provider's admin view of an account, used to resolve a
// tenant owner to billing contact details.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Meta  struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

type Config struct {
	BaseURL    string
	ServiceKey string
}

type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetAuthToken(cfg.ServiceKey).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client, logger: logger}
}

// GetUser resolves a user id through the auth provider's admin endpoint.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	timer := prometheus.NewTimer(metrics.ExternalAPIDuration.WithLabelValues("auth", "admin_user"))
	defer timer.ObserveDuration()

	var user User
	resp, err := c.httpClient.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(&user).
		Get(fmt.Sprintf("/auth/v1/admin/users/%s", userID))
	if err != nil {
		metrics.ExternalAPIFailureTotal.WithLabelValues("auth", "admin_user").Inc()
		return nil, fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	if resp.IsError() {
		metrics.ExternalAPIFailureTotal.WithLabelValues("auth", "admin_user").Inc()
		return nil, fmt.Errorf("auth admin lookup for %s returned %d", userID, resp.StatusCode())
	}
	metrics.ExternalAPISuccessTotal.WithLabelValues("auth", "admin_user").Inc()
	return &user, nil
}
