package vercel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/metrics"
)

// Outcome is the semantic result of an idempotent provider mutation, so
// orchestration code never inspects raw provider error codes.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeAlreadyExists
)

// ErrInvalidZone is returned when the provider rejects a record write
// because it is not yet authoritative for the zone. Callers treat this as
// the retry-later case, not a hard failure.
var ErrInvalidZone = errors.New("provider is not authoritative for this zone yet")

// Provider error codes that mean the mutation already happened.
var benignCodes = map[string]bool{
	"domain_already_in_use": true,
	"domain_already_exists": true,
	"record_already_exists": true,
}

type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vercel API error %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Temporary reports whether a retry without operator action could succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

type errorBody struct {
	Error APIError `json:"error"`
}

type Config struct {
	Token     string
	ProjectID string
	TeamID    string
	BaseURL   string
}

type DomainInfo struct {
	Name                string   `json:"name"`
	ServiceType         string   `json:"serviceType"`
	Nameservers         []string `json:"nameservers"`
	IntendedNameservers []string `json:"intendedNameservers"`
	Verified            bool     `json:"verified"`
}

type DNSRecord struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
	TTL   int    `json:"ttl,omitempty"`
}

type Client struct {
	httpClient *resty.Client
	cfg        Config
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.vercel.com"
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetAuthToken(cfg.Token).
		SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		cfg:        cfg,
		logger:     logger,
	}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.httpClient.R().SetContext(ctx).ForceContentType("application/json")
	if c.cfg.TeamID != "" {
		req.SetQueryParam("teamId", c.cfg.TeamID)
	}
	return req
}

// GetDomainInfo fetches the provider's view of a domain: service type,
// detected and intended nameservers, verification state.
func (c *Client) GetDomainInfo(ctx context.Context, domain string) (*DomainInfo, error) {
	timer := prometheus.NewTimer(metrics.ExternalAPIDuration.WithLabelValues("vercel", "domain_info"))
	defer timer.ObserveDuration()

	var result struct {
		Domain DomainInfo `json:"domain"`
	}
	var apiErr errorBody
	resp, err := c.request(ctx).
		SetResult(&result).
		SetError(&apiErr).
		Get(fmt.Sprintf("/v4/domains/%s", domain))
	if err != nil {
		metrics.ExternalAPIFailureTotal.WithLabelValues("vercel", "domain_info").Inc()
		return nil, fmt.Errorf("failed to fetch domain info: %w", err)
	}
	if resp.IsError() {
		metrics.ExternalAPIFailureTotal.WithLabelValues("vercel", "domain_info").Inc()
		apiErr.Error.StatusCode = resp.StatusCode()
		return nil, &apiErr.Error
	}
	metrics.ExternalAPISuccessTotal.WithLabelValues("vercel", "domain_info").Inc()
	return &result.Domain, nil
}

// AddProjectDomain attaches a domain to the hosting project. A domain that
// is already attached counts as success.
func (c *Client) AddProjectDomain(ctx context.Context, name string) (Outcome, error) {
	timer := prometheus.NewTimer(metrics.ExternalAPIDuration.WithLabelValues("vercel", "add_domain"))
	defer timer.ObserveDuration()

	var apiErr errorBody
	resp, err := c.request(ctx).
		SetBody(map[string]string{"name": name}).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v10/projects/%s/domains", c.cfg.ProjectID))
	if err != nil {
		metrics.ExternalAPIFailureTotal.WithLabelValues("vercel", "add_domain").Inc()
		return 0, fmt.Errorf("failed to attach domain %s: %w", name, err)
	}
	if resp.IsError() {
		if benignCodes[apiErr.Error.Code] {
			c.logger.Info("domain already attached to project", zap.String("domain", name))
			metrics.ExternalAPISuccessTotal.WithLabelValues("vercel", "add_domain").Inc()
			return OutcomeAlreadyExists, nil
		}
		metrics.ExternalAPIFailureTotal.WithLabelValues("vercel", "add_domain").Inc()
		apiErr.Error.StatusCode = resp.StatusCode()
		return 0, &apiErr.Error
	}
	metrics.ExternalAPISuccessTotal.WithLabelValues("vercel", "add_domain").Inc()
	return OutcomeCreated, nil
}

// CreateDNSRecord writes a DNS record into the provider-hosted zone.
// An identical existing record counts as success; an invalid_zone rejection
// surfaces as ErrInvalidZone.
func (c *Client) CreateDNSRecord(ctx context.Context, domain string, record DNSRecord) (Outcome, error) {
	timer := prometheus.NewTimer(metrics.ExternalAPIDuration.WithLabelValues("vercel", "create_record"))
	defer timer.ObserveDuration()

	var apiErr errorBody
	resp, err := c.request(ctx).
		SetBody(record).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v2/domains/%s/records", domain))
	if err != nil {
		metrics.ExternalAPIFailureTotal.WithLabelValues("vercel", "create_record").Inc()
		return 0, fmt.Errorf("failed to create %s record for %s: %w", record.Type, domain, err)
	}
	if resp.IsError() {
		if benignCodes[apiErr.Error.Code] {
			metrics.ExternalAPISuccessTotal.WithLabelValues("vercel", "create_record").Inc()
			return OutcomeAlreadyExists, nil
		}
		metrics.ExternalAPIFailureTotal.WithLabelValues("vercel", "create_record").Inc()
		if apiErr.Error.Code == "invalid_zone" {
			return 0, ErrInvalidZone
		}
		apiErr.Error.StatusCode = resp.StatusCode()
		return 0, &apiErr.Error
	}
	metrics.ExternalAPISuccessTotal.WithLabelValues("vercel", "create_record").Inc()
	return OutcomeCreated, nil
}

// SetRedirect points a project domain at another with the given HTTP status.
func (c *Client) SetRedirect(ctx context.Context, name, target string, statusCode int) error {
	timer := prometheus.NewTimer(metrics.ExternalAPIDuration.WithLabelValues("vercel", "set_redirect"))
	defer timer.ObserveDuration()

	var apiErr errorBody
	resp, err := c.request(ctx).
		SetBody(map[string]any{
			"redirect":           target,
			"redirectStatusCode": statusCode,
		}).
		SetError(&apiErr).
		Patch(fmt.Sprintf("/v9/projects/%s/domains/%s", c.cfg.ProjectID, name))
	if err != nil {
		metrics.ExternalAPIFailureTotal.WithLabelValues("vercel", "set_redirect").Inc()
		return fmt.Errorf("failed to configure redirect for %s: %w", name, err)
	}
	if resp.IsError() {
		metrics.ExternalAPIFailureTotal.WithLabelValues("vercel", "set_redirect").Inc()
		apiErr.Error.StatusCode = resp.StatusCode()
		return &apiErr.Error
	}
	metrics.ExternalAPISuccessTotal.WithLabelValues("vercel", "set_redirect").Inc()
	return nil
}
