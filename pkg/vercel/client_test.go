package vercel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		Token:     "test-token",
		ProjectID: "prj_123",
		TeamID:    "team_abc",
		BaseURL:   server.URL,
	}, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeProviderError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func TestGetDomainInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/domains/example.mx", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "team_abc", r.URL.Query().Get("teamId"))
		writeJSON(w, http.StatusOK, map[string]any{
			"domain": map[string]any{
				"name":        "example.mx",
				"serviceType": "zeit.world",
				"nameservers": []string{"ns1.vercel-dns.com", "ns2.vercel-dns.com"},
				"verified":    true,
			},
		})
	})

	info, err := client.GetDomainInfo(context.Background(), "example.mx")
	require.NoError(t, err)
	assert.Equal(t, "zeit.world", info.ServiceType)
	assert.True(t, info.Verified)
	assert.Len(t, info.Nameservers, 2)
}

func TestGetDomainInfoUnlabeledResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// No Content-Type header; the body must still decode as JSON.
		w.Write([]byte(`{"domain":{"name":"example.mx","serviceType":"zeit.world","verified":true}}`))
	})

	info, err := client.GetDomainInfo(context.Background(), "example.mx")
	require.NoError(t, err)
	assert.Equal(t, "zeit.world", info.ServiceType)
	assert.True(t, info.Verified)
}

func TestGetDomainInfoError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeProviderError(w, http.StatusNotFound, "not_found", "domain not found")
	})

	_, err := client.GetDomainInfo(context.Background(), "missing.mx")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.False(t, apiErr.Temporary())
}

func TestAddProjectDomain(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v10/projects/prj_123/domains", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "example.mx", body["name"])
		w.WriteHeader(http.StatusOK)
	})

	outcome, err := client.AddProjectDomain(context.Background(), "example.mx")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
}

func TestAddProjectDomainAlreadyAttached(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeProviderError(w, http.StatusConflict, "domain_already_in_use", "already attached")
	})

	outcome, err := client.AddProjectDomain(context.Background(), "example.mx")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExists, outcome)
}

func TestCreateDNSRecordInvalidZone(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/domains/example.mx/records", r.URL.Path)
		writeProviderError(w, http.StatusBadRequest, "invalid_zone", "zone not served here")
	})

	_, err := client.CreateDNSRecord(context.Background(), "example.mx", DNSRecord{
		Type: "A", Value: "76.76.21.21",
	})
	assert.True(t, errors.Is(err, ErrInvalidZone))
}

func TestCreateDNSRecordExisting(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeProviderError(w, http.StatusConflict, "record_already_exists", "duplicate")
	})

	outcome, err := client.CreateDNSRecord(context.Background(), "example.mx", DNSRecord{
		Type: "CNAME", Name: "www", Value: "cname.vercel-dns.com",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExists, outcome)
}

func TestSetRedirect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v9/projects/prj_123/domains/www.example.mx", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "example.mx", body["redirect"])
		assert.Equal(t, float64(301), body["redirectStatusCode"])
		w.WriteHeader(http.StatusOK)
	})

	err := client.SetRedirect(context.Background(), "www.example.mx", "example.mx", 301)
	require.NoError(t, err)
}
