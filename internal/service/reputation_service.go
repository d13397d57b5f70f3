package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultReputationURL is the Abstract email reputation endpoint
const DefaultReputationURL = "https://emailreputation.abstractapi.com/v1/"

// ReputationConfig configures the email reputation client
type ReputationConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// ReputationService looks up email addresses in the Abstract reputation API
type ReputationService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewReputationService creates a new reputation client
func NewReputationService(cfg ReputationConfig) *ReputationService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultReputationURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ReputationService{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// ReputationReport is the subset of the Abstract response the validator reads
type ReputationReport struct {
	EmailAddress   string               `json:"email_address"`
	Deliverability *EmailDeliverability `json:"email_deliverability"`
	Quality        *EmailQuality        `json:"email_quality"`
	Risk           *EmailRisk           `json:"email_risk"`
}

type EmailDeliverability struct {
	Status        string `json:"status"`
	StatusDetail  string `json:"status_detail"`
	IsFormatValid bool   `json:"is_format_valid"`
	IsSMTPValid   bool   `json:"is_smtp_valid"`
	IsMXValid     bool   `json:"is_mx_valid"`
}

type EmailQuality struct {
	Score                QualityScore `json:"score"`
	IsFreeEmail          bool         `json:"is_free_email"`
	IsUsernameSuspicious bool         `json:"is_username_suspicious"`
	IsDisposable         bool         `json:"is_disposable"`
	IsCatchall           bool         `json:"is_catchall"`
	IsRole               bool         `json:"is_role"`
}

// QualityScore tells an absent score apart from an explicit null
type QualityScore struct {
	Value float64
	Valid bool
	Null  bool
}

func (s *QualityScore) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = QualityScore{Null: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = QualityScore{Value: v, Valid: true}
	return nil
}

// Below reports whether the score is under threshold. A null score counts as below,
// a missing one does not.
func (s QualityScore) Below(threshold float64) bool {
	return s.Null || (s.Valid && s.Value < threshold)
}

type EmailRisk struct {
	AddressRiskStatus string `json:"address_risk_status"`
	DomainRiskStatus  string `json:"domain_risk_status"`
}

// Check fetches the reputation report for an address.
// Any transport failure, non-2xx status or undecodable payload is returned as an error.
// Sections may be nil; Classify only requires the ones it reaches.
func (s *ReputationService) Check(ctx context.Context, email string) (*ReputationReport, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("reputation API key: %w", ErrNotConfigured)
	}

	endpoint, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid reputation URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("api_key", s.apiKey)
	query.Set("email", email)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create reputation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call reputation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	var report ReputationReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to parse reputation response: %w", err)
	}

	return &report, nil
}
