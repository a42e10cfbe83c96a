package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/rza1914/ishop-settings/pkg/storage"
)

// HTTPConfig configures the remote settings client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient persists settings domains through a remote admin REST API
// exposing GET and PUT /settings/{domain}.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ settings.Persister = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the remote settings API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("httpstore: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

type domainPayload struct {
	SchemaVersion int             `json:"schema_version"`
	Sections      json.RawMessage `json:"sections"`
	UpdatedBy     string          `json:"updated_by,omitempty"`
}

// Save PUTs the snapshot. Client errors are reported as settings.ErrRejected
// so the page does not offer a retry.
func (c *HTTPClient) Save(ctx context.Context, domainID string, snapshot settings.Domain) error {
	sections, err := storage.EncodeSections(snapshot)
	if err != nil {
		return err
	}
	req := domainPayload{
		SchemaVersion: snapshot.SchemaVersion,
		Sections:      sections,
		UpdatedBy:     settings.ActivityFromContext(ctx).Who(),
	}
	return c.do(ctx, http.MethodPut, domainPath(domainID), req, nil)
}

// Load GETs the domain; 404 maps to settings.ErrNotFound.
func (c *HTTPClient) Load(ctx context.Context, domainID string) (settings.Domain, error) {
	var resp domainPayload
	if err := c.do(ctx, http.MethodGet, domainPath(domainID), nil, &resp); err != nil {
		return settings.Domain{}, err
	}
	return storage.DecodeDomain(domainID, resp.SchemaVersion, resp.Sections)
}

func domainPath(domainID string) string {
	return "/settings/" + url.PathEscape(domainID)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("httpstore: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("httpstore: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("httpstore: http request: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound && method == http.MethodGet:
		return settings.ErrNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("%w: remote status %d: %s", settings.ErrRejected, resp.StatusCode, buf.String())
	case resp.StatusCode >= 300:
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("httpstore: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("httpstore: decode response: %w", err)
	}
	return nil
}
