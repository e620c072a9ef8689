package api

import (
	"context"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/catchat/internal/errors"
)

// maxStatusBody caps how much of the status document is read.
const maxStatusBody = 64 * 1024

// ServiceStatus is the answer of the service root endpoint.
type ServiceStatus struct {
	Endpoint string
	Status   string
	Version  string
}

// NewHTTPClient creates the HTTP client used for status probes.
func NewHTTPClient(timeoutSeconds int) (tls_client.HttpClient, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(timeoutSeconds),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return httpClient, nil
}

// Status probes the service HTTP root and reports its status document.
func Status(ctx context.Context, client tls_client.HttpClient, settings Settings) (*ServiceStatus, error) {
	endpoint := settings.HTTPURL(PathStatus)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, apierrors.NewConnectionError(endpoint, settings.UserID, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBody))
	if err != nil {
		return nil, apierrors.NewConnectionError(endpoint, settings.UserID, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apierrors.NewStatusError(resp.StatusCode, endpoint, strings.TrimSpace(string(body)))
	}

	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewDecodeError(string(body), nil)
	}

	return &ServiceStatus{
		Endpoint: endpoint,
		Status:   gjson.GetBytes(body, PathStatusText).String(),
		Version:  gjson.GetBytes(body, PathStatusVersion).String(),
	}, nil
}
