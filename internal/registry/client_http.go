package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	id "pulsemarket/pkg/domain"
	dErrors "pulsemarket/pkg/domain-errors"
)

// HTTPClient looks companies up against the external corporate
// registry over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient constructs a registry client with a request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type companyPayload struct {
	RCNumber     string `json:"rc_number"`
	Name         string `json:"name"`
	BusinessType string `json:"business_type"`
	RegisteredAt string `json:"registered_at"`
}

func (c *HTTPClient) FindCompany(ctx context.Context, rcNumber id.RCNumber) (*Company, error) {
	url := fmt.Sprintf("%s/companies/%s", c.baseURL, rcNumber.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build registry request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "registry lookup timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeExternal, "registry unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, dErrors.New(dErrors.CodeNotFound, "registration number not found")
	default:
		return nil, dErrors.Newf(dErrors.CodeExternal, "registry returned status %d", resp.StatusCode)
	}

	var payload companyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternal, "decode registry response")
	}

	company := &Company{
		RCNumber:     rcNumber,
		Name:         payload.Name,
		BusinessType: payload.BusinessType,
	}
	if ts, err := time.Parse(time.RFC3339, payload.RegisteredAt); err == nil {
		company.RegisteredAt = ts
	}
	return company, nil
}
