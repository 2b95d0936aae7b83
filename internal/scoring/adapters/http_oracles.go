package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pulsemarket/internal/scoring/ports"
	dErrors "pulsemarket/pkg/domain-errors"
)

// DocumentClient calls the document verification oracle over HTTP.
type DocumentClient struct {
	baseURL string
	client  *http.Client
}

func NewDocumentClient(baseURL string, timeout time.Duration) *DocumentClient {
	return &DocumentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *DocumentClient) Verify(ctx context.Context, artifactRef string) (*ports.DocumentResult, error) {
	var result ports.DocumentResult
	err := postJSON(ctx, c.client, c.baseURL+"/verify/document",
		map[string]string{"artifact_ref": artifactRef}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// VideoClient calls the video verification oracle over HTTP.
type VideoClient struct {
	baseURL string
	client  *http.Client
}

func NewVideoClient(baseURL string, timeout time.Duration) *VideoClient {
	return &VideoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *VideoClient) Verify(ctx context.Context, artifactRef string) (*ports.VideoResult, error) {
	var result ports.VideoResult
	err := postJSON(ctx, c.client, c.baseURL+"/verify/video",
		map[string]string{"artifact_ref": artifactRef}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// BankClient fetches an account summary from the bank aggregator.
type BankClient struct {
	baseURL string
	client  *http.Client
}

func NewBankClient(baseURL string, timeout time.Duration) *BankClient {
	return &BankClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *BankClient) FetchSummary(ctx context.Context, authToken string) (*ports.BankResult, error) {
	var result ports.BankResult
	err := postJSON(ctx, c.client, c.baseURL+"/accounts/summary",
		map[string]string{"auth_token": authToken}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode oracle request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build oracle request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "oracle request timed out")
		}
		return dErrors.Wrap(err, dErrors.CodeExternal, "oracle request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return dErrors.Newf(dErrors.CodeUnavailable, "oracle returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return dErrors.Newf(dErrors.CodeExternal, "oracle returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeExternal, fmt.Sprintf("failed to decode oracle response from %s", url))
	}
	return nil
}
