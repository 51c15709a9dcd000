// Package carrier issues shipping labels at the carrier's HTTP API.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	serviceName  = "carrier"
	labelsPath   = "/v1/labels"
	maxErrorBody = 512
)

var _ ports.LabelProvider = (*Client)(nil)

type labelRequest struct {
	OrderID     string `json:"orderId"`
	ExternalRef string `json:"externalRef"`
	ItemCount   int    `json:"itemCount"`
	TotalValue  string `json:"totalValue"`
}

type labelResponse struct {
	LabelReference string `json:"labelReference"`
	TrackingNumber string `json:"trackingNumber"`
}

// Client implements ports.LabelProvider. Each call is a single attempt.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) IssueLabel(ctx context.Context, req ports.LabelRequest) (ports.IssuedLabel, error) {
	body, err := json.Marshal(labelRequest{
		OrderID:     req.OrderID.String(),
		ExternalRef: req.ExternalRef,
		ItemCount:   req.ItemCount,
		TotalValue:  req.TotalValue,
	})
	if err != nil {
		return ports.IssuedLabel{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+labelsPath, bytes.NewReader(body))
	if err != nil {
		return ports.IssuedLabel{}, errs.NewExternalServiceError(serviceName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	// Repeated requests for one order carry the same key.
	httpReq.Header.Set("Idempotency-Key", req.OrderID.String())
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ports.IssuedLabel{}, errs.NewExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return ports.IssuedLabel{}, errs.NewExternalServiceError(serviceName,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var out labelResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ports.IssuedLabel{}, errs.NewExternalServiceError(serviceName, fmt.Errorf("decode response: %w", err))
	}
	if strings.TrimSpace(out.LabelReference) == "" {
		return ports.IssuedLabel{}, errs.NewExternalServiceError(serviceName, fmt.Errorf("response has no label reference"))
	}

	return ports.IssuedLabel{
		Reference:      out.LabelReference,
		TrackingNumber: out.TrackingNumber,
	}, nil
}
