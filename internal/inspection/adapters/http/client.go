// Package http is an authority.Evaluator that calls a remote authority over HTTP.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portcall/internal/inspection/authority"
	"portcall/internal/statistics"
	"portcall/internal/vessel/models"
	"portcall/pkg/platform/sentinel"
)

const defaultTimeout = 30 * time.Second

// Client evaluates vessels against one authority served by the inspection handler.
// The remote side evaluates against its own statistics; the snapshot passed to
// Evaluate is not sent.
type Client struct {
	name     string
	endpoint string
	http     *http.Client
}

// NewClient returns a client for the authority name served under baseURL.
// A nil httpClient uses a client with a 30s timeout.
func NewClient(baseURL, name string, httpClient *http.Client) (*Client, error) {
	if name == "" {
		return nil, fmt.Errorf("authority name is required")
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid authority base url %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		name:     name,
		endpoint: base.JoinPath("authorities", name, "evaluate").String(),
		http:     httpClient,
	}, nil
}

func (c *Client) Name() string { return c.name }

type evaluateResponse struct {
	Verdict string `json:"verdict"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// Evaluate posts the vessel record and decodes the verdict. A 400 maps to
// models.ErrInvalidVessel; transport failures and 5xx map to sentinel.ErrUnavailable
// so the coordinator retries the round.
func (c *Client) Evaluate(ctx context.Context, vessel models.Vessel, _ statistics.Snapshot) (authority.Verdict, error) {
	body, err := json.Marshal(models.ToRecord(vessel))
	if err != nil {
		return "", fmt.Errorf("encode vessel %d: %w", vessel.ID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("authority %s: %w: %v", c.name, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var out evaluateResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("authority %s: decode verdict: %w", c.name, err)
		}
		return authority.Verdict(out.Verdict), nil
	case resp.StatusCode == http.StatusBadRequest:
		return "", fmt.Errorf("authority %s: %w: %s", c.name, models.ErrInvalidVessel, describe(resp.Body))
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("authority %s: %w", c.name, sentinel.ErrNotFound)
	default:
		return "", fmt.Errorf("authority %s: %w: status %d", c.name, sentinel.ErrUnavailable, resp.StatusCode)
	}
}

func describe(r io.Reader) string {
	var e errorResponse
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&e); err != nil {
		return "rejected"
	}
	if e.Description != "" {
		return e.Description
	}
	return e.Error
}

// NewRemoteSet returns clients for the three authorities under baseURL.
func NewRemoteSet(baseURL string, httpClient *http.Client) ([]authority.Evaluator, error) {
	names := []string{authority.NameWeight, authority.NameQuartile, authority.NameRandom}
	out := make([]authority.Evaluator, 0, len(names))
	for _, name := range names {
		c, err := NewClient(baseURL, name, httpClient)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
