package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// LookupResult is one gateway metadata response: the decoded envelope plus
// the rate-budget headers, when the gateway advertised them.
type LookupResult struct {
	Envelope      *Envelope
	RateRemaining string
	RateLimit     string
}

// GatewayClient abstracts the metadata gateway for the orchestrator.
type GatewayClient interface {
	Lookup(ctx context.Context, videoID string) (*LookupResult, error)
}

// errorEnvelope mirrors the gateway's error payload.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client is the HTTP GatewayClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client targeting the gateway at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Lookup fetches metadata for videoID. A non-200 response is surfaced as an
// error carrying the gateway's message so the orchestrator can publish it
// verbatim.
func (c *Client) Lookup(ctx context.Context, videoID string) (*LookupResult, error) {
	reqURL := c.baseURL + "/api/metadata?videoId=" + url.QueryEscape(videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway not reachable, is vidmeta serving? (%w)", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var ee errorEnvelope
		if json.Unmarshal(body, &ee) == nil && ee.Error.Message != "" {
			return nil, fmt.Errorf("%s", ee.Error.Message)
		}
		return nil, fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	env, err := DecodeEnvelope(body)
	if err != nil {
		return nil, err
	}

	return &LookupResult{
		Envelope:      env,
		RateRemaining: resp.Header.Get("X-RateLimit-Remaining"),
		RateLimit:     resp.Header.Get("X-RateLimit-Limit"),
	}, nil
}
