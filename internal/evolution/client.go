// Package evolution implements the WhatsApp messaging gateway client
// (Evolution API). Only text sends are needed by the pipeline.
package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// SendError is a gateway rejection carrying the HTTP status and the raw
// response body for the dispatch log.
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("evolution send failed with status %d: %s", e.StatusCode, e.Body)
}

// Client talks to an Evolution API instance.
type Client struct {
	baseURL  string
	instance string
	apiKey   string
	http     *retryablehttp.Client
}

// NewClient creates a gateway client for the given instance.
func NewClient(baseURL, instance, apiKey string) *Client {
	httpClient := retryablehttp.NewClient()
	// Sends are never retried; a failed send becomes an error log entry.
	httpClient.RetryMax = 0
	httpClient.Logger = nil
	return &Client{
		baseURL:  baseURL,
		instance: instance,
		apiKey:   apiKey,
		http:     httpClient,
	}
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// SendText delivers a text message to a phone number.
func (c *Client) SendText(ctx context.Context, phone, text string) error {
	payload, err := json.Marshal(sendTextRequest{Number: phone, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/message/sendText/%s", c.baseURL, c.instance)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &SendError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	return nil
}
