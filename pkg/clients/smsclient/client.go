// Package smsclient sends SMS messages through an HTTP provider that
// authenticates with OAuth2 client credentials.
package smsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/dancove/ministry-rota/internal/config"
)

const requestTimeout = 30 * time.Second

// Client wraps the SMS provider API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new SMS client. The client credentials grant handles
// token acquisition and refresh transparently.
func NewClient(ctx context.Context, channel config.SMSChannel) *Client {
	credentials := clientcredentials.Config{
		ClientID:     channel.ClientID,
		ClientSecret: channel.ClientSecret,
		TokenURL:     channel.TokenURL,
	}

	httpClient := credentials.Client(ctx)
	httpClient.Timeout = requestTimeout

	return &Client{
		baseURL:    strings.TrimSuffix(channel.BaseURL, "/"),
		httpClient: httpClient,
	}
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SendSMS sends a text message to a single phone number
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(sendRequest{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
