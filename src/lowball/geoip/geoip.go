// Package geoip resolves a network address to a display location through an
// ip-api.com style JSON endpoint.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	client  *http.Client
}

type lookupResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://ip-api.com/json"
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Lookup returns a "City, Country" string for ip. Private addresses make the
// upstream answer status "fail", which comes back as an error.
func (c *Client) Lookup(ctx context.Context, ip string) (string, error) {
	url := fmt.Sprintf("%s/%s?fields=status,message,city,country", c.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geoip: status %d", resp.StatusCode)
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Status != "success" {
		return "", fmt.Errorf("geoip: %s", result.Message)
	}

	if result.City == "" {
		return result.Country, nil
	}
	return result.City + ", " + result.Country, nil
}
