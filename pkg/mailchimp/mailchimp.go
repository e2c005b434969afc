package mailchimp

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal Mailchimp Marketing API client covering list member
// upserts, which is all the newsletter flow needs.
type Client struct {
	apiKey       string
	serverPrefix string
	listID       string
	client       *http.Client
}

func New(apiKey, serverPrefix, listID string) *Client {
	return &Client{
		apiKey:       apiKey,
		serverPrefix: serverPrefix,
		listID:       listID,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether the client has credentials to talk to Mailchimp.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.serverPrefix != "" && c.listID != ""
}

type memberRequest struct {
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
	StatusIfNew  string `json:"status_if_new,omitempty"`
}

type memberResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// UpsertMember subscribes or unsubscribes an email on the configured list and
// returns the Mailchimp member id.
func (c *Client) UpsertMember(ctx context.Context, email, status string) (string, error) {
	hash := md5.Sum([]byte(strings.ToLower(email)))
	url := fmt.Sprintf("https://%s.api.mailchimp.com/3.0/lists/%s/members/%s",
		c.serverPrefix, c.listID, hex.EncodeToString(hash[:]))

	body, err := json.Marshal(memberRequest{
		EmailAddress: email,
		Status:       status,
		StatusIfNew:  status,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth("anystring", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var member memberResponse
	if err := json.Unmarshal(raw, &member); err != nil {
		return "", fmt.Errorf("mailchimp: decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("mailchimp: %s (status %d)", member.Detail, resp.StatusCode)
	}
	return member.ID, nil
}
