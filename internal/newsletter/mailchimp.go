// Package newsletter subscribes email addresses to a Mailchimp audience.
package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrMemberExists  = errors.New("newsletter: member exists")
	ErrNotConfigured = errors.New("newsletter: api key or list id not configured")
	ErrInvalidEmail  = errors.New("newsletter: invalid email")
)

const memberExistsTitle = "Member Exists"

type Client struct {
	APIKey string
	ListID string
	// BaseURL overrides https://<dc>.api.mailchimp.com/3.0.
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey, listID, dataCenter string) *Client {
	c := &Client{
		APIKey: apiKey,
		ListID: listID,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
	}
	if dataCenter == "" {
		dataCenter = DataCenter(apiKey)
	}
	if dataCenter != "" {
		c.BaseURL = "https://" + dataCenter + ".api.mailchimp.com/3.0"
	}
	return c
}

// DataCenter returns the server prefix encoded after the dash in a Mailchimp
// API key, e.g. "us12" for "abc123-us12".
func DataCenter(apiKey string) string {
	i := strings.LastIndex(apiKey, "-")
	if i < 0 || i == len(apiKey)-1 {
		return ""
	}
	return apiKey[i+1:]
}

func (c *Client) Configured() bool {
	return c != nil && c.APIKey != "" && c.ListID != "" && c.BaseURL != ""
}

type member struct {
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

// APIError is a Mailchimp problem-details response.
type APIError struct {
	StatusCode int    `json:"-"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("newsletter: mailchimp %d %s: %s", e.StatusCode, e.Title, e.Detail)
	}
	return fmt.Sprintf("newsletter: mailchimp %d %s", e.StatusCode, e.Title)
}

func (e *APIError) Is(target error) bool {
	return target == ErrMemberExists && e.Title == memberExistsTitle
}

// Subscribe adds email to the list as subscribed. An address that is already on
// the list yields an error matching ErrMemberExists.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(member{EmailAddress: strings.TrimSpace(email), Status: "subscribed"})
	if err != nil {
		return fmt.Errorf("newsletter: encode member: %w", err)
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/lists/" + c.ListID + "/members"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("newsletter: build request: %w", err)
	}
	req.Header.Set("Authorization", "apikey "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("newsletter: subscribe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Title == "" {
		apiErr.Title = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// ValidEmail is the loose check the signup form applies: something on each side
// of a single '@'.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && strings.Count(email, "@") == 1 && !strings.ContainsAny(email, " \t\r\n")
}
