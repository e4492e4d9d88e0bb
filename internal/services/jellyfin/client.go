package jellyfin

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultSearchLimit = 25
	defaultPageSize    = 1000
	defaultMaxPages    = 50

	clientName = "stashsync"
)

// HTTPDoer describes the HTTP client used by the service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configure a Client.
type Options struct {
	BaseURL string
	APIKey  string
	// UserID scopes searches; discovered via PickUserID when empty.
	UserID string
	// VerifyTLS disables certificate verification when false.
	VerifyTLS bool
	// SearchLimit bounds results per search call.
	SearchLimit int
	// PageSize and MaxPages bound library enumeration.
	PageSize int
	MaxPages int
	// HTTPClient overrides the default client (useful for tests).
	HTTPClient HTTPDoer
}

// Client talks to a Jellyfin-compatible server.
type Client struct {
	baseURL     string
	apiKey      string
	searchLimit int
	pageSize    int
	maxPages    int
	httpClient  HTTPDoer

	mu     sync.Mutex
	userID string
}

// NewClient validates options and constructs a Client.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	apiKey := strings.TrimSpace(opts.APIKey)
	if baseURL == "" {
		return nil, errors.New("jellyfin: base url required")
	}
	if apiKey == "" {
		return nil, errors.New("jellyfin: api key required")
	}

	client := &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		userID:      strings.TrimSpace(opts.UserID),
		searchLimit: opts.SearchLimit,
		pageSize:    opts.PageSize,
		maxPages:    opts.MaxPages,
		httpClient:  opts.HTTPClient,
	}
	if client.searchLimit <= 0 {
		client.searchLimit = defaultSearchLimit
	}
	if client.pageSize <= 0 {
		client.pageSize = defaultPageSize
	}
	if client.maxPages <= 0 {
		client.maxPages = defaultMaxPages
	}
	if client.httpClient == nil {
		httpClient := &http.Client{Timeout: defaultHTTPTimeout}
		if !opts.VerifyTLS {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
		client.httpClient = httpClient
	}
	return client, nil
}

// authorize attaches every auth header variant the server family
// accepts, so one client works against differing auth middlewares.
func (c *Client) authorize(req *http.Request) {
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("X-MediaBrowser-Token", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf(
		`MediaBrowser Client=%q, Device=%q, DeviceId=%q, Version="1.0", Token=%q`,
		clientName, clientName, clientName, c.apiKey))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("jellyfin: build request: %w", err)
	}
	c.authorize(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jellyfin: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jellyfin: read response for %s: %w", path, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("jellyfin: %s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return payload, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	payload, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("jellyfin: decode response for %s: %w", path, err)
	}
	return nil
}

// Users lists the server accounts.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "/Users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// PickUserID returns the user id searches are scoped to, discovering
// one when none was configured. Administrator accounts are preferred
// because they see every library. The discovered id is cached.
func (c *Client) PickUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	cached := c.userID
	c.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	users, err := c.Users(ctx)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", errors.New("jellyfin: server reported no users")
	}
	picked := users[0].ID
	for _, user := range users {
		if user.Policy.IsAdministrator {
			picked = user.ID
			break
		}
	}
	if picked == "" {
		return "", errors.New("jellyfin: user entries carry no id")
	}

	c.mu.Lock()
	c.userID = picked
	c.mu.Unlock()
	return picked, nil
}
