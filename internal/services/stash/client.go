package stash

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

	"stashsync/internal/resolve"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPDoer describes the HTTP client used by the service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the organizer's GraphQL endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient HTTPDoer
}

// NewClient validates the connection settings and constructs a Client.
// The api key may be empty when the server runs without authentication.
func NewClient(baseURL, apiKey string, httpClient HTTPDoer) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("stash: base url required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		endpoint:   baseURL + "/graphql",
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: httpClient,
	}, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// execute posts one GraphQL operation and decodes its data into out.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	encoded, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("stash: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("stash: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("ApiKey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stash: graphql request: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stash: read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("stash: graphql returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("stash: decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("stash: graphql errors: %s", strings.Join(messages, "; "))
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("stash: decode data: %w", err)
		}
	}
	return nil
}

const findSceneQuery = `query FindScene($id: ID!) {
  findScene(id: $id) {
    id
    title
    date
    organized
    urls
    files { path }
    performers { name }
  }
}`

// FindScene fetches one scene by id.
func (c *Client) FindScene(ctx context.Context, sceneID string) (Scene, error) {
	var data struct {
		FindScene *Scene `json:"findScene"`
	}
	if err := c.execute(ctx, findSceneQuery, map[string]any{"id": sceneID}, &data); err != nil {
		return Scene{}, err
	}
	if data.FindScene == nil {
		return Scene{}, fmt.Errorf("stash: scene %s not found", sceneID)
	}
	return *data.FindScene, nil
}

const addURLsMutation = `mutation AddSceneURLs($ids: [ID!]!, $urls: [String!]!) {
  bulkSceneUpdate(input: { ids: $ids, urls: { values: $urls, mode: ADD } }) {
    id
  }
}`

// AddSceneURLs appends URLs to a scene without disturbing existing
// ones.
func (c *Client) AddSceneURLs(ctx context.Context, sceneID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return c.execute(ctx, addURLsMutation, map[string]any{
		"ids":  []string{sceneID},
		"urls": urls,
	}, nil)
}

// Scene is the subset of scene data the sync consumes.
type Scene struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Date       string      `json:"date"`
	Organized  bool        `json:"organized"`
	URLs       []string    `json:"urls"`
	Files      []SceneFile `json:"files"`
	Performers []Performer `json:"performers"`
}

// SceneFile is one file attached to a scene.
type SceneFile struct {
	Path string `json:"path"`
}

// Performer is one performer attached to a scene.
type Performer struct {
	Name string `json:"name"`
}

// PrimaryPath returns the scene's first file path.
func (s Scene) PrimaryPath() string {
	if len(s.Files) == 0 {
		return ""
	}
	return s.Files[0].Path
}

// PerformerNames returns the performer names in scene order.
func (s Scene) PerformerNames() []string {
	names := make([]string, 0, len(s.Performers))
	for _, p := range s.Performers {
		if name := strings.TrimSpace(p.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Record converts the scene into the resolver's input form. A target
// item id already present in the scene's URLs becomes the trusted
// known id.
func (s Scene) Record() resolve.SourceRecord {
	return resolve.SourceRecord{
		ID:          s.ID,
		FilePath:    s.PrimaryPath(),
		Title:       s.Title,
		ReleaseDate: s.Date,
		Performers:  s.PerformerNames(),
		KnownItemID: resolve.FirstItemID(s.URLs),
	}
}
