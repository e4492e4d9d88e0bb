package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RefreshOptions configure an item refresh.
type RefreshOptions struct {
	MetadataRefreshMode string
	ImageRefreshMode    string
	ReplaceAllMetadata  bool
	ReplaceAllImages    bool
}

// NotifyMediaUpdated points the server at one changed file so it scans
// just that path instead of the whole library.
func (c *Client) NotifyMediaUpdated(ctx context.Context, path, updateType string) error {
	body := struct {
		Updates []struct {
			Path       string `json:"Path"`
			UpdateType string `json:"UpdateType"`
		} `json:"Updates"`
	}{}
	body.Updates = append(body.Updates, struct {
		Path       string `json:"Path"`
		UpdateType string `json:"UpdateType"`
	}{Path: path, UpdateType: updateType})

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("jellyfin: encode media update: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, "/Library/Media/Updated", nil, bytes.NewReader(encoded))
	return err
}

// RefreshItem asks the server to refresh one item's metadata and
// images. Replace-all implies a full refresh: replacing without
// re-downloading would leave the item stripped.
func (c *Client) RefreshItem(ctx context.Context, itemID string, opts RefreshOptions) error {
	metadataMode := opts.MetadataRefreshMode
	imageMode := opts.ImageRefreshMode
	if opts.ReplaceAllMetadata {
		metadataMode = "FullRefresh"
	}
	if opts.ReplaceAllImages {
		imageMode = "FullRefresh"
		// Image replacement needs provider ids, which only a full
		// metadata refresh reliably re-fetches.
		metadataMode = "FullRefresh"
	}

	query := url.Values{}
	query.Set("MetadataRefreshMode", metadataMode)
	query.Set("ImageRefreshMode", imageMode)
	query.Set("ReplaceAllMetadata", strconv.FormatBool(opts.ReplaceAllMetadata))
	query.Set("ReplaceAllImages", strconv.FormatBool(opts.ReplaceAllImages))
	query.Set("Recursive", "true")

	_, err := c.do(ctx, http.MethodPost, "/Items/"+url.PathEscape(itemID)+"/Refresh", query, nil)
	return err
}

// ServerID fetches the server's id, used in web links. The public info
// endpoint serves as fallback for restricted API keys.
func (c *Client) ServerID(ctx context.Context) (string, error) {
	var info struct {
		ID string `json:"Id"`
	}
	if err := c.getJSON(ctx, "/System/Info", nil, &info); err != nil {
		if err := c.getJSON(ctx, "/System/Info/Public", nil, &info); err != nil {
			return "", err
		}
	}
	if info.ID == "" {
		return "", fmt.Errorf("jellyfin: system info carries no server id")
	}
	return info.ID, nil
}

// WebURL renders a browser link to an item from a template with
// {base}, {itemId}, and {serverId} placeholders.
func WebURL(template, base, itemID, serverID string) string {
	link := template
	link = strings.ReplaceAll(link, "{base}", strings.TrimRight(base, "/"))
	link = strings.ReplaceAll(link, "{itemId}", itemID)
	link = strings.ReplaceAll(link, "{serverId}", serverID)
	return link
}
