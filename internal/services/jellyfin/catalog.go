package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stashsync/internal/resolve"
)

const itemFields = "Path,PremiereDate"

// SearchItems runs a user-scoped text search over video items.
func (c *Client) SearchItems(ctx context.Context, term string) ([]resolve.TargetCandidate, error) {
	userID, err := c.PickUserID(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("Recursive", "true")
	query.Set("IncludeItemTypes", "Video")
	query.Set("SearchTerm", term)
	query.Set("Fields", itemFields)
	query.Set("Limit", strconv.Itoa(c.searchLimit))

	var page itemsPage
	if err := c.getJSON(ctx, "/Users/"+url.PathEscape(userID)+"/Items", query, &page); err != nil {
		return nil, err
	}
	return candidates(page.Items), nil
}

// SearchHints runs the lighter-weight hint lookup. Unlike the item
// search it works without a user, so a failed user pick is not fatal.
func (c *Client) SearchHints(ctx context.Context, term string) ([]resolve.TargetCandidate, error) {
	query := url.Values{}
	query.Set("searchTerm", term)
	query.Set("limit", strconv.Itoa(c.searchLimit))
	if userID, err := c.PickUserID(ctx); err == nil && userID != "" {
		query.Set("UserId", userID)
	}

	payload, err := c.do(ctx, http.MethodGet, "/Search/Hints", query, nil)
	if err != nil {
		return nil, err
	}
	hints, err := decodeHints(payload)
	if err != nil {
		return nil, fmt.Errorf("jellyfin: decode search hints: %w", err)
	}
	return candidates(hints), nil
}

// ItemDetails fetches the full candidate for an item id, trying the
// user-scoped endpoint first and the server-scoped one when that fails.
func (c *Client) ItemDetails(ctx context.Context, itemID string) (resolve.TargetCandidate, error) {
	query := url.Values{}
	query.Set("Fields", itemFields)

	var payload itemPayload
	if userID, err := c.PickUserID(ctx); err == nil {
		scoped := "/Users/" + url.PathEscape(userID) + "/Items/" + url.PathEscape(itemID)
		if err := c.getJSON(ctx, scoped, query, &payload); err == nil {
			return payload.candidate(), nil
		}
	}
	if err := c.getJSON(ctx, "/Items/"+url.PathEscape(itemID), query, &payload); err != nil {
		return resolve.TargetCandidate{}, err
	}
	return payload.candidate(), nil
}

// ItemPath returns the filesystem path the server reports for an item.
func (c *Client) ItemPath(ctx context.Context, itemID string) (string, error) {
	detail, err := c.ItemDetails(ctx, itemID)
	if err != nil {
		return "", err
	}
	return detail.Path, nil
}

// VirtualFolders lists the configured libraries and their roots.
func (c *Client) VirtualFolders(ctx context.Context) ([]VirtualFolder, error) {
	var folders []VirtualFolder
	if err := c.getJSON(ctx, "/Library/VirtualFolders", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// ListItemsPage enumerates one page of a library's items.
func (c *Client) ListItemsPage(ctx context.Context, parentID, includeTypes string, startIndex int) ([]resolve.TargetCandidate, int, error) {
	query := url.Values{}
	query.Set("ParentId", parentID)
	query.Set("Recursive", "true")
	query.Set("Fields", "Path")
	query.Set("IncludeItemTypes", includeTypes)
	query.Set("StartIndex", strconv.Itoa(startIndex))
	query.Set("Limit", strconv.Itoa(c.pageSize))

	var page itemsPage
	if err := c.getJSON(ctx, "/Items", query, &page); err != nil {
		return nil, 0, err
	}
	return candidates(page.Items), page.TotalRecordCount, nil
}

// FindByExactPath enumerates the libraries whose roots prefix the path
// and returns the first item whose reported path equals it byte for
// byte. Enumeration stops after the configured page bound.
func (c *Client) FindByExactPath(ctx context.Context, path string) (resolve.TargetCandidate, bool, error) {
	folders, err := c.VirtualFolders(ctx)
	if err != nil {
		return resolve.TargetCandidate{}, false, err
	}

	for _, folder := range folders {
		if folder.ItemID == "" || !folderContains(folder, path) {
			continue
		}
		includeTypes := includeTypesFor(folder.CollectionType)
		startIndex := 0
		for page := 0; page < c.maxPages; page++ {
			items, total, err := c.ListItemsPage(ctx, folder.ItemID, includeTypes, startIndex)
			if err != nil {
				return resolve.TargetCandidate{}, false, err
			}
			for _, item := range items {
				if item.Path == path {
					return item, true, nil
				}
			}
			startIndex += len(items)
			if len(items) == 0 || startIndex >= total {
				break
			}
		}
	}
	return resolve.TargetCandidate{}, false, nil
}

func folderContains(folder VirtualFolder, path string) bool {
	for _, location := range folder.Locations {
		location = strings.TrimRight(strings.TrimSpace(location), "/")
		if location != "" && strings.HasPrefix(path, location+"/") {
			return true
		}
	}
	return false
}
