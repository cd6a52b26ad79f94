// Package rbx wraps the small slice of the Roblox web APIs the bot
// needs: user lookups, avatar thumbnails, username resolution, user
// search, per-universe ban restrictions and group forum posts.
package rbx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultCloudBaseURL  = "https://apis.roblox.com"
	defaultUsersBaseURL  = "https://users.roblox.com"
	defaultGroupsBaseURL = "https://groups.roblox.com"
)

// Client talks to the Roblox platform APIs. The open cloud endpoints
// need the API key; search and restrictions additionally want the
// session cookie.
type Client struct {
	apiKey string
	cookie string
	http   *http.Client

	// Overridable in tests.
	CloudBaseURL  string
	UsersBaseURL  string
	GroupsBaseURL string
}

func NewClient(apiKey, cookie string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:        apiKey,
		cookie:        cookie,
		http:          httpClient,
		CloudBaseURL:  defaultCloudBaseURL,
		UsersBaseURL:  defaultUsersBaseURL,
		GroupsBaseURL: defaultGroupsBaseURL,
	}
}

// User is the open cloud v2 user resource.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	About       string `json:"about"`
	CreateTime  string `json:"createTime"`
}

type thumbnailResponse struct {
	Done     bool `json:"done"`
	Response struct {
		ImageURI string `json:"imageUri"`
	} `json:"response"`
}

// GetUser fetches a user by id from the open cloud API.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	err := c.getJSON(ctx, fmt.Sprintf("%s/cloud/v2/users/%s", c.CloudBaseURL, userID), true, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GenerateThumbnail asks for an avatar render at the given size. The
// returned URL is empty if the render job has not finished.
func (c *Client) GenerateThumbnail(ctx context.Context, userID string, size int) (string, error) {
	var thumb thumbnailResponse
	err := c.getJSON(ctx, fmt.Sprintf("%s/cloud/v2/users/%s:generateThumbnail?size=%d", c.CloudBaseURL, userID, size), true, &thumb)
	if err != nil {
		return "", err
	}
	if !thumb.Done {
		return "", nil
	}
	return thumb.Response.ImageURI, nil
}

// UserIDFromUsername resolves an exact username to a user id. Returns
// an empty id (no error) when the username does not exist.
func (c *Client) UserIDFromUsername(ctx context.Context, username string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"usernames":          []string{username},
		"excludeBannedUsers": true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UsersBaseURL+"/v1/usernames/users", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("username lookup: status %d", resp.StatusCode)
	}

	var result struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Data) == 0 || result.Data[0].ID == 0 {
		return "", nil
	}
	return strconv.FormatInt(result.Data[0].ID, 10), nil
}

// SearchUser is one hit from the public user search.
type SearchUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// RateLimitedError marks a 429 from the search endpoint so callers can
// word the reply accordingly.
type RateLimitedError struct{}

func (RateLimitedError) Error() string { return "rate limited" }

// SearchUsers runs a keyword search, returning up to limit hits.
func (c *Client) SearchUsers(ctx context.Context, keyword string, limit int) ([]SearchUser, error) {
	u := fmt.Sprintf("%s/v1/users/search?keyword=%s&limit=%d", c.UsersBaseURL, url.QueryEscape(keyword), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, RateLimitedError{}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user search: status %d", resp.StatusCode)
	}

	var result struct {
		Data []SearchUser `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Restriction is a user's join restriction in one universe.
type Restriction struct {
	Active             bool   `json:"active"`
	StartTime          string `json:"startTime"`
	PrivateReason      string `json:"privateReason"`
	DisplayReason      string `json:"displayReason"`
	ExcludeAltAccounts bool   `json:"excludeAltAccounts"`
	Inherited          bool   `json:"inherited"`
}

// UserRestriction fetches the ban state for a user in one universe.
// Requires the session cookie.
func (c *Client) UserRestriction(ctx context.Context, universe int64, userID string) (*Restriction, error) {
	if c.cookie == "" {
		return nil, fmt.Errorf("restrictions require a session cookie")
	}

	u := fmt.Sprintf("%s/user/cloud/v2/universes/%d/user-restrictions/%s", c.CloudBaseURL, universe, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", c.cookie)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user restrictions: status %d", resp.StatusCode)
	}

	var result struct {
		GameJoinRestriction Restriction `json:"gameJoinRestriction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result.GameJoinRestriction, nil
}

func (c *Client) getJSON(ctx context.Context, url string, withKey bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		if c.apiKey == "" {
			return fmt.Errorf("roblox API key is not configured")
		}
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
