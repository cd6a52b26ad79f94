package rbx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ForumPost is one thread in a group forum channel.
type ForumPost struct {
	ID           json.Number `json:"id"`
	Name         string      `json:"name"`
	CreatedBy    int64       `json:"createdBy"`
	CreatedAt    string      `json:"createdAt"`
	FirstComment struct {
		Content struct {
			PlainText string `json:"plainText"`
		} `json:"content"`
	} `json:"firstComment"`
}

// ForumPosts lists the posts in a group forum channel, newest first.
// Requires the session cookie.
func (c *Client) ForumPosts(ctx context.Context, groupID int64, channelID string) ([]ForumPost, error) {
	u := fmt.Sprintf("%s/v1/groups/%d/forums/%s/posts", c.GroupsBaseURL, groupID, channelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forum posts: status %d", resp.StatusCode)
	}

	var result struct {
		Data []ForumPost `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Data, nil
}
