package rbx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultBloxlinkBaseURL = "https://api.blox.link"

// BloxlinkClient resolves Discord accounts to linked Roblox accounts
// through the Bloxlink public API.
type BloxlinkClient struct {
	token string
	http  *http.Client

	BaseURL string
}

func NewBloxlinkClient(token string, httpClient *http.Client) *BloxlinkClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BloxlinkClient{
		token:   token,
		http:    httpClient,
		BaseURL: defaultBloxlinkBaseURL,
	}
}

// RobloxIDForDiscord returns the linked Roblox user id for a Discord
// user, or an error carrying Bloxlink's message when no link exists.
func (c *BloxlinkClient) RobloxIDForDiscord(ctx context.Context, discordID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v4/public/discord-to-roblox/%s", c.BaseURL, discordID), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		RobloxID string `json:"robloxID"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", fmt.Errorf("%s", result.Error)
	}
	if result.RobloxID == "" {
		return "", fmt.Errorf("no linked roblox account")
	}
	return result.RobloxID, nil
}
