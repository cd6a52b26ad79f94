// Package vision is a minimal REST client for the Google Cloud Vision
// images:annotate endpoint, used to tell cat pictures from everything
// else.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://vision.googleapis.com"

// Client calls the Vision API with an API key.
type Client struct {
	apiKey string
	http   *http.Client

	BaseURL string
}

func NewClient(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:  apiKey,
		http:    httpClient,
		BaseURL: defaultBaseURL,
	}
}

// Configured reports whether classification can run at all.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Object is one localized object annotation.
type Object struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateResponse struct {
	Responses []struct {
		LocalizedObjectAnnotations []Object `json:"localizedObjectAnnotations"`
		Error                      *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// LocalizeObjects runs object localization over raw image bytes.
func (c *Client) LocalizeObjects(ctx context.Context, image []byte) ([]Object, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("vision API key is not configured")
	}

	payload, err := json.Marshal(annotateRequest{
		Requests: []annotateEntry{{
			Image:    annotateImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []annotateFeature{{Type: "OBJECT_LOCALIZATION", MaxResults: 10}},
		}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/images:annotate?key=%s", c.BaseURL, c.apiKey), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("images:annotate: status %d", resp.StatusCode)
	}

	var result annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Responses) == 0 {
		return nil, nil
	}
	if result.Responses[0].Error != nil {
		return nil, fmt.Errorf("images:annotate: %s", result.Responses[0].Error.Message)
	}
	return result.Responses[0].LocalizedObjectAnnotations, nil
}

// HasCat reports whether any detected object looks like a cat with
// reasonable confidence.
func HasCat(objects []Object) bool {
	for _, obj := range objects {
		if strings.Contains(strings.ToLower(obj.Name), "cat") && obj.Score > 0.5 {
			return true
		}
	}
	return false
}
