package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.unsplash.com"

var ErrNoResults = errors.New("no image results")

type searchPhotosResponse struct {
	Results []struct {
		Urls struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// UnsplashClient asks the Unsplash search API for a single photo matching
// a query. The free tier quota is tiny, so callers are expected to rate
// limit and to have a fallback ready.
type UnsplashClient struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

func NewUnsplashClient(baseURL, accessKey string) *UnsplashClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &UnsplashClient{
		baseURL:   baseURL,
		accessKey: accessKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *UnsplashClient) Search(ctx context.Context, query string) (string, error) {
	if c.accessKey == "" {
		return "", errors.New("unsplash access key not set")
	}

	searchURL := fmt.Sprintf(
		"%s/search/photos?query=%s&per_page=1",
		c.baseURL, url.QueryEscape(query),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("create unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("unsplash request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsplash responded with %d", resp.StatusCode)
	}

	var searchResp searchPhotosResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("decode unsplash response: %w", err)
	}

	if len(searchResp.Results) == 0 || searchResp.Results[0].Urls.Regular == "" {
		return "", ErrNoResults
	}

	return searchResp.Results[0].Urls.Regular, nil
}
