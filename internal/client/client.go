package client

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

	"github.com/coffeepress/coffeepress/internal/blog"
	"github.com/coffeepress/coffeepress/internal/images"
	log "github.com/sirupsen/logrus"
)

var ErrPostNotFound = errors.New("post not found")

// PostRequest carries the writable fields of a post for Create and Update.
type PostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Images     []string `json:"images,omitempty"`
	CoverImage string   `json:"coverImage,omitempty"`
}

// Client talks to a running publishing service. Errors from Create,
// Update, Get and Delete propagate to the caller; List degrades to an
// empty slice so a dead service still renders an empty post list.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) Create(ctx context.Context, req PostRequest) (*blog.Post, error) {
	var resp blog.PostResponse
	if err := c.doJSON(ctx, http.MethodPost, "/blog", req, &resp); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return resp.Blog, nil
}

func (c *Client) Update(ctx context.Context, id string, req PostRequest) (*blog.Post, error) {
	var resp blog.PostResponse
	if err := c.doJSON(ctx, http.MethodPut, "/blog/"+id, req, &resp); err != nil {
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}
	return resp.Blog, nil
}

func (c *Client) Get(ctx context.Context, id string) (*blog.Post, error) {
	var resp blog.GetPostResponse
	if err := c.doJSON(ctx, http.MethodGet, "/blog/"+id, nil, &resp); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return resp.Blog, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/blog/"+id, nil, nil); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

// List never fails: any transport or service problem logs and yields an
// empty list, same as the service's own degraded list behavior.
func (c *Client) List(ctx context.Context) []*blog.PostListItem {
	var resp blog.PostsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/blogs", nil, &resp); err != nil {
		log.Errorf("list posts: %s", err)
		return []*blog.PostListItem{}
	}
	if resp.Blogs == nil {
		return []*blog.PostListItem{}
	}
	return resp.Blogs
}

func (c *Client) SearchImage(ctx context.Context, query string) (string, error) {
	var resp images.SearchResponse
	err := c.doJSON(ctx, http.MethodPost, "/unsplash", map[string]string{"query": query}, &resp)
	if err != nil {
		return "", fmt.Errorf("search image: %w", err)
	}
	return resp.ImageURL, nil
}

func (c *Client) GetTheme(ctx context.Context) (string, error) {
	var resp struct {
		Theme string `json:"theme"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/prefs/theme", nil, &resp); err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	return resp.Theme, nil
}

func (c *Client) SetTheme(ctx context.Context, theme string) error {
	err := c.doJSON(ctx, http.MethodPut, "/prefs/theme", map[string]string{"theme": theme}, nil)
	if err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, respDest interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil {
		reqJson, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(reqJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrPostNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("service responded with %d: %s", resp.StatusCode, strings.TrimSpace(string(message)))
	}

	if respDest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respDest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
