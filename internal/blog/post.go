package blog

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")

const keyPrefix = "blog:"

// Post is a published (or draft) blog post. Content is the raw document
// string, either HTML or the markdown dialect the content package handles.
// Images is a legacy list of attached image URLs kept for older posts and
// is never null in JSON. CoverImage may be a URL, a data URL, or a solid
// color token like "#1a2b3c".
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Images     []string  `json:"images"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func postKey(id string) string {
	return keyPrefix + id
}
