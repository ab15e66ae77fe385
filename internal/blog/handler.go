package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/coffeepress/coffeepress/internal/content"
	"github.com/coffeepress/coffeepress/internal/metrics"
	"github.com/coffeepress/coffeepress/pkg"
	"github.com/coocood/freecache"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const previewCacheTTLSeconds = 10 * 60

type PostsResponse struct {
	Blogs []*PostListItem `json:"blogs"`
}

// PostListItem is a Post plus the server-rendered plain text preview used
// by the post list.
type PostListItem struct {
	Post
	Preview string `json:"preview"`
}

type PostResponse struct {
	Success bool  `json:"success"`
	Blog    *Post `json:"blog"`
}

type GetPostResponse struct {
	Blog *Post `json:"blog"`
}

type newPostRequest struct {
	Title      string   `json:"title" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Images     []string `json:"images"`
	CoverImage string   `json:"coverImage"`
}

type updatePostRequest struct {
	Title      string   `json:"title" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Images     []string `json:"images"`
	CoverImage string   `json:"coverImage"`
}

type postsRepo interface {
	Add(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Get(ctx context.Context, id string) (*Post, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]*Post, error)
}

type Handler struct {
	repo         postsRepo
	metrics      *metrics.Manager
	validate     *validator.Validate
	previewCache *freecache.Cache
	now          func() time.Time
}

func NewHandler(
	repo postsRepo,
	metricsManager *metrics.Manager,
	previewCache *freecache.Cache,
) *Handler {
	return &Handler{
		repo:         repo,
		metrics:      metricsManager,
		validate:     validator.New(),
		previewCache: previewCache,
		now:          time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/blog", handler.handleNewPost).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/blog/{id}", handler.handleUpdatePost).Methods("PUT", "OPTIONS").Name("update-post")
	router.HandleFunc("/blog/{id}", handler.handleGetPost).Methods("GET").Name("get-post")
	router.HandleFunc("/blog/{id}", handler.handleDeletePost).Methods("DELETE", "OPTIONS").Name("delete-post")
	router.HandleFunc("/blogs", handler.handleAll).Methods("GET").Name("all-posts")
}

func (handler *Handler) handleNewPost(w http.ResponseWriter, r *http.Request) {
	var newPostReq newPostRequest
	if err := json.NewDecoder(r.Body).Decode(&newPostReq); err != nil {
		log.Errorf("new post, unmarshal json params: %s", err)
		http.Error(w, "add post failed", http.StatusBadRequest)
		return
	}

	if err := handler.validate.Struct(newPostReq); err != nil {
		http.Error(w, "error, title and content required", http.StatusBadRequest)
		return
	}

	now := handler.now()
	newPost := &Post{
		ID:         uuid.NewString(),
		Title:      newPostReq.Title,
		Content:    newPostReq.Content,
		Images:     newPostReq.Images,
		CoverImage: newPostReq.CoverImage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if newPost.Images == nil {
		newPost.Images = []string{}
	}

	if err := handler.repo.Add(r.Context(), newPost); err != nil {
		log.Errorf("add new post failed: %s", err)
		http.Error(w, "add new post failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterPostsCreated.Inc()
	log.Tracef("new post %s: [%s] added", newPost.ID, newPost.Title)

	handler.writePostResponse(w, newPost, http.StatusCreated)
}

func (handler *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var updateReq updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Errorf("update post, unmarshal json params: %s", err)
		http.Error(w, "update post failed", http.StatusBadRequest)
		return
	}

	if err := handler.validate.Struct(updateReq); err != nil {
		http.Error(w, "error, title and content required", http.StatusBadRequest)
		return
	}

	existing, err := handler.repo.Get(r.Context(), id)
	if err == ErrPostNotFound {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("update post %s, get current: %s", id, err)
		http.Error(w, "update post failed", http.StatusInternalServerError)
		return
	}

	// identity and creation time survive every update, the image list is
	// replaced wholesale, and an absent cover keeps the stored one
	updated := &Post{
		ID:         existing.ID,
		Title:      updateReq.Title,
		Content:    updateReq.Content,
		Images:     updateReq.Images,
		CoverImage: updateReq.CoverImage,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  handler.now(),
	}
	if updated.Images == nil {
		updated.Images = []string{}
	}
	if updated.CoverImage == "" {
		updated.CoverImage = existing.CoverImage
	}

	if err := handler.repo.Update(r.Context(), updated); err != nil {
		log.Errorf("update post %s failed: %s", id, err)
		http.Error(w, "update post failed", http.StatusInternalServerError)
		return
	}

	handler.writePostResponse(w, updated, http.StatusOK)
}

func (handler *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	post, err := handler.repo.Get(r.Context(), id)
	if err == ErrPostNotFound {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get post %s: %s", id, err)
		http.Error(w, "get post failed", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(GetPostResponse{Blog: post})
	if err != nil {
		log.Errorf("marshal post %s: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	err := handler.repo.Delete(r.Context(), id)
	if err == ErrPostNotFound {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("delete post %s: %s", id, err)
		http.Error(w, "error, post not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterPostsDeleted.Inc()
	log.Tracef("post %s deleted", id)

	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}

// handleAll sends the full post list, newest first. The list view is the
// landing surface, so store failures degrade to an empty list instead of
// an error page.
func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all posts: %s", err)
		posts = nil
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	items := make([]*PostListItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, &PostListItem{
			Post:    *post,
			Preview: handler.preview(post),
		})
	}

	resp, err := json.Marshal(PostsResponse{Blogs: items})
	if err != nil {
		log.Errorf("marshal all posts: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

// preview returns the cached plain text preview of a post, rendering and
// caching it on a miss. UpdatedAt is part of the key so edits invalidate
// the stale entry naturally.
func (handler *Handler) preview(post *Post) string {
	cacheKey := []byte(fmt.Sprintf("preview::%s::%d", post.ID, post.UpdatedAt.UnixNano()))
	if cached, err := handler.previewCache.Get(cacheKey); err == nil {
		return string(cached)
	}

	preview := content.Preview(post.Content)
	if err := handler.previewCache.Set(cacheKey, []byte(preview), previewCacheTTLSeconds); err != nil {
		log.Warnf("cache preview for post %s: %s", post.ID, err)
	}
	return preview
}

func (handler *Handler) writePostResponse(w http.ResponseWriter, post *Post, statusCode int) {
	resp, err := json.Marshal(PostResponse{Success: true, Blog: post})
	if err != nil {
		log.Errorf("marshal post %s response: %s", post.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, statusCode)
}
