package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateAndGet(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST" && r.URL.Path == "/blog":
			var req PostRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "a title", req.Title)

			w.WriteHeader(http.StatusCreated)
			_, err := w.Write([]byte(`{"success":true,"blog":{"id":"p1","title":"a title","content":"c","images":[]}}`))
			assert.NoError(t, err)
		case r.Method == "GET" && r.URL.Path == "/blog/p1":
			_, err := w.Write([]byte(`{"blog":{"id":"p1","title":"a title","content":"c","images":[]}}`))
			assert.NoError(t, err)
		default:
			http.NotFound(w, r)
		}
	}))
	defer service.Close()

	c := New(service.URL)
	ctx := context.Background()

	created, err := c.Create(ctx, PostRequest{Title: "a title", Content: "c"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "p1", created.ID)

	fetched, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "a title", fetched.Title)
}

func TestClient_Get_NotFound(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "post not found", http.StatusNotFound)
	}))
	defer service.Close()

	c := New(service.URL)
	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestClient_Update(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "PUT", r.Method)
		require.Equal(t, "/blog/p1", r.URL.Path)
		_, err := w.Write([]byte(`{"success":true,"blog":{"id":"p1","title":"new title","content":"c","images":[]}}`))
		assert.NoError(t, err)
	}))
	defer service.Close()

	c := New(service.URL)
	updated, err := c.Update(context.Background(), "p1", PostRequest{Title: "new title", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
}

func TestClient_Delete(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "DELETE", r.Method)
		if r.URL.Path == "/blog/p1" {
			_, err := w.Write([]byte(`{"success":true}`))
			assert.NoError(t, err)
			return
		}
		http.Error(w, "post not found", http.StatusNotFound)
	}))
	defer service.Close()

	c := New(service.URL)
	require.NoError(t, c.Delete(context.Background(), "p1"))
	assert.ErrorIs(t, c.Delete(context.Background(), "ghost"), ErrPostNotFound)
}

func TestClient_List(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/blogs", r.URL.Path)
		_, err := w.Write([]byte(`{"blogs":[
			{"id":"p2","title":"newer","content":"c","images":[],"preview":"newer preview"},
			{"id":"p1","title":"older","content":"c","images":[],"preview":"older preview"}
		]}`))
		assert.NoError(t, err)
	}))
	defer service.Close()

	c := New(service.URL)
	posts := c.List(context.Background())
	require.Len(t, posts, 2)
	assert.Equal(t, "p2", posts[0].ID)
	assert.Equal(t, "newer preview", posts[0].Preview)
}

func TestClient_List_ServiceDownYieldsEmptyList(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	service.Close()

	c := New(service.URL)
	posts := c.List(context.Background())
	require.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestClient_SearchImage(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/unsplash", r.URL.Path)
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "coffee", req.Query)

		_, err := w.Write([]byte(`{"imageUrl":"https://picsum.photos/400/300?random=42"}`))
		assert.NoError(t, err)
	}))
	defer service.Close()

	c := New(service.URL)
	imageURL, err := c.SearchImage(context.Background(), "coffee")
	require.NoError(t, err)
	assert.Equal(t, "https://picsum.photos/400/300?random=42", imageURL)
}

func TestClient_Theme(t *testing.T) {
	theme := "light"
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prefs/theme", r.URL.Path)
		if r.Method == "PUT" {
			var req struct {
				Theme string `json:"theme"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			theme = req.Theme
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"theme": theme}))
	}))
	defer service.Close()

	c := New(service.URL)
	ctx := context.Background()

	got, err := c.GetTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", got)

	require.NoError(t, c.SetTheme(ctx, "dark"))
	got, err = c.GetTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", got)
}
