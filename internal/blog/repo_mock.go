package blog

import (
	"context"
	"errors"
	"sync"
)

var _ postsRepo = (*repoMock)(nil)

type repoMock struct {
	Posts map[string]*Post
	mutex sync.Mutex

	// set to make every call fail, for error path tests
	Err error
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts: make(map[string]*Post),
	}
}

func (r *repoMock) PostsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Posts)
}

func (r *repoMock) Add(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return r.Err
	}

	if _, ok := r.Posts[post.ID]; ok {
		return errors.New("post exists already")
	}

	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) Update(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return r.Err
	}

	if _, ok := r.Posts[post.ID]; !ok {
		return ErrPostNotFound
	}

	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) Get(_ context.Context, id string) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	post, ok := r.Posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (r *repoMock) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return r.Err
	}

	if _, ok := r.Posts[id]; !ok {
		return ErrPostNotFound
	}

	delete(r.Posts, id)
	return nil
}

func (r *repoMock) All(_ context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	posts := make([]*Post, 0, len(r.Posts))
	for id := range r.Posts {
		posts = append(posts, r.Posts[id])
	}
	return posts, nil
}
