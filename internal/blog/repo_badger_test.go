package blog

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestBadgerRepo(t *testing.T) *BadgerRepo {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	return NewBadgerRepo(db)
}

func TestBadgerRepo_AddGet(t *testing.T) {
	repo := getTestBadgerRepo(t)
	ctx := context.Background()

	post, _ := testPost(t, "p1")
	require.NoError(t, repo.Add(ctx, post))

	found, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)
	assert.Equal(t, post.Title, found.Title)
	assert.True(t, post.CreatedAt.Equal(found.CreatedAt))
}

func TestBadgerRepo_Get_NotFound(t *testing.T) {
	repo := getTestBadgerRepo(t)

	found, err := repo.Get(context.Background(), "nope")
	assert.Nil(t, found)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestBadgerRepo_Update(t *testing.T) {
	repo := getTestBadgerRepo(t)
	ctx := context.Background()

	post, _ := testPost(t, "p1")
	require.NoError(t, repo.Add(ctx, post))

	post.Title = "changed title"
	post.UpdatedAt = post.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, post))

	found, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "changed title", found.Title)
}

func TestBadgerRepo_Update_NotFound(t *testing.T) {
	repo := getTestBadgerRepo(t)

	post, _ := testPost(t, "ghost")
	assert.ErrorIs(t, repo.Update(context.Background(), post), ErrPostNotFound)
}

func TestBadgerRepo_Delete(t *testing.T) {
	repo := getTestBadgerRepo(t)
	ctx := context.Background()

	post, _ := testPost(t, "p1")
	require.NoError(t, repo.Add(ctx, post))

	require.NoError(t, repo.Delete(ctx, "p1"))

	_, err := repo.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "p1"), ErrPostNotFound)
}

func TestBadgerRepo_All(t *testing.T) {
	repo := getTestBadgerRepo(t)
	ctx := context.Background()

	posts, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	post1, _ := testPost(t, "p1")
	post2, _ := testPost(t, "p2")
	require.NoError(t, repo.Add(ctx, post1))
	require.NoError(t, repo.Add(ctx, post2))

	posts, err = repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	ids := []string{posts[0].ID, posts[1].ID}
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
}
