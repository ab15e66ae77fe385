package blog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPost(t *testing.T, id string) (*Post, []byte) {
	t.Helper()
	createdAt := time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC)
	post := &Post{
		ID:        id,
		Title:     "title of " + id,
		Content:   "content of " + id,
		Images:    []string{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	postJson, err := json.Marshal(post)
	require.NoError(t, err)
	return post, postJson
}

func TestRedisRepo_Add(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepo(db)

	post, postJson := testPost(t, "p1")
	mock.ExpectSet("blog:p1", postJson, 0).SetVal("OK")

	require.NoError(t, repo.Add(context.Background(), post))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepo_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepo(db)

	post, postJson := testPost(t, "p1")
	mock.ExpectGet("blog:p1").SetVal(string(postJson))

	found, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, post, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepo_Get_NotFound(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepo(db)

	mock.ExpectGet("blog:nope").RedisNil()

	found, err := repo.Get(context.Background(), "nope")
	assert.Nil(t, found)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestRedisRepo_Update(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepo(db)

	post, postJson := testPost(t, "p1")
	mock.ExpectExists("blog:p1").SetVal(1)
	mock.ExpectSet("blog:p1", postJson, 0).SetVal("OK")

	require.NoError(t, repo.Update(context.Background(), post))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepo_Update_NotFound(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepo(db)

	post, _ := testPost(t, "p1")
	mock.ExpectExists("blog:p1").SetVal(0)

	assert.ErrorIs(t, repo.Update(context.Background(), post), ErrPostNotFound)
}

func TestRedisRepo_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepo(db)

	mock.ExpectDel("blog:p1").SetVal(1)
	require.NoError(t, repo.Delete(context.Background(), "p1"))

	mock.ExpectDel("blog:nope").SetVal(0)
	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), ErrPostNotFound)
}

func TestRedisRepo_All(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepo(db)

	post1, post1Json := testPost(t, "p1")
	post2, post2Json := testPost(t, "p2")

	mock.ExpectScan(0, "blog:*", 100).SetVal([]string{"blog:p1", "blog:p2"}, 0)
	mock.ExpectMGet("blog:p1", "blog:p2").SetVal([]interface{}{
		string(post1Json),
		string(post2Json),
	})

	posts, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, post1, posts[0])
	assert.Equal(t, post2, posts[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepo_All_Empty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepo(db)

	mock.ExpectScan(0, "blog:*", 100).SetVal([]string{}, 0)

	posts, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestRedisRepo_All_VanishedKeySkipped(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepo(db)

	post1, post1Json := testPost(t, "p1")

	mock.ExpectScan(0, "blog:*", 100).SetVal([]string{"blog:p1", "blog:gone"}, 0)
	mock.ExpectMGet("blog:p1", "blog:gone").SetVal([]interface{}{
		string(post1Json),
		nil,
	})

	posts, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post1, posts[0])
}
