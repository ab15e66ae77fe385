package blog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

var _ postsRepo = (*RedisRepo)(nil)

// RedisRepo keeps posts as JSON values under "blog:<id>" keys.
type RedisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) *RedisRepo {
	return &RedisRepo{rdb: rdb}
}

func (r *RedisRepo) Add(ctx context.Context, post *Post) error {
	return r.set(ctx, post)
}

func (r *RedisRepo) Update(ctx context.Context, post *Post) error {
	exists, err := r.rdb.Exists(ctx, postKey(post.ID)).Result()
	if err != nil {
		return fmt.Errorf("check post %s: %w", post.ID, err)
	}
	if exists == 0 {
		return ErrPostNotFound
	}
	return r.set(ctx, post)
}

func (r *RedisRepo) set(ctx context.Context, post *Post) error {
	postJson, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post %s: %w", post.ID, err)
	}
	if err := r.rdb.Set(ctx, postKey(post.ID), postJson, 0).Err(); err != nil {
		return fmt.Errorf("set post %s: %w", post.ID, err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, id string) (*Post, error) {
	postJson, err := r.rdb.Get(ctx, postKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}

	var post Post
	if err := json.Unmarshal(postJson, &post); err != nil {
		return nil, fmt.Errorf("unmarshal post %s: %w", id, err)
	}
	return &post, nil
}

func (r *RedisRepo) Delete(ctx context.Context, id string) error {
	removed, err := r.rdb.Del(ctx, postKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if removed == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *RedisRepo) All(ctx context.Context) ([]*Post, error) {
	var keys []string
	var cursor uint64
	for {
		batch, nextCursor, err := r.rdb.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan post keys: %w", err)
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return []*Post{}, nil
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget posts: %w", err)
	}

	posts := make([]*Post, 0, len(values))
	for i, value := range values {
		// a key can expire or vanish between SCAN and MGET
		if value == nil {
			continue
		}
		postJson, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected value type for key %s", keys[i])
		}
		var post Post
		if err := json.Unmarshal([]byte(postJson), &post); err != nil {
			return nil, fmt.Errorf("unmarshal post for key %s: %w", keys[i], err)
		}
		posts = append(posts, &post)
	}

	return posts, nil
}
