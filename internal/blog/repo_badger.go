package blog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var _ postsRepo = (*BadgerRepo)(nil)

// BadgerRepo keeps posts in an embedded badger store, for running the
// service without any external infrastructure. Same key layout as the
// redis repo: JSON values under "blog:<id>".
type BadgerRepo struct {
	db *badger.DB
}

func NewBadgerRepo(db *badger.DB) *BadgerRepo {
	return &BadgerRepo{db: db}
}

func (r *BadgerRepo) Add(_ context.Context, post *Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		postJson, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("marshal post %s: %w", post.ID, err)
		}
		return txn.Set([]byte(postKey(post.ID)), postJson)
	})
}

func (r *BadgerRepo) Update(_ context.Context, post *Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := []byte(postKey(post.ID))

		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrPostNotFound
		} else if err != nil {
			return err
		}

		postJson, err := json.Marshal(post)
		if err != nil {
			return fmt.Errorf("marshal post %s: %w", post.ID, err)
		}
		return txn.Set(key, postJson)
	})
}

func (r *BadgerRepo) Get(_ context.Context, id string) (*Post, error) {
	var post Post
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(postKey(id)))
		if err == badger.ErrKeyNotFound {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &post)
		})
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *BadgerRepo) Delete(_ context.Context, id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := []byte(postKey(id))

		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrPostNotFound
		} else if err != nil {
			return err
		}

		return txn.Delete(key)
	})
}

func (r *BadgerRepo) All(_ context.Context) ([]*Post, error) {
	posts := []*Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post Post
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &post)
			})
			if err != nil {
				return fmt.Errorf("unmarshal post for key %s: %w", it.Item().Key(), err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}
