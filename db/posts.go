package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"publicaciones/storage"
)

// PostStore persists the post list to the posts table. Each Save replaces all
// rows in one transaction, so the table always mirrors the in-memory list.
type PostStore struct {
	db *sql.DB
}

func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

func (s *PostStore) Load(ctx context.Context) ([]storage.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM posts ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []storage.Post
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var p storage.Post
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostStore) Save(ctx context.Context, posts []storage.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	for i, p := range posts {
		doc, err := json.Marshal(p)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO posts (position, id, doc) VALUES ($1, $2, $3)`,
			i, p.ID, doc,
		)
		if err != nil {
			return fmt.Errorf("insert post %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}
