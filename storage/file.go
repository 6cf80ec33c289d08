package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileStore keeps the post list as one JSON array on disk. Save overwrites the
// file in place.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load(_ context.Context) ([]Post, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return posts, nil
}

func (f *FileStore) Save(_ context.Context, posts []Post) error {
	if posts == nil {
		posts = []Post{}
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o644)
}
