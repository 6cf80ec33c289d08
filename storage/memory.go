package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrDuplicatePost = errors.New("post already exists")
)

type Comment struct {
	UserID       string `json:"userId"`
	UserNickname string `json:"userNickname"`
	Text         string `json:"comentario"`
}

// Post is bound 1:1 to the chat message that carries its card.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Image        *string   `json:"image"`
	Likes        []string  `json:"likes"`
	Comments     []Comment `json:"comments"`
	UserID       string    `json:"userId"`
	UserNickname string    `json:"userNickname"`
}

func (p Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

func (p Post) clone() Post {
	c := p
	if p.Image != nil {
		img := *p.Image
		c.Image = &img
	}
	c.Likes = append(make([]string, 0, len(p.Likes)), p.Likes...)
	c.Comments = append(make([]Comment, 0, len(p.Comments)), p.Comments...)
	return c
}

// Persister loads and saves the whole post list at once.
type Persister interface {
	Load(ctx context.Context) ([]Post, error)
	Save(ctx context.Context, posts []Post) error
}

// Store keeps posts in creation order. Every mutation is followed by a Save
// of the full list while the lock is still held.
type Store struct {
	mu        sync.Mutex
	posts     []*Post
	persister Persister
	log       *slog.Logger
}

func NewStore(p Persister, log *slog.Logger) *Store {
	return &Store{persister: p, log: log}
}

// Load replaces the in-memory list with the persisted one. A missing or
// unreadable document leaves the store empty.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		s.log.Debug("starting with empty post list", slog.String("error", err.Error()))
		return
	}
	for i := range loaded {
		p := normalize(loaded[i])
		s.posts = append(s.posts, &p)
	}
}

func (s *Store) Add(ctx context.Context, p Post) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(p.ID) != nil {
		return Post{}, fmt.Errorf("add %s: %w", p.ID, ErrDuplicatePost)
	}
	np := normalize(p.clone())
	s.posts = append(s.posts, &np)
	return np.clone(), s.save(ctx)
}

func (s *Store) Get(id string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return Post{}, fmt.Errorf("get %s: %w", id, ErrPostNotFound)
	}
	return p.clone(), nil
}

// ToggleLike adds userID to the post's likes, or removes it when present.
// The returned bool reports whether the user likes the post afterwards.
func (s *Store) ToggleLike(ctx context.Context, id, userID string) (Post, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return Post{}, false, fmt.Errorf("like %s: %w", id, ErrPostNotFound)
	}

	liked := !p.LikedBy(userID)
	if liked {
		p.Likes = append(p.Likes, userID)
	} else {
		kept := p.Likes[:0]
		for _, u := range p.Likes {
			if u != userID {
				kept = append(kept, u)
			}
		}
		p.Likes = kept
	}
	return p.clone(), liked, s.save(ctx)
}

func (s *Store) AddComment(ctx context.Context, id string, c Comment) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return Post{}, fmt.Errorf("comment %s: %w", id, ErrPostNotFound)
	}
	p.Comments = append(p.Comments, c)
	return p.clone(), s.save(ctx)
}

// All returns a copy of every post in store order.
func (s *Store) All() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p.clone())
	}
	return out
}

// Resolve returns the posts for ids in the given order, skipping unknown ids.
func (s *Store) Resolve(ids []string) []Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Post, 0, len(ids))
	for _, id := range ids {
		if p := s.find(id); p != nil {
			out = append(out, p.clone())
		}
	}
	return out
}

func (s *Store) find(id string) *Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) save(ctx context.Context) error {
	snapshot := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		snapshot = append(snapshot, *p)
	}
	if err := s.persister.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	return nil
}

// normalize keeps likes and comments encoded as arrays and drops duplicate likes.
func normalize(p Post) Post {
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	likes := make([]string, 0, len(p.Likes))
	seen := make(map[string]struct{}, len(p.Likes))
	for _, id := range p.Likes {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		likes = append(likes, id)
	}
	p.Likes = likes
	return p
}
