package blog

import (
	"sort"
	"sync"
	"time"
)

// Store is the single source of truth for all live posts.
type Store struct {
	mu       sync.RWMutex
	posts    map[int]Post
	observer Observer
}

// Option configures a Store.
type Option func(*Store)

// WithObserver sets the observer notified after each operation.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		posts:    make(map[int]Post),
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores p under p.ID, replacing any live post with that id,
// and returns p unchanged.
func (s *Store) Create(p Post) Post {
	start := time.Now()

	s.mu.Lock()
	s.posts[p.ID] = p
	s.mu.Unlock()

	s.observer.OnCreate(p.ID, time.Since(start))
	return p
}

// Insert stores p only if no live post holds p.ID.
func (s *Store) Insert(p Post) error {
	start := time.Now()

	s.mu.Lock()
	if _, exists := s.posts[p.ID]; exists {
		s.mu.Unlock()
		err := &ConflictError{ID: p.ID}
		s.observer.OnError(OpCreate, p.ID, err)
		return err
	}
	s.posts[p.ID] = p
	s.mu.Unlock()

	s.observer.OnCreate(p.ID, time.Since(start))
	return nil
}

// Get returns the live post with the given id.
func (s *Store) Get(id int) (Post, error) {
	start := time.Now()

	s.mu.RLock()
	p, ok := s.posts[id]
	s.mu.RUnlock()

	if !ok {
		err := &NotFoundError{ID: id}
		s.observer.OnError(OpRead, id, err)
		return Post{}, err
	}
	s.observer.OnRead(id, time.Since(start))
	return p, nil
}

// List returns every live post. When descending is true the result is
// sorted by ascending id; otherwise the order is unspecified.
func (s *Store) List(descending bool) []Post {
	start := time.Now()

	s.mu.RLock()
	posts := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	s.mu.RUnlock()

	if descending {
		sort.Slice(posts, func(i, j int) bool {
			return posts[i].ID < posts[j].ID
		})
	}

	s.observer.OnList(len(posts), time.Since(start))
	return posts
}

// Update replaces the live post with the given id by a new post carrying the
// same ID and CreatedAt. Missing ids are never inserted.
func (s *Store) Update(id int, title, content string, modifiedAt int64) (Post, error) {
	start := time.Now()

	s.mu.Lock()
	existing, ok := s.posts[id]
	if !ok {
		s.mu.Unlock()
		err := &NotFoundError{ID: id}
		s.observer.OnError(OpUpdate, id, err)
		return Post{}, err
	}
	updated := existing.replace(title, content, modifiedAt)
	s.posts[id] = updated
	s.mu.Unlock()

	s.observer.OnUpdate(id, time.Since(start))
	return updated, nil
}

// Delete removes the live post with the given id.
func (s *Store) Delete(id int) error {
	start := time.Now()

	s.mu.Lock()
	if _, ok := s.posts[id]; !ok {
		s.mu.Unlock()
		err := &NotFoundError{ID: id}
		s.observer.OnError(OpDelete, id, err)
		return err
	}
	delete(s.posts, id)
	s.mu.Unlock()

	s.observer.OnDelete(id, time.Since(start))
	return nil
}

// Count returns the number of live posts.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
