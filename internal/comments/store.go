// Package comments keeps the comment thread of an annotation: saved
// comments from a backend plus unpersisted drafts restored from a cache
package comments

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

// ErrNotMounted is returned when results arrive after the panel went away
var ErrNotMounted = errors.New("comments panel is no longer mounted")

// Backend persists comments
type Backend interface {
	List(ctx context.Context, parentID string) ([]*model.Comment, error)
	Append(ctx context.Context, comments []*model.Comment) error
}

// Store is the comment thread of one annotation
type Store struct {
	backend Backend
	cache   Cache
	author  string

	mu       sync.Mutex
	parentID string
	draftKey string
	comments []*model.Comment
}

// NewStore creates a comment store. cache may be nil.
func NewStore(backend Backend, cache Cache, parentID, author string) *Store {
	return &Store{
		backend:  backend,
		cache:    cache,
		author:   author,
		parentID: parentID,
	}
}

// ParentID returns the annotation the thread belongs to
func (s *Store) ParentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parentID
}

// SetParentID switches the store to another annotation and drops the
// comments of the previous one
func (s *Store) SetParentID(parentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parentID == parentID {
		return
	}
	s.parentID = parentID
	s.comments = nil
}

// ListComments loads the saved comments of the thread. The result is only
// applied while mounted reports true; unsaved drafts are kept.
func (s *Store) ListComments(ctx context.Context, mounted func() bool) error {
	parentID := s.ParentID()
	saved, err := s.backend.List(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}
	if mounted != nil && !mounted() {
		return ErrNotMounted
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parentID != parentID {
		return nil
	}
	known := make(map[string]bool, len(saved))
	for _, c := range saved {
		known[c.ID] = true
	}
	comments := append([]*model.Comment{}, saved...)
	for _, c := range s.comments {
		if c.Unsaved && !known[c.ID] {
			comments = append(comments, c)
		}
	}
	s.comments = comments
	return nil
}

// RestoreCommentsFromCache adds the drafts cached under key to the thread
// and remembers key for drafts written later. An empty key does nothing.
// Like ListComments, drafts are only added while mounted reports true.
func (s *Store) RestoreCommentsFromCache(ctx context.Context, key string, mounted func() bool) error {
	s.mu.Lock()
	s.draftKey = key
	s.mu.Unlock()

	if key == "" || s.cache == nil {
		return nil
	}

	drafts, err := s.cache.LoadDrafts(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to restore comments: %w", err)
	}
	if mounted != nil && !mounted() {
		return ErrNotMounted
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range drafts {
		if d.ParentID != s.parentID || s.indexOf(d.ID) >= 0 {
			continue
		}
		d.Unsaved = true
		s.comments = append(s.comments, d)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, c := range s.comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddComment appends a draft by the store's author to the thread and caches it
func (s *Store) AddComment(ctx context.Context, text string) (*model.Comment, error) {
	return s.AddCommentBy(ctx, s.author, text)
}

// AddCommentBy is AddComment with an explicit author
func (s *Store) AddCommentBy(ctx context.Context, author, text string) (*model.Comment, error) {
	if text == "" {
		return nil, errors.New("empty comment")
	}
	if author == "" {
		author = s.author
	}

	s.mu.Lock()
	c := model.NewComment(s.parentID, author, text)
	s.comments = append(s.comments, c)
	drafts, key := s.unsavedLocked(), s.draftKey
	s.mu.Unlock()

	if key != "" && s.cache != nil {
		if err := s.cache.SaveDrafts(ctx, key, drafts); err != nil {
			return c, fmt.Errorf("failed to cache draft: %w", err)
		}
	}
	return c, nil
}

func (s *Store) unsavedLocked() []*model.Comment {
	var drafts []*model.Comment
	for _, c := range s.comments {
		if c.Unsaved {
			drafts = append(drafts, c)
		}
	}
	return drafts
}

// Persist writes every draft to the backend and clears the draft cache
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	drafts, key := s.unsavedLocked(), s.draftKey
	s.mu.Unlock()

	if len(drafts) == 0 {
		return nil
	}
	if err := s.backend.Append(ctx, drafts); err != nil {
		return fmt.Errorf("failed to persist comments: %w", err)
	}

	s.mu.Lock()
	for _, c := range drafts {
		c.Unsaved = false
	}
	s.mu.Unlock()

	if key != "" && s.cache != nil {
		if err := s.cache.ClearDrafts(ctx, key); err != nil {
			return fmt.Errorf("failed to clear draft cache: %w", err)
		}
	}
	return nil
}

// HasUnsaved reports whether the thread has drafts not yet persisted
func (s *Store) HasUnsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unsavedLocked()) > 0
}

// Comments returns a snapshot of the thread
func (s *Store) Comments() []*model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*model.Comment, len(s.comments))
	for i, c := range s.comments {
		cp := *c
		result[i] = &cp
	}
	return result
}
