package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

// CommentsPath returns the comment thread file stored next to a task file
func CommentsPath(taskPath string) string {
	ext := filepath.Ext(taskPath)
	return strings.TrimSuffix(taskPath, ext) + ".comments.json"
}

// CommentFile persists the comments of every annotation of a task in one
// JSON file
type CommentFile struct {
	FilePath string
	mu       sync.Mutex
}

// NewCommentFile creates a comment file store
func NewCommentFile(filePath string) *CommentFile {
	return &CommentFile{FilePath: filePath}
}

func (f *CommentFile) readAll() ([]*model.Comment, error) {
	data, err := os.ReadFile(f.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	var comments []*model.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("failed to parse comments: %w", err)
	}
	return comments, nil
}

// List returns the comments of the annotation parentID, oldest first
func (f *CommentFile) List(ctx context.Context, parentID string) ([]*model.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.readAll()
	if err != nil {
		return nil, err
	}
	var result []*model.Comment
	for _, c := range all {
		if c.ParentID == parentID {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Append adds comments to the file, replacing comments with the same id
func (f *CommentFile) Append(ctx context.Context, comments []*model.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.readAll()
	if err != nil {
		return err
	}
	index := make(map[string]int, len(all))
	for i, c := range all {
		index[c.ID] = i
	}
	for _, c := range comments {
		if i, ok := index[c.ID]; ok {
			all[i] = c
			continue
		}
		index[c.ID] = len(all)
		all = append(all, c)
	}

	if dir := filepath.Dir(f.FilePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comments: %w", err)
	}
	if err := os.WriteFile(f.FilePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write comments: %w", err)
	}
	return nil
}
