package model

import (
	"fmt"
	"math/rand"
	"time"
)

// Comment is a single entry of the comment thread attached to an annotation
type Comment struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Unsaved   bool      `json:"-"`
}

// NewComment creates an unsaved comment for the annotation parentID
func NewComment(parentID, author, text string) *Comment {
	now := time.Now()
	return &Comment{
		ID:        fmt.Sprintf("comment_%s_%08x", now.Format("20060102150405"), rand.Uint32()),
		ParentID:  parentID,
		Text:      text,
		Author:    author,
		CreatedAt: now,
		Unsaved:   true,
	}
}
