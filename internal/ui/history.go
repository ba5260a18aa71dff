package ui

import (
	"log"

	"github.com/pstuifzand/tui-annotator/internal/history"
)

// History is a bounded list of previous inputs with up/down navigation
type History struct {
	entries []string
	max     int
	index   int // -1 when not navigating
	pending string

	manager *history.Manager
	name    string
}

// NewHistory creates an in-memory history keeping at most max entries
func NewHistory(max int) *History {
	return &History{max: max, index: -1}
}

// NewPersistentHistory loads the history file name from manager; every Add
// writes it back
func NewPersistentHistory(max int, manager *history.Manager, name string) *History {
	h := NewHistory(max)
	h.manager = manager
	h.name = name

	entries, err := manager.Load(name)
	if err != nil {
		log.Printf("history %s: %v", name, err)
	}
	if len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	h.entries = entries
	return h
}

// Add appends entry unless it is empty or repeats the last entry
func (h *History) Add(entry string) {
	h.Reset()
	if entry == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry) {
		return
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	if h.manager != nil {
		if err := h.manager.Save(h.name, h.entries); err != nil {
			log.Printf("history %s: %v", h.name, err)
		}
	}
}

// Previous steps back. current is remembered on the first step so Next can
// return to it.
func (h *History) Previous(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.index < 0:
		h.pending = current
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	}
	return h.entries[h.index], true
}

// Next steps forward, ending at the input that was typed before navigating
func (h *History) Next() (string, bool) {
	if h.index < 0 {
		return "", false
	}
	h.index++
	if h.index >= len(h.entries) {
		pending := h.pending
		h.Reset()
		return pending, true
	}
	return h.entries[h.index], true
}

// Reset stops navigating
func (h *History) Reset() {
	h.index = -1
	h.pending = ""
}

// Entries returns a copy of the entries, oldest first
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
