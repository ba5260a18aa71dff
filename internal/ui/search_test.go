package ui

import (
	"reflect"
	"testing"

	"github.com/gdamore/tcell/v2"
)

var planetCandidates = []SearchCandidate{
	{ID: "r1", Text: "Planet r1"},
	{ID: "r2", Text: "Moonwalker r2"},
	{ID: "r3", Text: "Moonwalker r3"},
	{ID: "p1", Text: "Planet p1"},
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"zzz", []string{}},
		{"moon", []string{"r2", "r3"}},
		{"PLANET", []string{"r1", "p1"}},
		{"mwr3", []string{"r3"}},
	}
	for _, tt := range tests {
		got := FuzzyMatch(tt.query, planetCandidates)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FuzzyMatch(%q) = %v, expected %v", tt.query, got, tt.want)
		}
	}
}

func TestSearchNavigation(t *testing.T) {
	s := NewSearch()
	s.Start("")
	for _, r := range "moon" {
		if s.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone), planetCandidates) {
			t.Fatal("Expected typing to keep the prompt open")
		}
	}
	if s.MatchCount() != 2 || s.Current() != "r2" {
		t.Fatalf("Expected live matches, got %d current %q", s.MatchCount(), s.Current())
	}

	if !s.HandleKey(keyEvent(tcell.KeyEnter), planetCandidates) {
		t.Fatal("Expected Enter to close the prompt")
	}
	if s.IsActive() || s.MatchCount() != 2 {
		t.Errorf("Expected matches to survive Enter")
	}

	if got := s.Next(); got != "r3" {
		t.Errorf("Expected r3, got %q", got)
	}
	if got := s.Next(); got != "r2" {
		t.Errorf("Expected wrap to r2, got %q", got)
	}
	if got := s.Previous(); got != "r3" {
		t.Errorf("Expected wrap back to r3, got %q", got)
	}
}

func TestSearchEscapeClearsMatches(t *testing.T) {
	s := NewSearch()
	s.Start("planet")
	s.HandleKey(keyEvent(tcell.KeyEscape), planetCandidates)
	if s.MatchCount() != 0 || s.Current() != "" || s.Next() != "" || s.Previous() != "" {
		t.Errorf("Expected no matches after Escape")
	}
}
