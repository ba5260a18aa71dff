package ui

import (
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/tui-annotator/internal/history"
)

// SearchCandidate is one searchable row: a region id and its text
type SearchCandidate struct {
	ID   string
	Text string
}

// FuzzyMatch returns the ids of the candidates matching query, best match
// first. Equal matches keep candidate order.
func FuzzyMatch(query string, candidates []SearchCandidate) []string {
	if query == "" {
		return nil
	}
	targets := make([]string, len(candidates))
	for i, c := range candidates {
		targets[i] = c.Text
	}

	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	ids := make([]string, len(ranks))
	for i, r := range ranks {
		ids[i] = candidates[r.OriginalIndex].ID
	}
	return ids
}

// Search is the "/" prompt. Matches update while typing; after Enter they
// stay available for n and N.
type Search struct {
	*LineInput
	matches []string
	current int
}

// NewSearch creates a search prompt with in-memory history
func NewSearch() *Search {
	return &Search{LineInput: NewLineInput("/", NewHistory(50))}
}

// NewSearchWithHistory creates a search prompt whose history is kept in
// search.toml
func NewSearchWithHistory(manager *history.Manager) *Search {
	return &Search{LineInput: NewLineInput("/", NewPersistentHistory(50, manager, "search.toml"))}
}

// HandleKey edits the query and refreshes matches. It returns true when the
// prompt closed; Escape also drops the matches.
func (s *Search) HandleKey(ev *tcell.EventKey, candidates []SearchCandidate) bool {
	query, done := s.LineInput.HandleKey(ev)
	if !done {
		query = s.Value()
	}
	s.matches = FuzzyMatch(query, candidates)
	s.current = 0
	return done
}

// Current returns the id of the current match, "" when there is none
func (s *Search) Current() string {
	if len(s.matches) == 0 {
		return ""
	}
	return s.matches[s.current]
}

// Next moves to the following match, wrapping around
func (s *Search) Next() string {
	if len(s.matches) == 0 {
		return ""
	}
	s.current = (s.current + 1) % len(s.matches)
	return s.matches[s.current]
}

// Previous moves to the preceding match, wrapping around
func (s *Search) Previous() string {
	if len(s.matches) == 0 {
		return ""
	}
	s.current = (s.current - 1 + len(s.matches)) % len(s.matches)
	return s.matches[s.current]
}

// MatchCount returns the number of matches
func (s *Search) MatchCount() int {
	return len(s.matches)
}
