package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sangkips/pharmabill-api/internal/domain/entity"
	"github.com/sangkips/pharmabill-api/internal/domain/repository"
)

// DefaultSuggestionDebounce is the quiet period before a lookup goes out
const DefaultSuggestionDebounce = 350 * time.Millisecond

// SuggestionState is the suggestion list currently shown to the operator
type SuggestionState struct {
	Seq        uint64                     `json:"seq"`
	Query      string                     `json:"query"`
	Candidates []entity.MedicineCandidate `json:"candidates"`
}

// SuggestionResult is the outcome of one Lookup call. A superseded result
// was overtaken by a newer lookup and must not be displayed.
type SuggestionResult struct {
	SuggestionState
	Superseded bool `json:"superseded"`
}

// SuggestionFetcher debounces medicine name lookups. Every call gets a
// sequence number; only the newest call may publish its candidates.
type SuggestionFetcher struct {
	debounce time.Duration

	mu      sync.Mutex
	seq     uint64
	pending chan struct{}
	latest  SuggestionState
}

// NewSuggestionFetcher creates a fetcher with the given quiet period
func NewSuggestionFetcher(debounce time.Duration) *SuggestionFetcher {
	if debounce <= 0 {
		debounce = DefaultSuggestionDebounce
	}
	return &SuggestionFetcher{
		debounce: debounce,
		latest:   SuggestionState{Candidates: []entity.MedicineCandidate{}},
	}
}

// Lookup waits for the quiet period and then asks source for medicines
// matching query. Queries of at most one character clear the list at once.
// Lookup failures produce an empty list rather than an error.
func (f *SuggestionFetcher) Lookup(ctx context.Context, source repository.MedicineRepository, query string) SuggestionResult {
	trimmed := strings.TrimSpace(query)

	f.mu.Lock()
	f.seq++
	seq := f.seq
	if f.pending != nil {
		close(f.pending)
		f.pending = nil
	}

	if utf8.RuneCountInString(trimmed) <= 1 {
		state := f.publishLocked(seq, trimmed, nil)
		f.mu.Unlock()
		return SuggestionResult{SuggestionState: state}
	}

	superseded := make(chan struct{})
	f.pending = superseded
	f.mu.Unlock()

	timer := time.NewTimer(f.debounce)
	defer timer.Stop()

	select {
	case <-superseded:
		return f.superseded(seq, trimmed)
	case <-ctx.Done():
		f.release(superseded)
		return f.superseded(seq, trimmed)
	case <-timer.C:
	}

	if !f.release(superseded) {
		return f.superseded(seq, trimmed)
	}

	candidates, err := source.Recommend(ctx, trimmed)
	if err != nil {
		log.Printf("Suggestion lookup failed (query %q): %v", trimmed, err)
		candidates = nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq {
		return SuggestionResult{SuggestionState: SuggestionState{Seq: seq, Query: trimmed}, Superseded: true}
	}
	return SuggestionResult{SuggestionState: f.publishLocked(seq, trimmed, candidates)}
}

// Latest returns the displayed suggestion state
func (f *SuggestionFetcher) Latest() SuggestionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneSuggestions(f.latest)
}

// release drops the pending marker if it still belongs to this call and
// reports whether the call is still the newest one.
func (f *SuggestionFetcher) release(ch chan struct{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == ch {
		f.pending = nil
		return true
	}
	return false
}

func (f *SuggestionFetcher) superseded(seq uint64, query string) SuggestionResult {
	return SuggestionResult{
		SuggestionState: SuggestionState{Seq: seq, Query: query},
		Superseded:      true,
	}
}

// publishLocked replaces the displayed state when seq is newer. Callers hold f.mu.
func (f *SuggestionFetcher) publishLocked(seq uint64, query string, candidates []entity.MedicineCandidate) SuggestionState {
	if candidates == nil {
		candidates = []entity.MedicineCandidate{}
	}
	if seq > f.latest.Seq {
		f.latest = SuggestionState{Seq: seq, Query: query, Candidates: candidates}
	}
	return cloneSuggestions(f.latest)
}

func cloneSuggestions(s SuggestionState) SuggestionState {
	items := make([]entity.MedicineCandidate, len(s.Candidates))
	copy(items, s.Candidates)
	s.Candidates = items
	return s
}
