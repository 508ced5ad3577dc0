package store

import (
	"strings"
	"sync"
	"time"

	"shopstream/app/models"
	"shopstream/pkg/blob"
	"shopstream/pkg/collection"
	"shopstream/pkg/debounce"
	"shopstream/pkg/logger"
)

const (
	recentBlobKey     = "recent-searches"
	recentBlobVersion = 1

	maxRecentSearches = 5

	// Delay between a keystroke and the filter pass, so intermediate
	// keystrokes do not each trigger one.
	searchDebounce = 300 * time.Millisecond
)

// SearchStore owns transient search state: the current query, its
// results, and the persisted recent-search history.
type SearchStore struct {
	blobs blob.Store

	mu        sync.RWMutex
	query     string
	results   []models.Product
	searching bool
	recent    []string
}

// NewSearch returns a search store, restoring persisted recent
// searches.
func NewSearch(blobs blob.Store) *SearchStore {
	s := &SearchStore{blobs: blobs}

	var saved []string
	ok, err := blobs.Get(recentBlobKey, recentBlobVersion, &saved)
	if err != nil {
		logger.Warn("recent searches restore failed", "error", err)
	} else if ok {
		s.recent = saved
	}
	return s
}

// SetQuery records the current query string.
func (s *SearchStore) SetQuery(q string) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
}

// Query returns the current query string.
func (s *SearchStore) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetResults stores the latest filter pass output. Results are derived
// state and never persisted.
func (s *SearchStore) SetResults(results []models.Product) {
	s.mu.Lock()
	s.results = results
	s.mu.Unlock()
}

// Results returns the latest filter pass output.
func (s *SearchStore) Results() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// SetSearching flags an in-flight filter pass.
func (s *SearchStore) SetSearching(v bool) {
	s.mu.Lock()
	s.searching = v
	s.mu.Unlock()
}

// Searching reports whether a filter pass is in flight.
func (s *SearchStore) Searching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searching
}

// AddRecent pushes term to the front of the history, removing any prior
// occurrence and truncating to the five most recent. Blank terms are
// ignored. The list is persisted on every change.
func (s *SearchStore) AddRecent(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rest := collection.Reject(s.recent, func(t string) bool { return t == term })
	s.recent = collection.Take(append([]string{term}, rest...), maxRecentSearches)
	s.persistRecent()
}

// Recent returns the recent-search history, most recent first.
func (s *SearchStore) Recent() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

// ClearRecent empties the history and its persisted copy.
func (s *SearchStore) ClearRecent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = nil
	if err := s.blobs.Delete(recentBlobKey); err != nil {
		logger.Warn("recent searches clear failed", "error", err)
	}
}

// persistRecent writes the history; callers hold the lock.
func (s *SearchStore) persistRecent() {
	if err := s.blobs.Put(recentBlobKey, recentBlobVersion, s.recent); err != nil {
		logger.Warn("recent searches persist failed", "error", err)
	}
}

// Match filters products whose title or category contains the query as
// a case-insensitive substring. A pure function: no server round-trip,
// no store mutation.
func Match(products []models.Product, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return collection.Filter(products, func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Category), q)
	})
}

// Searcher debounces keystrokes into filter passes against the catalog
// and writes the outcome back into the search store.
type Searcher struct {
	search    *SearchStore
	catalog   *CatalogStore
	debouncer *debounce.Debouncer
}

// NewSearcher wires a debounced search pipeline over the two stores.
func NewSearcher(search *SearchStore, catalog *CatalogStore) *Searcher {
	return &Searcher{
		search:    search,
		catalog:   catalog,
		debouncer: debounce.New(searchDebounce),
	}
}

// Type records a keystroke. The filter pass runs once the keystrokes
// pause for the debounce window; only the last query typed is
// evaluated.
func (s *Searcher) Type(query string) {
	s.search.SetQuery(query)
	s.search.SetSearching(true)

	s.debouncer.Call(func() {
		s.search.SetResults(Match(s.catalog.Products(), query))
		s.search.SetSearching(false)
	})
}

// Stop cancels any pending filter pass.
func (s *Searcher) Stop() {
	s.debouncer.Stop()
}
