package learning_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/domain/srs"
	"github.com/phrazzld/lingo-progress/internal/events"
	"github.com/phrazzld/lingo-progress/internal/store"
	"github.com/stretchr/testify/mock"
)

type wordKey struct {
	studentID uuid.UUID
	wordID    string
}

// memoryDB backs both fake stores. WithinTx snapshots it and restores the
// snapshot when the callback fails, which mirrors a rollback.
type memoryDB struct {
	mu     sync.Mutex
	states map[uuid.UUID]*domain.AdaptiveState
	words  map[wordKey]*domain.VocabularyProgress
	// order records creation order, as the added_seq column does
	order []wordKey

	// failWith, when set, is returned by every store call.
	failWith error
	txCount  int
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		states: make(map[uuid.UUID]*domain.AdaptiveState),
		words:  make(map[wordKey]*domain.VocabularyProgress),
	}
}

func (db *memoryDB) WithinTx(ctx context.Context, fn func(ctx context.Context, repos store.Repositories) error) error {
	db.mu.Lock()
	db.txCount++
	states := make(map[uuid.UUID]*domain.AdaptiveState, len(db.states))
	for k, v := range db.states {
		states[k] = v.Clone()
	}
	words := make(map[wordKey]*domain.VocabularyProgress, len(db.words))
	for k, v := range db.words {
		words[k] = v.Clone()
	}
	order := append([]wordKey(nil), db.order...)
	db.mu.Unlock()

	err := fn(ctx, store.Repositories{
		AdaptiveStates: &memoryStateStore{db: db},
		Vocabulary:     &memoryVocabularyStore{db: db},
	})
	if err != nil {
		db.mu.Lock()
		db.states = states
		db.words = words
		db.order = order
		db.mu.Unlock()
	}
	return err
}

func (db *memoryDB) state(studentID uuid.UUID) *domain.AdaptiveState {
	db.mu.Lock()
	defer db.mu.Unlock()
	if s, ok := db.states[studentID]; ok {
		return s.Clone()
	}
	return nil
}

func (db *memoryDB) word(studentID uuid.UUID, wordID string) *domain.VocabularyProgress {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p, ok := db.words[wordKey{studentID, wordID}]; ok {
		return p.Clone()
	}
	return nil
}

func (db *memoryDB) putWord(p *domain.VocabularyProgress) {
	db.mu.Lock()
	defer db.mu.Unlock()
	key := wordKey{p.StudentID, p.WordID}
	if _, ok := db.words[key]; !ok {
		db.order = append(db.order, key)
	}
	db.words[key] = p.Clone()
}

type memoryStateStore struct {
	db *memoryDB
}

func (s *memoryStateStore) Get(_ context.Context, studentID uuid.UUID) (*domain.AdaptiveState, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return nil, s.db.failWith
	}
	state, ok := s.db.states[studentID]
	if !ok {
		return nil, store.ErrAdaptiveStateNotFound
	}
	return state.Clone(), nil
}

func (s *memoryStateStore) GetForUpdate(ctx context.Context, studentID uuid.UUID) (*domain.AdaptiveState, error) {
	return s.Get(ctx, studentID)
}

func (s *memoryStateStore) Upsert(_ context.Context, state *domain.AdaptiveState) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return s.db.failWith
	}
	s.db.states[state.StudentID] = state.Clone()
	return nil
}

func (s *memoryStateStore) WithTx(*sql.Tx) store.AdaptiveStateStore {
	return s
}

type memoryVocabularyStore struct {
	db *memoryDB
}

func (s *memoryVocabularyStore) Create(_ context.Context, progress *domain.VocabularyProgress) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return s.db.failWith
	}
	key := wordKey{progress.StudentID, progress.WordID}
	if _, ok := s.db.words[key]; ok {
		return store.ErrVocabularyProgressExists
	}
	s.db.words[key] = progress.Clone()
	s.db.order = append(s.db.order, key)
	return nil
}

func (s *memoryVocabularyStore) Get(
	_ context.Context,
	studentID uuid.UUID,
	wordID string,
) (*domain.VocabularyProgress, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return nil, s.db.failWith
	}
	p, ok := s.db.words[wordKey{studentID, wordID}]
	if !ok {
		return nil, store.ErrVocabularyProgressNotFound
	}
	return p.Clone(), nil
}

func (s *memoryVocabularyStore) GetForUpdate(
	ctx context.Context,
	studentID uuid.UUID,
	wordID string,
) (*domain.VocabularyProgress, error) {
	return s.Get(ctx, studentID, wordID)
}

func (s *memoryVocabularyStore) Update(_ context.Context, progress *domain.VocabularyProgress) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return s.db.failWith
	}
	key := wordKey{progress.StudentID, progress.WordID}
	if _, ok := s.db.words[key]; !ok {
		return store.ErrVocabularyProgressNotFound
	}
	s.db.words[key] = progress.Clone()
	return nil
}

func (s *memoryVocabularyStore) ListByStudent(
	_ context.Context,
	studentID uuid.UUID,
) ([]*domain.VocabularyProgress, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.failWith != nil {
		return nil, s.db.failWith
	}
	result := []*domain.VocabularyProgress{}
	for _, k := range s.db.order {
		if k.studentID == studentID {
			result = append(result, s.db.words[k].Clone())
		}
	}
	return result, nil
}

func (s *memoryVocabularyStore) WithTx(*sql.Tx) store.VocabularyProgressStore {
	return s
}

// MockEventEmitter is a mock implementation of events.EventEmitter
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// recordingEmitter keeps every emitted event in order.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	types := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		types = append(types, ev.Type)
	}
	return types
}

// memoryStatsCache is an in-process StudyStatsCache keyed like the Redis one.
type memoryStatsCache struct {
	mu          sync.Mutex
	entries     map[string]memoryStatsEntry
	hits        int
	invalidated int
}

type memoryStatsEntry struct {
	stats      srs.StudyStats
	validUntil time.Time
}

func newMemoryStatsCache() *memoryStatsCache {
	return &memoryStatsCache{entries: make(map[string]memoryStatsEntry)}
}

func cacheKey(studentID uuid.UUID, now time.Time) string {
	return studentID.String() + "/" + now.Format("2006-01-02")
}

func (c *memoryStatsCache) Get(_ context.Context, studentID uuid.UUID, now time.Time) (*srs.StudyStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[cacheKey(studentID, now)]
	if !ok {
		return nil, false
	}
	if !entry.validUntil.IsZero() && !now.Before(entry.validUntil) {
		return nil, false
	}
	c.hits++
	stats := entry.stats
	return &stats, true
}

func (c *memoryStatsCache) Set(
	_ context.Context,
	studentID uuid.UUID,
	now time.Time,
	stats srs.StudyStats,
	validUntil time.Time,
) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(studentID, now)] = memoryStatsEntry{stats: stats, validUntil: validUntil}
}

func (c *memoryStatsCache) Invalidate(_ context.Context, studentID uuid.UUID, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	delete(c.entries, cacheKey(studentID, now))
}
