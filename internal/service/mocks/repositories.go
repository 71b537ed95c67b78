package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/repository"
)

// MockLinkRepository implements repository.LinkRepository for testing.
// Failure fields let tests script conflicts and store errors.
type MockLinkRepository struct {
	mu      sync.RWMutex
	records map[string]*models.ShortLinkRecord

	// InsertConflicts forces that many ErrIDExists results before
	// inserts start succeeding.
	InsertConflicts int
	// InsertErr, when set, fails every insert with a non-conflict error.
	InsertErr error
	// LookupErr, when set, fails every lookup with a non-not-found error.
	LookupErr error
	// IncrementErr, when set, fails every click increment.
	IncrementErr error

	InsertCalls    int
	IncrementCalls int
}

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		records: make(map[string]*models.ShortLinkRecord),
	}
}

func (m *MockLinkRepository) InsertIfAbsent(ctx context.Context, rec *models.ShortLinkRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls++

	if m.InsertErr != nil {
		return m.InsertErr
	}
	if m.InsertConflicts > 0 {
		m.InsertConflicts--
		return repository.ErrIDExists
	}
	if _, exists := m.records[rec.ShortID]; exists {
		return repository.ErrIDExists
	}

	stored := *rec
	m.records[rec.ShortID] = &stored
	return nil
}

func (m *MockLinkRepository) GetLatestByShortID(ctx context.Context, shortID string) (*models.ShortLinkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	rec, exists := m.records[shortID]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *rec
	return &copied, nil
}

func (m *MockLinkRepository) IncrementClicks(ctx context.Context, shortID string, createdAt, now int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IncrementCalls++

	if m.IncrementErr != nil {
		return m.IncrementErr
	}
	rec, exists := m.records[shortID]
	if !exists || rec.CreatedAt != createdAt {
		return repository.ErrLinkNotFound
	}
	rec.Clicks++
	rec.LastAccessed = now
	return nil
}

// Seed stores a record directly, bypassing the conditional insert.
func (m *MockLinkRepository) Seed(rec *models.ShortLinkRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *rec
	m.records[rec.ShortID] = &stored
}

// Record returns the stored record for assertions.
func (m *MockLinkRepository) Record(shortID string) (*models.ShortLinkRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[shortID]
	if !ok {
		return nil, false
	}
	copied := *rec
	return &copied, true
}

func (m *MockLinkRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// MockCacheRepository implements repository.CacheRepository for testing.
type MockCacheRepository struct {
	mu    sync.RWMutex
	cache map[string]*models.ShortLinkRecord

	// GetErr and SetErr, when set, fail the respective call.
	GetErr error
	SetErr error
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		cache: make(map[string]*models.ShortLinkRecord),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, shortID string) (*models.ShortLinkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	rec, exists := m.cache[shortID]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *rec
	return &copied, nil
}

func (m *MockCacheRepository) Set(ctx context.Context, shortID string, rec *models.ShortLinkRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	stored := *rec
	m.cache[shortID] = &stored
	return nil
}

func (m *MockCacheRepository) Contains(shortID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cache[shortID]
	return ok
}
