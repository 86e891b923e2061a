package testutil

import (
	"context"
	"sync"
	"time"
)

// MockRedisClient keeps locks in memory and ignores their ttl.
type MockRedisClient struct {
	mutex sync.Mutex
	locks map[string]string
}

func (m *MockRedisClient) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.locks == nil {
		m.locks = make(map[string]string)
	}

	if _, ok := m.locks[key]; ok {
		return false, nil
	}

	m.locks[key] = owner
	return true, nil
}

func (m *MockRedisClient) Unlock(ctx context.Context, key, owner string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.locks[key] == owner {
		delete(m.locks, key)
	}

	return nil
}
