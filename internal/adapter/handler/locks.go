package handler

import "sync"

// UserLocks serializes mutating operations per user. TryAcquire is
// non-blocking so a concurrent request gets an immediate busy answer
// instead of queueing behind a long acquisition.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.Mutex)}
}

// TryAcquire attempts to take the user's lock. On success it returns a
// release function and true, otherwise nil and false.
func (l *UserLocks) TryAcquire(userID string) (func(), bool) {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, false
	}
	return m.Unlock, true
}
