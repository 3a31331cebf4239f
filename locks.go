package auth

import "sync"

// userLocks serializes registry writes per user. Concurrent logins or
// logouts for the same account queue behind each other so no session entry
// is lost to a read-modify-write race; distinct accounts never contend.
// Entries are reference counted and dropped once the last holder unlocks,
// so the table stays bounded by in-flight operations.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// Lock acquires the per-user mutex and returns its release func.
func (l *userLocks) Lock(userID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*userLock)
	}
	entry, ok := l.locks[userID]
	if !ok {
		entry = &userLock{}
		l.locks[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
