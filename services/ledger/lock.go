package ledgerService

import "sync"

// userLocks serializes balance-mutating work per user so that concurrent
// settlements for the same user never interleave, while different users
// proceed in parallel.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uint]*sync.Mutex)}
}

func (ul *userLocks) get(userID uint) *sync.Mutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	if m, ok := ul.locks[userID]; ok {
		return m
	}
	m := &sync.Mutex{}
	ul.locks[userID] = m
	return m
}

// withLock runs fn while holding the user's lock
func (ul *userLocks) withLock(userID uint, fn func() error) error {
	m := ul.get(userID)
	m.Lock()
	defer m.Unlock()
	return fn()
}
