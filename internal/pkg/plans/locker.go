package plans

import "sync"

// userLocker hands out one mutex per user ID so plan transitions serialize
// per user while staying fully independent across users. Mutexes live for
// the life of the process.
type userLocker struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newUserLocker() *userLocker {
	return &userLocker{locks: make(map[uint]*sync.Mutex)}
}

// lock acquires the mutex for the given user and returns its unlock func.
func (l *userLocker) lock(userID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
