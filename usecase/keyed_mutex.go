package usecase

import "sync"

// keyedMutex serializes mutations per group name so concurrent join/leave on
// the same group cannot lose a read-modify-write.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (km *keyedMutex) Lock(key string) func() {
	km.mu.Lock()
	lock, ok := km.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		km.locks[key] = lock
	}
	km.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// LockPair acquires both keys in sorted order so two renames crossing between
// the same pair of names cannot deadlock.
func (km *keyedMutex) LockPair(a, b string) func() {
	if a == b {
		return km.Lock(a)
	}
	if b < a {
		a, b = b, a
	}
	unlockA := km.Lock(a)
	unlockB := km.Lock(b)
	return func() {
		unlockB()
		unlockA()
	}
}
