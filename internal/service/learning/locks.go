package learning

import (
	"sync"

	"github.com/google/uuid"
)

// studentLocks is a keyed mutex: one lock per student, created on demand and
// dropped once no goroutine holds or waits for it.
type studentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*studentLock
}

type studentLock struct {
	mu   sync.Mutex
	refs int
}

func newStudentLocks() *studentLocks {
	return &studentLocks{locks: make(map[uuid.UUID]*studentLock)}
}

// lock blocks until the student's lock is held and returns its release func.
func (l *studentLocks) lock(studentID uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[studentID]
	if !ok {
		entry = &studentLock{}
		l.locks[studentID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, studentID)
		}
		l.mu.Unlock()
	}
}

// size reports how many students currently have a lock entry.
func (l *studentLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
