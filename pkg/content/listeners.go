package content

import (
	"sync"

	"github.com/bft-labs/loopship/pkg/payload"
)

// listeners is a set of change listeners. Notification happens outside the
// lock so listeners may read the content that changed.
type listeners struct {
	mu   sync.Mutex
	next uint64
	set  map[uint64]payload.Listener
}

func (ls *listeners) add(l payload.Listener) func() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.set == nil {
		ls.set = make(map[uint64]payload.Listener)
	}
	id := ls.next
	ls.next++
	ls.set[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			ls.mu.Lock()
			delete(ls.set, id)
			ls.mu.Unlock()
		})
	}
}

func (ls *listeners) notify() {
	ls.mu.Lock()
	snapshot := make([]payload.Listener, 0, len(ls.set))
	for _, l := range ls.set {
		snapshot = append(snapshot, l)
	}
	ls.mu.Unlock()

	for _, l := range snapshot {
		l()
	}
}

func (ls *listeners) len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.set)
}
