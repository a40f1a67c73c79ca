package tracker

import "sync"

// ProgressUpdate pairs a ProgressEvent with the run that produced it so
// UI subscribers can correlate a feed with the run they joined during.
type ProgressUpdate struct {
	RunID string        `json:"runId"`
	Event ProgressEvent `json:"event"`
}

// ProgressBus fans ProgressUpdates out to subscribers. Delivery is
// best-effort: a subscriber whose buffer is full misses the update rather
// than stalling the run. Updates a subscriber does receive arrive in
// publish order.
type ProgressBus struct {
	mu   sync.Mutex
	subs map[int]chan ProgressUpdate
	next int
}

func NewProgressBus() *ProgressBus {
	return &ProgressBus{subs: make(map[int]chan ProgressUpdate)}
}

// Subscribe registers a buffered subscription. The returned cancel func
// is idempotent and closes the channel.
func (b *ProgressBus) Subscribe(buffer int) (<-chan ProgressUpdate, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan ProgressUpdate, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *ProgressBus) Publish(u ProgressUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- u:
		default:
			// Slow subscriber; drop rather than block the read loop.
		}
	}
}
