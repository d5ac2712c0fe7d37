// FILE: ultralog/queue.go
package ultralog

import "sync"

// pendingQueue is an unbounded FIFO of formatted records. Any number of
// producers may push; the batch writer and Close are the only consumers and
// are serialized by Logger.drainMu.
type pendingQueue struct {
	mu    sync.Mutex
	items [][]byte
}

// push appends a record without blocking on I/O
func (q *pendingQueue) push(record []byte) {
	q.mu.Lock()
	q.items = append(q.items, record)
	q.mu.Unlock()
}

// popBatch removes up to limit records from the head
func (q *pendingQueue) popBatch(limit int) [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	if n == 0 {
		return nil
	}
	if n > limit {
		n = limit
	}

	batch := make([][]byte, n)
	copy(batch, q.items[:n])
	clear(q.items[:n])
	q.items = q.items[n:]
	if len(q.items) == 0 {
		// Release the backing array once drained
		q.items = nil
	}
	return batch
}

// discard empties the queue and returns how many records were dropped
func (q *pendingQueue) discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	q.items = nil
	return n
}

func (q *pendingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
