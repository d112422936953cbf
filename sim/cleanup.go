package sim

// Releaser is a dynamically-scoped simulation object whose lifetime must
// not outlive the model. Release is called exactly once.
type Releaser interface {
	Release()
}

// ReleaseFunc adapts an ordinary function to the Releaser interface.
type ReleaseFunc func()

// Release calls f().
func (f ReleaseFunc) Release() { f() }

// cleanupQueue is an ordered ownership list drained last-in first-out.
type cleanupQueue struct {
	items []Releaser
}

func (q *cleanupQueue) push(r Releaser) {
	q.items = append(q.items, r)
}

func (q *cleanupQueue) size() int {
	return len(q.items)
}

// drain releases every queued object, most recently registered first, and
// empties the queue. Each object is detached before Release runs, so an
// object is never released twice even if Release registers new work.
func (q *cleanupQueue) drain() int {
	n := 0
	for len(q.items) > 0 {
		last := len(q.items) - 1
		r := q.items[last]
		q.items[last] = nil
		q.items = q.items[:last]
		r.Release()
		n++
	}
	q.items = nil
	return n
}
