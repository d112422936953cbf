package cmd

import "container/heap"

// evalEvent is a pending evaluation of one model at an absolute tick.
type evalEvent struct {
	time  uint64
	model int
}

// evalQueue implements heap.Interface and orders evaluations by timestamp.
// Ties are broken by lowest model index for determinism.
type evalQueue []evalEvent

func (q evalQueue) Len() int { return len(q) }
func (q evalQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].model < q[j].model
}
func (q evalQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *evalQueue) Push(x any) {
	*q = append(*q, x.(evalEvent))
}

func (q *evalQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// lockstep drives models with independent clock periods on one shared
// timeline. Each model is evaluated at every multiple of its period up to
// horizon; step is called once per distinct timestamp after every model
// due at that time has been evaluated.
func lockstep(periods []uint64, horizon uint64, eval func(model int), step func(now uint64)) {
	q := make(evalQueue, 0, len(periods))
	for idx, p := range periods {
		heap.Push(&q, evalEvent{time: p, model: idx})
	}
	for q.Len() > 0 && q[0].time <= horizon {
		now := q[0].time
		for q.Len() > 0 && q[0].time == now {
			ev := heap.Pop(&q).(evalEvent)
			eval(ev.model)
			heap.Push(&q, evalEvent{time: now + periods[ev.model], model: ev.model})
		}
		step(now)
	}
}
