package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanupQueue_DrainLIFO(t *testing.T) {
	var order []int
	q := &cleanupQueue{}
	for i := 0; i < 4; i++ {
		i := i
		q.push(ReleaseFunc(func() { order = append(order, i) }))
	}
	assert.Equal(t, 4, q.size())

	n := q.drain()

	assert.Equal(t, 4, n)
	assert.Equal(t, []int{3, 2, 1, 0}, order)
	assert.Equal(t, 0, q.size())
	assert.Equal(t, 0, q.drain(), "draining an empty queue is a no-op")
}
