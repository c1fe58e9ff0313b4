package id

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Sequence hands out increasing post ids. The zero value starts at 0;
// use NewSequence to pick the first id.
type Sequence struct {
	next atomic.Int64
}

// NewSequence returns a Sequence whose first Next call returns start.
func NewSequence(start int) *Sequence {
	s := &Sequence{}
	s.next.Store(int64(start))
	return s
}

// Next allocates the next id.
func (s *Sequence) Next() int {
	return int(s.next.Add(1) - 1)
}

// Observe records that id is in use so Next never returns it or anything
// below it.
func (s *Sequence) Observe(id int) {
	want := int64(id) + 1
	for {
		cur := s.next.Load()
		if cur >= want {
			return
		}
		if s.next.CompareAndSwap(cur, want) {
			return
		}
	}
}

// RequestID generates a UUID v4 string for request correlation.
func RequestID() string {
	return uuid.NewString()
}
