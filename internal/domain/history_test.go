package domain

import (
	"testing"

	"github.com/matryer/is"
)

func TestHistoryPushPop(t *testing.T) {
	is := is.New(t)
	h := NewHistory(3)

	_, ok := h.Pop()
	is.True(!ok)

	for i := 1; i <= 3; i++ {
		h.Push(Snapshot{Score: i})
	}
	is.Equal(h.Len(), 3)

	s, ok := h.Pop()
	is.True(ok)
	is.Equal(s.Score, 3)
	is.Equal(h.Len(), 2)
}

func TestHistoryEvictsOldest(t *testing.T) {
	is := is.New(t)
	h := NewHistory(3)

	for i := 1; i <= 5; i++ {
		h.Push(Snapshot{Score: i})
	}
	is.Equal(h.Len(), 3)

	// 新しい順に 5, 4, 3 が残る
	for _, want := range []int{5, 4, 3} {
		s, ok := h.Pop()
		is.True(ok)
		is.Equal(s.Score, want)
	}
	_, ok := h.Pop()
	is.True(!ok)
}

func TestHistoryInterleaved(t *testing.T) {
	is := is.New(t)
	h := NewHistory(2)

	h.Push(Snapshot{Score: 1})
	h.Push(Snapshot{Score: 2})
	h.Pop()
	h.Push(Snapshot{Score: 3})
	h.Push(Snapshot{Score: 4})

	s, _ := h.Pop()
	is.Equal(s.Score, 4)
	s, _ = h.Pop()
	is.Equal(s.Score, 3)
	is.Equal(h.Len(), 0)
}

func TestHistoryDefaults(t *testing.T) {
	is := is.New(t)

	h := NewHistory(0)
	is.Equal(h.Cap(), DefaultHistoryCapacity)

	h.Push(Snapshot{Score: 1})
	h.Clear()
	is.Equal(h.Len(), 0)
}
