package models

import (
	"container/heap"
)

// Runway is a runway slot in the queue: its 0-based index and the time, in
// minutes, at which it next becomes free.
type Runway struct {
	Index  int
	FreeAt float64
}

// RunwayQueue is a priority queue of runways ordered by free time, with ties
// going to the lowest index.
type RunwayQueue struct {
	runways []*Runway
}

// runwayHeap implements heap.Interface and holds Runways
type runwayHeap []*Runway

func (h runwayHeap) Len() int { return len(h) }
func (h runwayHeap) Less(i, j int) bool {
	if h[i].FreeAt != h[j].FreeAt {
		return h[i].FreeAt < h[j].FreeAt
	}
	return h[i].Index < h[j].Index
}
func (h runwayHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *runwayHeap) Push(x interface{}) {
	*h = append(*h, x.(*Runway))
}

func (h *runwayHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// NewRunwayQueue creates a queue of count runways, all free at time 0.
func NewRunwayQueue(count int) *RunwayQueue {
	rq := &RunwayQueue{runways: make([]*Runway, 0, count)}
	for i := 0; i < count; i++ {
		rq.runways = append(rq.runways, &Runway{Index: i})
	}
	heap.Init((*runwayHeap)(&rq.runways))
	return rq
}

// Enqueue returns a runway to the queue
func (rq *RunwayQueue) Enqueue(runway *Runway) {
	heap.Push((*runwayHeap)(&rq.runways), runway)
}

// Dequeue removes and returns the runway that frees up first
func (rq *RunwayQueue) Dequeue() *Runway {
	if len(rq.runways) == 0 {
		return nil
	}
	return heap.Pop((*runwayHeap)(&rq.runways)).(*Runway)
}

// Peek returns the runway that frees up first without removing it
func (rq *RunwayQueue) Peek() *Runway {
	if len(rq.runways) == 0 {
		return nil
	}
	return rq.runways[0]
}

// Len returns the number of runways in the queue
func (rq *RunwayQueue) Len() int {
	return len(rq.runways)
}

// FreeTimes returns each runway's free time indexed by runway index.
func (rq *RunwayQueue) FreeTimes() []float64 {
	times := make([]float64, len(rq.runways))
	for _, r := range rq.runways {
		if r.Index < len(times) {
			times[r.Index] = r.FreeAt
		}
	}
	return times
}
