// v0
// internal/revelation/heap.go
package revelation

import "nrgchamp/animeitor/internal/domain"

// scoreHeap backs the revelation engine's priority queue. It holds only
// Score values, never a pointer into the team map, so popping an entry
// and later pushing a recomputed Score for the same login can never
// alias a stale *Team; the engine looks teams up by login on every pop.
//
// container/heap maintains h[0] as the minimum per Less, and Less here
// is Score.Less ("ranks strictly worse than"), so the worst-ranked-so-far
// team sits at the root and pops first — the reveal order the closing
// ceremony expects.
type scoreHeap []domain.Score

func (h scoreHeap) Len() int            { return len(h) }
func (h scoreHeap) Less(i, j int) bool  { return h[i].Less(h[j]) }
func (h scoreHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *scoreHeap) Push(x interface{}) { *h = append(*h, x.(domain.Score)) }

func (h *scoreHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
