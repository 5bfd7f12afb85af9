// Package queue implements the bounded top-k candidate queue used by the
// flat index search path.
package queue

// Candidate is a scored row position.
type Candidate struct {
	Position int     // Row position in the index
	Score    float32 // Inner-product similarity
}

// TopK keeps the k best candidates seen so far.
//
// It is a binary min-heap ordered by (score asc, position desc), so the root
// is always the weakest candidate: the one with the lowest score, or among
// equal scores the one with the highest position. Equal-score ties therefore
// resolve in favor of lower positions (insertion order), keeping search
// results deterministic.
type TopK struct {
	k     int
	items []Candidate
}

// NewTopK creates a queue that retains at most k candidates.
func NewTopK(k int) *TopK {
	return &TopK{
		k:     k,
		items: make([]Candidate, 0, k),
	}
}

// Len returns the number of candidates currently held.
func (q *TopK) Len() int { return len(q.items) }

// weaker reports whether candidate a loses to candidate b.
func weaker(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Position > b.Position
}

// Offer considers c for inclusion, evicting the current weakest candidate
// if the queue is full and c beats it.
func (q *TopK) Offer(c Candidate) {
	if q.k <= 0 {
		return
	}
	if len(q.items) < q.k {
		q.items = append(q.items, c)
		q.siftUp(len(q.items) - 1)
		return
	}
	if weaker(q.items[0], c) {
		q.items[0] = c
		q.siftDown(0)
	}
}

// Drain removes and returns all candidates ordered by descending score,
// ascending position. The queue is empty afterwards.
func (q *TopK) Drain() []Candidate {
	out := make([]Candidate, len(q.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = q.pop()
	}
	return out
}

func (q *TopK) pop() Candidate {
	n := len(q.items)
	root := q.items[0]
	q.items[0] = q.items[n-1]
	q.items = q.items[:n-1]
	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return root
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !weaker(q.items[i], q.items[p]) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		weakest := l
		if r := l + 1; r < n && weaker(q.items[r], q.items[l]) {
			weakest = r
		}
		if !weaker(q.items[weakest], q.items[i]) {
			return
		}
		q.items[i], q.items[weakest] = q.items[weakest], q.items[i]
		i = weakest
	}
}
