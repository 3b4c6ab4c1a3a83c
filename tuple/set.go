package tuple

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Set is an insertion-ordered set of tuples. Indices are stable: the i-th
// added tuple stays at index i forever, which lets callers describe
// "everything added since" as an index window. Set never shrinks.
//
// Set is not safe for concurrent mutation; concurrent readers are fine as
// long as no goroutine calls Add.
type Set struct {
	items []Tuple
	index map[Key]int
}

// NewSet returns an empty Set with room for capacity tuples.
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}

	return &Set{
		items: make([]Tuple, 0, capacity),
		index: make(map[Key]int, capacity),
	}
}

// Add inserts t if absent. It returns the index of t and whether it was new.
func (s *Set) Add(t Tuple) (int, bool) {
	k := t.Key()
	if i, ok := s.index[k]; ok {
		return i, false
	}
	i := len(s.items)
	s.items = append(s.items, t)
	s.index[k] = i

	return i, true
}

// Index returns the position of t, if present.
func (s *Set) Index(t Tuple) (int, bool) {
	i, ok := s.index[t.Key()]
	return i, ok
}

// IndexKey returns the position of the tuple whose encoded key is b.
// b is typically produced by AppendKey into a reused buffer.
func (s *Set) IndexKey(b []byte) (int, bool) {
	i, ok := s.index[Key(b)]
	return i, ok
}

// Contains reports whether t is in the set.
func (s *Set) Contains(t Tuple) bool {
	_, ok := s.index[t.Key()]
	return ok
}

// At returns the tuple stored at index i.
func (s *Set) At(i int) Tuple { return s.items[i] }

// Len returns the number of tuples.
func (s *Set) Len() int { return len(s.items) }

// Slice returns a copy of the tuples in insertion order.
func (s *Set) Slice() []Tuple {
	out := make([]Tuple, len(s.items))
	copy(out, s.items)

	return out
}

// Window returns the tuples at indices [lo, hi) without copying.
// The returned slice must be treated as read-only.
func (s *Set) Window(lo, hi int) []Tuple { return s.items[lo:hi:hi] }

const shardCount = 64

type shard struct {
	mu   sync.Mutex
	rank map[Key]int
}

// ConcurrentSet is a lock-striped set of keys, each tagged with the lowest
// rank that offered it. The shard of a key is chosen by its xxhash, so
// goroutines inserting unrelated keys rarely contend.
//
// The outcome of a sequence of offers does not depend on their interleaving:
// every key ends up with the minimum rank offered for it.
type ConcurrentSet struct {
	shards [shardCount]shard
}

// NewConcurrentSet returns an empty ConcurrentSet.
func NewConcurrentSet() *ConcurrentSet {
	cs := &ConcurrentSet{}
	for i := range cs.shards {
		cs.shards[i].rank = make(map[Key]int)
	}

	return cs
}

func (cs *ConcurrentSet) shard(k Key) *shard {
	return &cs.shards[xxhash.Sum64String(string(k))%shardCount]
}

// Offer records k under rank and reports whether rank is the lowest seen so
// far for k. A false result means a lower rank already holds k.
func (cs *ConcurrentSet) Offer(k Key, rank int) bool {
	sh := cs.shard(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if r, ok := sh.rank[k]; ok && r <= rank {
		return r == rank
	}
	sh.rank[k] = rank

	return true
}

// Rank returns the lowest rank offered for k.
func (cs *ConcurrentSet) Rank(k Key) (int, bool) {
	sh := cs.shard(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	r, ok := sh.rank[k]

	return r, ok
}

// Contains reports whether k has been offered.
func (cs *ConcurrentSet) Contains(k Key) bool {
	_, ok := cs.Rank(k)

	return ok
}

// Len returns the total number of keys.
func (cs *ConcurrentSet) Len() int {
	n := 0
	for i := range cs.shards {
		cs.shards[i].mu.Lock()
		n += len(cs.shards[i].rank)
		cs.shards[i].mu.Unlock()
	}

	return n
}
