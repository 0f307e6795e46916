// Package ht implements the open-addressed hash-table engine shared by
// hashmap.Map and hashset.Set. It uses quadratic probing with per-bucket
// metadata (a 4-bit hash fragment, a 1-bit "home" flag, and an 11-bit
// intra-chain displacement) so that lookups cost roughly what a chained
// hash table costs at high load, without ever needing tombstones.
//
// Hashing, equality and disposal are host contracts supplied by the
// caller (hashmap/hashset), expressed as ordinary Go function values
// rather than the distilled spec's function-pointer dispatch layer.
package ht

import "github.com/go-cc/containers/alloc"

const (
	fragShift      = 12
	inHomeBit      = 1 << 11
	dispMask       = 0x7FF
	dispEnd        = 0x7FF // end-of-chain sentinel and displacement limit
	minCapacity    = 8
	defaultMaxLoad = 0.9
)

func meta(frag uint8, inHome bool, disp int) uint16 {
	m := uint16(frag&0xF) << fragShift
	if inHome {
		m |= inHomeBit
	}
	m |= uint16(disp) & dispMask
	return m
}

func setDisp(m uint16, disp int) uint16 { return (m &^ dispMask) | (uint16(disp) & dispMask) }
func fragOf(m uint16) uint8             { return uint8(m>>fragShift) & 0xF }
func inHomeOf(m uint16) bool            { return m&inHomeBit != 0 }
func dispOf(m uint16) int               { return int(m & dispMask) }
func isEmpty(m uint16) bool             { return m == 0 }

func fragFromHash(h uint64) uint8 { return uint8(h >> 60) }

// packLanes and firstNonZeroLane implement the iteration fast path's
// "scan four 16-bit metadata words as one unit" trick portably, per
// SPEC_FULL.md §9.2 — one implementation, no intrinsic dispatch.
func packLanes(a, b, c, d uint16) uint64 {
	return uint64(a) | uint64(b)<<16 | uint64(c)<<32 | uint64(d)<<48
}

func firstNonZeroLane(w uint64) (lane int, ok bool) {
	for i := 0; i < 4; i++ {
		if uint16(w>>(16*i)) != 0 {
			return i, true
		}
	}
	return 0, false
}

// Hasher computes a 64-bit hash for a key. HT only needs equality, never
// ordering.
type Hasher[K any] func(key K) uint64

// Equaler reports whether two keys are equal.
type Equaler[K any] func(a, b K) bool

type entry[K any, V any] struct {
	key   K
	value V
}

type chainStep struct {
	idx int
	d   int
}

// Option configures a Table at construction time.
type Option[K any, V any] func(*Table[K, V])

// WithMaxLoad overrides the load-factor cap (default 0.9).
func WithMaxLoad[K any, V any](f float64) Option[K, V] {
	return func(t *Table[K, V]) { t.maxLoad = f }
}

// WithAllocator injects an Allocator, letting tests simulate allocation
// failure on growth/rehash.
func WithAllocator[K any, V any](a alloc.Allocator) Option[K, V] {
	return func(t *Table[K, V]) { t.alloc = a }
}

// WithKeyDispose registers a destructor invoked exactly once per removed
// key.
func WithKeyDispose[K any, V any](f func(*K)) Option[K, V] {
	return func(t *Table[K, V]) { t.keyDispose = f }
}

// WithElementDispose registers a destructor invoked exactly once per
// removed value.
func WithElementDispose[K any, V any](f func(*V)) Option[K, V] {
	return func(t *Table[K, V]) { t.elemDispose = f }
}

// WithProbeObserver registers a callback invoked with the number of
// chain members walked (beyond the home bucket itself) every time the
// chain is traversed — the host's hook for recording probe-length
// metrics.
func WithProbeObserver[K any, V any](f func(steps int)) Option[K, V] {
	return func(t *Table[K, V]) { t.probeObserver = f }
}

// Table is the open-addressed hash table engine. The zero-capacity
// (placeholder) form performs no allocation until the first insert.
type Table[K any, V any] struct {
	buckets []entry[K, V]
	metas   []uint16
	size    int

	hash Hasher[K]
	eq   Equaler[K]

	maxLoad       float64
	keyDispose    func(*K)
	elemDispose   func(*V)
	alloc         alloc.Allocator
	probeObserver func(steps int)
}

// New constructs an empty, placeholder Table.
func New[K any, V any](hash Hasher[K], eq Equaler[K], opts ...Option[K, V]) *Table[K, V] {
	t := &Table[K, V]{hash: hash, eq: eq, maxLoad: defaultMaxLoad, alloc: alloc.Default}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Len reports the number of live entries.
func (t *Table[K, V]) Len() int { return t.size }

// Cap reports the current bucket-array capacity; 0 for a placeholder.
func (t *Table[K, V]) Cap() int { return len(t.buckets) }

func (t *Table[K, V]) homeBucket(h uint64) int { return int(h) & (len(t.buckets) - 1) }

func (t *Table[K, V]) probeIndex(home, d int) int {
	return (home + d*(d+1)/2) & (len(t.buckets) - 1)
}

// chainSteps returns the full chain anchored at home: {home, d=0}, then
// each subsequent member in ascending-displacement order, following the
// "next" pointer each metadatum's displacement field encodes.
func (t *Table[K, V]) chainSteps(home int) []chainStep {
	steps := []chainStep{{idx: home, d: 0}}
	d := dispOf(t.metas[home])
	for d != dispEnd {
		idx := t.probeIndex(home, d)
		steps = append(steps, chainStep{idx: idx, d: d})
		d = dispOf(t.metas[idx])
	}
	if t.probeObserver != nil {
		t.probeObserver(len(steps) - 1)
	}
	return steps
}

func indexOfStep(steps []chainStep, idx int) int {
	for p, s := range steps {
		if s.idx == idx {
			return p
		}
	}
	return -1
}

// findEmptyFrom quadratically probes from home starting at displacement 1
// looking for an empty bucket, stopping before the displacement limit.
func (t *Table[K, V]) findEmptyFrom(home int) (d int, idx int, ok bool) {
	for d = 1; d < dispEnd; d++ {
		idx = t.probeIndex(home, d)
		if isEmpty(t.metas[idx]) {
			return d, idx, true
		}
	}
	return 0, 0, false
}

func (t *Table[K, V]) growTo(c int) bool {
	if !t.alloc.Grow(0, c) {
		return false
	}
	t.buckets = make([]entry[K, V], c)
	t.metas = make([]uint16, c+4)
	t.metas[c] = 1
	return true
}

// evict relocates the occupant currently at the physical bucket `home`
// (which belongs to some other key's chain) to the earliest empty slot
// reachable by quadratic probing from that key's own home bucket,
// splicing it back into its chain at the position that preserves
// ascending-displacement order. Reports false if no such slot exists
// below the displacement limit.
//
// home is not necessarily the tail of its owner's chain — it may have a
// successor, since `home` was picked only because some unrelated key
// happens to have it as a home bucket, not because of its position in
// the owner's chain. So this proceeds in two steps: first unlink home
// from wherever it currently sits (its predecessor must skip straight to
// home's old successor, or become the new tail if it had none), then
// splice the relocated occupant into the chain at the position its new
// displacement `d` actually belongs, found by the same scan
// insert/reinsertOne use — never by reusing home's own former chain
// neighbors, which belong to the chain as it was before either change.
func (t *Table[K, V]) evict(home int) bool {
	occKey := t.buckets[home].key
	ownerHome := t.homeBucket(t.hash(occKey))
	steps := t.chainSteps(ownerHome)
	p := indexOfStep(steps, home)
	d, newIdx, found := t.findEmptyFrom(ownerHome)
	if !found {
		return false
	}

	nextD := dispEnd
	if p+1 < len(steps) {
		nextD = steps[p+1].d
	}
	t.metas[steps[p-1].idx] = setDisp(t.metas[steps[p-1].idx], nextD)

	remaining := append(steps[:p:p], steps[p+1:]...)
	predPos := 0
	for predPos+1 < len(remaining) && remaining[predPos+1].d < d {
		predPos++
	}
	predIdx := remaining[predPos].idx
	afterD := dispEnd
	if predPos+1 < len(remaining) {
		afterD = remaining[predPos+1].d
	}
	t.metas[predIdx] = setDisp(t.metas[predIdx], d)

	frag := fragOf(t.metas[home])
	t.buckets[newIdx] = t.buckets[home]
	t.metas[newIdx] = meta(frag, false, afterD)
	return true
}

// reinsertOne inserts key/value into a freshly (re)allocated table that
// is known not to already contain key and not to need a load-factor
// check, per the distilled spec's "reinsert" variant used during rehash.
func (t *Table[K, V]) reinsertOne(key K, value V) bool {
	h := t.hash(key)
	home := t.homeBucket(h)
	frag := fragFromHash(h)
	m := t.metas[home]
	if !inHomeOf(m) {
		if !isEmpty(m) {
			if !t.evict(home) {
				return false
			}
		}
		t.buckets[home] = entry[K, V]{key: key, value: value}
		t.metas[home] = meta(frag, true, dispEnd)
		t.size++
		return true
	}
	steps := t.chainSteps(home)
	d, idx, found := t.findEmptyFrom(home)
	if !found {
		return false
	}
	predPos := 0
	for predPos+1 < len(steps) && steps[predPos+1].d < d {
		predPos++
	}
	predIdx := steps[predPos].idx
	afterD := dispEnd
	if predPos+1 < len(steps) {
		afterD = steps[predPos+1].d
	}
	t.metas[predIdx] = setDisp(t.metas[predIdx], d)
	t.buckets[idx] = entry[K, V]{key: key, value: value}
	t.metas[idx] = meta(frag, false, afterD)
	t.size++
	return true
}

func (t *Table[K, V]) rehash(newCap int) bool {
	for {
		if !t.alloc.Grow(len(t.buckets), newCap) {
			return false
		}
		nt := &Table[K, V]{
			buckets:       make([]entry[K, V], newCap),
			metas:         make([]uint16, newCap+4),
			hash:          t.hash,
			eq:            t.eq,
			maxLoad:       t.maxLoad,
			keyDispose:    t.keyDispose,
			elemDispose:   t.elemDispose,
			alloc:         t.alloc,
			probeObserver: t.probeObserver,
		}
		nt.metas[newCap] = 1
		ok := true
		for i := t.First(); i != t.End(); i = t.Next(i) {
			if !nt.reinsertOne(t.buckets[i].key, t.buckets[i].value) {
				ok = false
				break
			}
		}
		if ok {
			t.buckets = nt.buckets
			t.metas = nt.metas
			return true
		}
		newCap *= 2
	}
}

// Reserve ensures the table can hold n entries without rehashing,
// growing (by power-of-two capacity) if needed.
func (t *Table[K, V]) Reserve(n int) bool {
	c := minCapacity
	for float64(n) > t.maxLoad*float64(c) {
		c *= 2
	}
	if len(t.buckets) == 0 {
		return t.growTo(c)
	}
	if c <= len(t.buckets) {
		return true
	}
	return t.rehash(c)
}

// Shrink reduces capacity to the smallest power of two accommodating the
// current size. At size 0 the table returns to placeholder form.
func (t *Table[K, V]) Shrink() bool {
	if t.size == 0 {
		t.buckets, t.metas = nil, nil
		return true
	}
	c := minCapacity
	for float64(t.size) > t.maxLoad*float64(c) {
		c *= 2
	}
	if c == len(t.buckets) {
		return true
	}
	return t.rehash(c)
}

// insert is the shared core of Put (replace=true) and GetOrInsert
// (replace=false).
func (t *Table[K, V]) insert(key K, value V, replace bool) (*V, bool) {
	if len(t.buckets) == 0 {
		if !t.growTo(minCapacity) {
			return nil, false
		}
	}
	for {
		h := t.hash(key)
		home := t.homeBucket(h)
		frag := fragFromHash(h)
		m := t.metas[home]

		if !inHomeOf(m) {
			if float64(t.size+1) > t.maxLoad*float64(len(t.buckets)) {
				if !t.rehash(len(t.buckets) * 2) {
					return nil, false
				}
				continue
			}
			if !isEmpty(m) {
				if !t.evict(home) {
					if !t.rehash(len(t.buckets) * 2) {
						return nil, false
					}
					continue
				}
			}
			t.buckets[home] = entry[K, V]{key: key, value: value}
			t.metas[home] = meta(frag, true, dispEnd)
			t.size++
			return &t.buckets[home].value, true
		}

		steps := t.chainSteps(home)
		matched := -1
		for p, s := range steps {
			if fragOf(t.metas[s.idx]) == frag && t.eq(t.buckets[s.idx].key, key) {
				matched = p
				break
			}
		}
		if matched >= 0 {
			idx := steps[matched].idx
			if replace {
				if t.keyDispose != nil {
					t.keyDispose(&t.buckets[idx].key)
				}
				if t.elemDispose != nil {
					t.elemDispose(&t.buckets[idx].value)
				}
				t.buckets[idx] = entry[K, V]{key: key, value: value}
			}
			return &t.buckets[idx].value, true
		}

		if float64(t.size+1) > t.maxLoad*float64(len(t.buckets)) {
			if !t.rehash(len(t.buckets) * 2) {
				return nil, false
			}
			continue
		}
		d, idx, found := t.findEmptyFrom(home)
		if !found {
			if !t.rehash(len(t.buckets) * 2) {
				return nil, false
			}
			continue
		}
		predPos := 0
		for predPos+1 < len(steps) && steps[predPos+1].d < d {
			predPos++
		}
		predIdx := steps[predPos].idx
		afterD := dispEnd
		if predPos+1 < len(steps) {
			afterD = steps[predPos+1].d
		}
		t.metas[predIdx] = setDisp(t.metas[predIdx], d)
		t.buckets[idx] = entry[K, V]{key: key, value: value}
		t.metas[idx] = meta(frag, false, afterD)
		t.size++
		return &t.buckets[idx].value, true
	}
}

// Put inserts key/value, overwriting (and disposing) any existing entry
// for key. Reports false only on allocation failure.
func (t *Table[K, V]) Put(key K, value V) (*V, bool) { return t.insert(key, value, true) }

// GetOrInsert returns the existing value for key if present, otherwise
// inserts value and returns a pointer to it. Reports false only on
// allocation failure.
func (t *Table[K, V]) GetOrInsert(key K, value V) (*V, bool) { return t.insert(key, value, false) }

// Get looks up key, per the distilled spec's §4.3.5 algorithm: compare
// the metadatum's fragment before ever touching a bucket's key.
func (t *Table[K, V]) Get(key K) (*V, bool) {
	if len(t.buckets) == 0 {
		return nil, false
	}
	h := t.hash(key)
	home := t.homeBucket(h)
	if !inHomeOf(t.metas[home]) {
		return nil, false
	}
	frag := fragFromHash(h)
	idx := home
	d := dispOf(t.metas[home])
	hops := 0
	for {
		if fragOf(t.metas[idx]) == frag && t.eq(t.buckets[idx].key, key) {
			if t.probeObserver != nil {
				t.probeObserver(hops)
			}
			return &t.buckets[idx].value, true
		}
		if d == dispEnd {
			if t.probeObserver != nil {
				t.probeObserver(hops)
			}
			return nil, false
		}
		idx = t.probeIndex(home, d)
		d = dispOf(t.metas[idx])
		hops++
	}
}

func (t *Table[K, V]) eraseAtPos(steps []chainStep, p int) {
	erasedIdx := steps[p].idx
	if t.keyDispose != nil {
		t.keyDispose(&t.buckets[erasedIdx].key)
	}
	if t.elemDispose != nil {
		t.elemDispose(&t.buckets[erasedIdx].value)
	}
	last := len(steps) - 1
	if p == last {
		if p > 0 {
			t.metas[steps[p-1].idx] = setDisp(t.metas[steps[p-1].idx], dispEnd)
		}
		t.metas[erasedIdx] = 0
		t.buckets[erasedIdx] = entry[K, V]{}
		return
	}
	tail := steps[last]
	oldMeta := t.metas[erasedIdx]
	newFrag := fragOf(t.metas[tail.idx])
	t.buckets[erasedIdx] = t.buckets[tail.idx]
	t.metas[erasedIdx] = meta(newFrag, inHomeOf(oldMeta), dispOf(oldMeta))
	t.metas[steps[last-1].idx] = setDisp(t.metas[steps[last-1].idx], dispEnd)
	t.metas[tail.idx] = 0
	t.buckets[tail.idx] = entry[K, V]{}
}

// EraseKey removes key if present, reporting whether it was present.
func (t *Table[K, V]) EraseKey(key K) bool {
	if len(t.buckets) == 0 {
		return false
	}
	h := t.hash(key)
	home := t.homeBucket(h)
	if !inHomeOf(t.metas[home]) {
		return false
	}
	frag := fragFromHash(h)
	steps := t.chainSteps(home)
	for p, s := range steps {
		if fragOf(t.metas[s.idx]) == frag && t.eq(t.buckets[s.idx].key, key) {
			t.eraseAtPos(steps, p)
			t.size--
			return true
		}
	}
	return false
}

// EraseIterator removes the element at iterator it, returning an
// iterator to the next element such that a loop erasing while iterating
// visits every live element exactly once (see SPEC_FULL.md §4.3.4): the
// result either re-visits `it` (if the tail swap brought in a
// not-yet-visited element) or advances normally.
func (t *Table[K, V]) EraseIterator(it int) int {
	key := t.buckets[it].key
	home := t.homeBucket(t.hash(key))
	steps := t.chainSteps(home)
	p := indexOfStep(steps, it)
	tailIdx := steps[len(steps)-1].idx
	t.eraseAtPos(steps, p)
	t.size--
	if tailIdx > it {
		return it
	}
	return t.Next(it)
}

// Clear erases every entry (disposing each) but keeps the backing arrays
// allocated.
func (t *Table[K, V]) Clear() {
	for i := range t.buckets {
		if !isEmpty(t.metas[i]) {
			if t.keyDispose != nil {
				t.keyDispose(&t.buckets[i].key)
			}
			if t.elemDispose != nil {
				t.elemDispose(&t.buckets[i].value)
			}
			t.buckets[i] = entry[K, V]{}
		}
		t.metas[i] = 0
	}
	t.size = 0
}

// Cleanup clears the table and releases its backing arrays.
func (t *Table[K, V]) Cleanup() {
	t.Clear()
	t.buckets, t.metas = nil, nil
}

func (t *Table[K, V]) scanFrom(start int) int {
	c := len(t.buckets)
	i := start
	for i < c {
		lane := packLanes(t.metas[i], t.metas[i+1], t.metas[i+2], t.metas[i+3])
		if off, ok := firstNonZeroLane(lane); ok {
			idx := i + off
			if idx >= c {
				return c
			}
			return idx
		}
		i += 4
	}
	return c
}

// End returns one past the last bucket index; placeholder tables return 0.
func (t *Table[K, V]) End() int { return len(t.buckets) }

// First returns the first occupied bucket index, or End() if empty.
func (t *Table[K, V]) First() int { return t.scanFrom(0) }

// Next returns the next occupied bucket index after it, or End().
func (t *Table[K, V]) Next(it int) int { return t.scanFrom(it + 1) }

// KeyAt returns the key stored at iterator it.
func (t *Table[K, V]) KeyAt(it int) K { return t.buckets[it].key }

// ValueAt returns a pointer to the value stored at iterator it.
func (t *Table[K, V]) ValueAt(it int) *V { return &t.buckets[it].value }

// ForEach calls fn for every live entry in bucket order, stopping early
// if fn returns false.
func (t *Table[K, V]) ForEach(fn func(key K, value *V) bool) {
	for it := t.First(); it != t.End(); it = t.Next(it) {
		if !fn(t.buckets[it].key, &t.buckets[it].value) {
			return
		}
	}
}

// Clone copies src's entire bucket/metadata layout directly — no rehash,
// since the layout is position-determined.
func Clone[K any, V any](src *Table[K, V]) (*Table[K, V], bool) {
	dst := &Table[K, V]{
		hash: src.hash, eq: src.eq, maxLoad: src.maxLoad,
		keyDispose: src.keyDispose, elemDispose: src.elemDispose,
		alloc: src.alloc, probeObserver: src.probeObserver,
	}
	if len(src.buckets) == 0 {
		return dst, true
	}
	if !dst.alloc.Grow(0, len(src.buckets)) {
		return nil, false
	}
	dst.buckets = make([]entry[K, V], len(src.buckets))
	copy(dst.buckets, src.buckets)
	dst.metas = make([]uint16, len(src.metas))
	copy(dst.metas, src.metas)
	dst.size = src.size
	return dst, true
}
