package main

import (
	"time"

	"github.com/go-cc/containers/hashmap"
	"github.com/go-cc/containers/hashset"
	applog "github.com/go-cc/containers/internal/log"
	"github.com/go-cc/containers/internal/metrics"
	"github.com/go-cc/containers/list"
	"github.com/go-cc/containers/orderedmap"
	"github.com/go-cc/containers/orderedset"
	"github.com/go-cc/containers/vector"
)

// result is one row of the summary report.
type result struct {
	container string
	n         int
	elapsed   time.Duration
}

// grew logs a structural-growth event through rl, which drops the line
// instead of blocking when a benchmark with a large n hits this call site
// thousands of times a second.
func grew(rl *applog.RateLimitedLogger, container string, newCap int) {
	rl.Log("msg", "container grew", "container", container, "new_cap", newCap)
}

// probeObserver returns a ht.WithProbeObserver callback reporting chain
// length to the probe-length histogram under the given container label.
func probeObserver(container string) func(int) {
	hist := metrics.HTProbeLength.WithLabelValues(container)
	return func(steps int) { hist.Observe(float64(steps)) }
}

func benchVector(rl *applog.RateLimitedLogger, n int) result {
	start := time.Now()
	v := vector.New[int]()
	cap0 := v.Cap()
	for i := 0; i < n; i++ {
		v.Push(i)
		if v.Cap() != cap0 {
			metrics.VectorGrowTotal.WithLabelValues("vector").Inc()
			cap0 = v.Cap()
			grew(rl, "vector", cap0)
		}
	}
	v.EraseN(0, v.Len()/2)
	return result{container: "vector", n: n, elapsed: time.Since(start)}
}

func benchList(rl *applog.RateLimitedLogger, n int) result {
	start := time.Now()
	l := list.New[int]()
	for i := 0; i < n; i++ {
		l.Push(i)
	}
	for it := l.First(); it != l.End(); {
		next := it.Next()
		if it.Value%3 == 0 {
			it = l.Erase(it)
		} else {
			it = next
		}
	}
	return result{container: "list", n: n, elapsed: time.Since(start)}
}

func benchHashMap(rl *applog.RateLimitedLogger, n int) result {
	start := time.Now()
	observe := probeObserver("hashmap")
	m := hashmap.New[int, int](hashmap.IntHasher, hashmap.WithProbeObserver[int, int](observe))
	cap0 := m.Cap()
	for i := 0; i < n; i++ {
		m.Put(i, i*i)
		if m.Cap() != cap0 {
			metrics.HTRehashTotal.WithLabelValues("hashmap").Inc()
			cap0 = m.Cap()
			grew(rl, "hashmap", cap0)
		}
	}
	for i := 0; i < n; i += 2 {
		m.EraseKey(i)
	}
	return result{container: "hashmap", n: n, elapsed: time.Since(start)}
}

func benchHashSet(rl *applog.RateLimitedLogger, n int) result {
	start := time.Now()
	observe := probeObserver("hashset")
	s := hashset.New[int](hashset.IntHasher, hashset.WithProbeObserver[int](observe))
	cap0 := s.Cap()
	for i := 0; i < n; i++ {
		s.Add(i)
		if s.Cap() != cap0 {
			metrics.HTRehashTotal.WithLabelValues("hashset").Inc()
			cap0 = s.Cap()
			grew(rl, "hashset", cap0)
		}
	}
	for i := 0; i < n; i += 2 {
		s.Remove(i)
	}
	return result{container: "hashset", n: n, elapsed: time.Since(start)}
}

func benchOrderedMap(n int) result {
	start := time.Now()
	m := orderedmap.New[int, int](orderedmap.OrderedInt[int])
	for i := 0; i < n; i++ {
		m.Put(i, i*i)
		metrics.RBTFixupTotal.WithLabelValues("orderedmap").Inc()
	}
	for i := 0; i < n; i += 2 {
		m.EraseKey(i)
	}
	return result{container: "orderedmap", n: n, elapsed: time.Since(start)}
}

func benchOrderedSet(n int) result {
	start := time.Now()
	s := orderedset.New[int](orderedmap.OrderedInt[int])
	for i := 0; i < n; i++ {
		s.Add(i)
		metrics.RBTFixupTotal.WithLabelValues("orderedset").Inc()
	}
	for i := 0; i < n; i += 2 {
		s.Remove(i)
	}
	return result{container: "orderedset", n: n, elapsed: time.Since(start)}
}

func runWorkload(rl *applog.RateLimitedLogger, name string, n int) []result {
	switch name {
	case "vector":
		return []result{benchVector(rl, n)}
	case "list":
		return []result{benchList(rl, n)}
	case "hashmap":
		return []result{benchHashMap(rl, n)}
	case "hashset":
		return []result{benchHashSet(rl, n)}
	case "orderedmap":
		return []result{benchOrderedMap(n)}
	case "orderedset":
		return []result{benchOrderedSet(n)}
	default:
		return []result{
			benchVector(rl, n), benchList(rl, n),
			benchHashMap(rl, n), benchHashSet(rl, n),
			benchOrderedMap(n), benchOrderedSet(n),
		}
	}
}
