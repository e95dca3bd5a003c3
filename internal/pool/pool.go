// Package pool provides object pooling for the parser's scratch
// allocations: response-file tokenization buffers and intermediate
// token vectors. Parse results themselves are never pooled, they are
// owned by the caller.
package pool

import "sync"

// Pool provides a generic, type-safe object pool with an optional
// reset hook applied before reuse.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T)
}

// NewPool creates a new generic pool with the given factory function
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return factory()
			},
		},
	}
}

// NewPoolWithReset creates a pool with a reset function called before reuse
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool for reuse
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// BufferPool pools byte slices in capacity buckets so tokenizer scratch
// space is reused across parses.
type BufferPool struct {
	pools   map[int]*Pool[[]byte]
	mutex   sync.RWMutex
	minCap  int
	maxCap  int
	buckets []int
}

// NewBufferPool creates a new buffer pool with capacity-based buckets
func NewBufferPool() *BufferPool {
	buckets := []int{64, 256, 1024, 4096}

	bp := &BufferPool{
		pools:   make(map[int]*Pool[[]byte]),
		minCap:  buckets[0],
		maxCap:  buckets[len(buckets)-1],
		buckets: buckets,
	}

	for _, c := range buckets {
		capacity := c // Capture for closure
		bp.pools[capacity] = NewPoolWithReset(
			func() *[]byte {
				buf := make([]byte, 0, capacity)
				return &buf
			},
			func(buf *[]byte) {
				*buf = (*buf)[:0] // Reset length but keep capacity
			},
		)
	}
	return bp
}

// Get retrieves a buffer with at least the requested capacity
func (bp *BufferPool) Get(minCap int) *[]byte {
	capacity := bp.findBucket(minCap)

	bp.mutex.RLock()
	pool, exists := bp.pools[capacity]
	bp.mutex.RUnlock()

	if !exists {
		// Outside the bucket range; allocate directly.
		buf := make([]byte, 0, minCap)
		return &buf
	}
	return pool.Get()
}

// Put returns a buffer to the appropriate pool
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}

	capacity := cap(*buf)
	if capacity < bp.minCap || capacity > bp.maxCap {
		return
	}

	bucketCap := bp.findBucket(capacity)

	bp.mutex.RLock()
	pool, exists := bp.pools[bucketCap]
	bp.mutex.RUnlock()

	if exists {
		pool.Put(buf)
	}
}

// findBucket finds the appropriate capacity bucket for the given size
func (bp *BufferPool) findBucket(minCap int) int {
	for _, bucket := range bp.buckets {
		if bucket >= minCap {
			return bucket
		}
	}
	return bp.maxCap
}

// StringSlicePool pools the token vectors built while expanding
// response files.
type StringSlicePool struct {
	*Pool[[]string]
}

// NewStringSlicePool creates a new string slice pool
func NewStringSlicePool(defaultCap int) *StringSlicePool {
	return &StringSlicePool{
		Pool: NewPoolWithReset(
			func() *[]string {
				slice := make([]string, 0, defaultCap)
				return &slice
			},
			func(slice *[]string) {
				*slice = (*slice)[:0] // Reset length but keep capacity
			},
		),
	}
}

// Global pool instances shared by all parsers.
var (
	GlobalBufferPool      = NewBufferPool()
	GlobalStringSlicePool = NewStringSlicePool(32)
)

// GetBuffer retrieves a scratch buffer for tokenization.
func GetBuffer(minCap int) *[]byte {
	return GlobalBufferPool.Get(minCap)
}

// PutBuffer returns a buffer to the global pool
func PutBuffer(buf *[]byte) {
	GlobalBufferPool.Put(buf)
}

// GetStringSlice retrieves a token vector for response-file expansion.
func GetStringSlice() *[]string {
	return GlobalStringSlicePool.Get()
}

// PutStringSlice returns a string slice to the global pool
func PutStringSlice(slice *[]string) {
	GlobalStringSlicePool.Put(slice)
}
