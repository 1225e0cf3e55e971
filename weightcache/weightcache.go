package weightcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/HyperFoldUK/BitNet/internal/ternary"
)

var (
	// ErrClosed is returned when registering weights on a closed cache.
	ErrClosed = errors.New("weightcache: cache closed")
	// ErrNilWeights is returned when the storage buffer is nil or empty.
	ErrNilWeights = errors.New("weightcache: nil or empty weight buffer")
	// ErrInvalidElementCount is returned when the element count is not positive.
	ErrInvalidElementCount = errors.New("weightcache: element count must be positive")
)

// ErrTruncatedWeights indicates a storage buffer too short for the declared
// element count.
type ErrTruncatedWeights struct {
	Need, Got int
}

func (e *ErrTruncatedWeights) Error() string {
	return fmt.Sprintf("weightcache: truncated weight buffer: need %d bytes, got %d", e.Need, e.Got)
}

// Handle is an opaque, generation-checked reference to one cached tensor.
// It stays valid from Put until Release or Close. The zero value is invalid.
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether h was ever issued by a Cache. It does not check
// whether the entry is still live; Bytes does.
func (h Handle) Valid() bool {
	return h.gen != 0
}

// Stats is a read-only snapshot of cache contents and lookup traffic.
// TotalBytes counts cached buffer sizes only, not per-slot bookkeeping.
type Stats struct {
	Entries    int
	TotalBytes int64
	Hits       uint64
	Misses     uint64
}

// Tensor describes one storage-layout weight tensor for bulk registration.
type Tensor struct {
	Storage  []byte
	Elements int
}

type slot struct {
	buf []byte // nil when the slot is free
	gen uint32 // bumped on release, so stale handles mismatch
}

// Cache is the explicitly owned store of transcoded weight buffers. Create
// one per model/session and keep its lifetime tied to the owner; there is no
// process-wide instance.
type Cache struct {
	mu         sync.RWMutex
	slots      []slot
	free       []uint32
	entries    int
	totalBytes int64
	closed     bool

	hits   atomic.Uint64
	misses atomic.Uint64

	logger *slog.Logger
}

// Option configures Cache construction.
type Option func(*Cache)

// WithLogger sets the structured logger for load-time events. Lookups are
// never logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// transcodeBuf validates one tensor and produces its computation-layout
// buffer. Runs outside the cache lock; transcoding is the O(n) part of Put.
func transcodeBuf(storage []byte, n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidElementCount
	}
	if len(storage) == 0 {
		return nil, ErrNilWeights
	}
	need := ternary.BytesFor(n)
	if len(storage) < need {
		return nil, &ErrTruncatedWeights{Need: need, Got: len(storage)}
	}
	buf := make([]byte, need)
	ternary.TranscodeInto(buf, storage[:need])
	return buf, nil
}

// Put transcodes one storage-layout tensor of n ternary elements and
// registers the result, returning a handle for later lookups.
//
// The cache stores only the transcoded copy; the caller keeps ownership of
// storage and may release it after Put returns. On error no entry is
// created. Put is meant for load-time call frequency; the per-call O(n)
// transcode is exactly the cost this cache keeps off the inference path.
func (c *Cache) Put(storage []byte, n int) (Handle, error) {
	buf, err := transcodeBuf(storage, n)
	if err != nil {
		return Handle{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Handle{}, ErrClosed
	}
	h := c.insertLocked(buf)
	c.logger.Debug("cached weight tensor",
		slog.Int("elements", n),
		slog.Int("bytes", len(buf)),
		slog.Int("entries", c.entries))
	return h, nil
}

// PutBatch registers many tensors in one call, transcoding them in parallel
// before taking the write lock once. On any validation failure or context
// cancellation nothing is registered.
func (c *Cache) PutBatch(ctx context.Context, tensors []Tensor) ([]Handle, error) {
	bufs := make([][]byte, len(tensors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, t := range tensors {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := transcodeBuf(t.Storage, t.Elements)
			if err != nil {
				return fmt.Errorf("tensor %d: %w", i, err)
			}
			bufs[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	handles := make([]Handle, len(tensors))
	for i, buf := range bufs {
		handles[i] = c.insertLocked(buf)
	}
	c.logger.Debug("cached weight tensor batch",
		slog.Int("tensors", len(tensors)),
		slog.Int("entries", c.entries))
	return handles, nil
}

func (c *Cache) insertLocked(buf []byte) Handle {
	var idx uint32
	if k := len(c.free); k > 0 {
		idx = c.free[k-1]
		c.free = c.free[:k-1]
		c.slots[idx].buf = buf
	} else {
		idx = uint32(len(c.slots))
		c.slots = append(c.slots, slot{buf: buf, gen: 1})
	}
	c.entries++
	c.totalBytes += int64(len(buf))
	return Handle{index: idx, gen: c.slots[idx].gen}
}

// Bytes resolves a handle to its read-only computation-layout buffer.
// This is the only operation on the inference hot path: a slot dereference
// plus a generation check under the read lock, no allocation, no transform.
// Stale or unknown handles report (nil, false).
//
// Callers must not modify the returned slice.
func (c *Cache) Bytes(h Handle) ([]byte, bool) {
	if h.gen == 0 {
		c.misses.Add(1)
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(h.index) >= len(c.slots) {
		c.misses.Add(1)
		return nil, false
	}
	s := &c.slots[h.index]
	if s.buf == nil || s.gen != h.gen {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return s.buf, true
}

// Release removes and frees exactly the named entry. It is idempotent:
// releasing a stale, already-released or zero handle returns false and
// changes nothing.
func (c *Cache) Release(h Handle) bool {
	if h.gen == 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h.index) >= len(c.slots) {
		return false
	}
	s := &c.slots[h.index]
	if s.buf == nil || s.gen != h.gen {
		return false
	}
	c.entries--
	c.totalBytes -= int64(len(s.buf))
	s.buf = nil
	s.gen++
	c.free = append(c.free, h.index)
	return true
}

// Close releases every remaining entry and marks the cache closed.
// Idempotent; safe with zero entries. Stats afterwards report (0, 0).
// Further Put calls return ErrClosed; outstanding handles become misses.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	released := c.entries
	c.slots = nil
	c.free = nil
	c.entries = 0
	c.totalBytes = 0
	c.logger.Debug("weight cache closed", slog.Int("released", released))
	return nil
}

// Stats returns a snapshot of entry count, cached bytes and lookup traffic.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries:    c.entries,
		TotalBytes: c.totalBytes,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
	}
}
