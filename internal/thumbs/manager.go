package thumbs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"image-renamer/internal/logging"
	"image-renamer/internal/metrics"
)

// Thumbnailer produces derived image bytes for a source path. Satisfied by
// *Generator; tests substitute counting implementations.
type Thumbnailer interface {
	Generate(ctx context.Context, path string, targetSize int) ([]byte, error)
}

// Result is the per-path outcome of a batch warm-up: the fingerprint the
// boundary layer turns into a URL, or the error that path produced.
type Result struct {
	Fingerprint Fingerprint
	Err         error
}

// flight tracks one in-progress generation. Waiters block on done and then
// read data/err, which are written exactly once before done is closed.
type flight struct {
	done chan struct{}
	data []byte
	err  error
}

// Manager orchestrates thumbnail lookups and generation: cache first, then
// a bounded worker pool, with concurrent requests for the same fingerprint
// coalesced into a single generation.
type Manager struct {
	store   *Store
	gen     Thumbnailer
	size    int
	timeout time.Duration

	sem chan struct{}

	mu       sync.Mutex
	inflight map[Fingerprint]*flight

	generations atomic.Int64
}

// NewManager creates a Manager with a worker pool of the given size.
func NewManager(store *Store, gen Thumbnailer, targetSize, poolSize int, timeout time.Duration) *Manager {
	if poolSize < 1 {
		poolSize = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	metrics.ThumbnailWorkers.Set(float64(poolSize))
	logging.Debug("Thumbnail manager: size=%d, workers=%d, timeout=%v", targetSize, poolSize, timeout)

	return &Manager{
		store:    store,
		gen:      gen,
		size:     targetSize,
		timeout:  timeout,
		sem:      make(chan struct{}, poolSize),
		inflight: make(map[Fingerprint]*flight),
	}
}

// TargetSize returns the configured thumbnail pixel size.
func (m *Manager) TargetSize() int {
	return m.size
}

// Generations returns the number of generation executions performed. Cache
// hits and coalesced waits do not count.
func (m *Manager) Generations() int64 {
	return m.generations.Load()
}

// GetThumbnail returns the thumbnail bytes for a source path, generating
// and caching on a miss. Blocks at most one generation's worth of latency
// when the fingerprint is already being generated.
func (m *Manager) GetThumbnail(ctx context.Context, path string) ([]byte, error) {
	fp, err := StatFingerprint(path, m.size)
	if err != nil {
		return nil, err
	}

	if data, ok := m.store.Get(fp); ok {
		metrics.ThumbnailCacheHits.Inc()
		return data, nil
	}
	metrics.ThumbnailCacheMisses.Inc()

	return m.generate(ctx, fp, path)
}

// EnsureThumbnails warms the cache for a batch of source paths and returns
// a per-path result map. Completion order across paths is unspecified, and
// one path's failure never blocks the others.
func (m *Manager) EnsureThumbnails(ctx context.Context, paths []string) map[string]Result {
	results := make(map[string]Result, len(paths))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			res := m.ensureOne(ctx, path)
			mu.Lock()
			results[path] = res
			mu.Unlock()
		}(path)
	}
	wg.Wait()

	return results
}

func (m *Manager) ensureOne(ctx context.Context, path string) Result {
	fp, err := StatFingerprint(path, m.size)
	if err != nil {
		return Result{Err: err}
	}

	if _, ok := m.store.Get(fp); ok {
		metrics.ThumbnailCacheHits.Inc()
		return Result{Fingerprint: fp}
	}
	metrics.ThumbnailCacheMisses.Inc()

	if _, err := m.generate(ctx, fp, path); err != nil {
		return Result{Fingerprint: fp, Err: err}
	}
	return Result{Fingerprint: fp}
}

// generate coalesces concurrent requests: the first caller for a fingerprint
// starts the generation, later callers wait on the same flight. Generation
// runs detached from the caller's context so that a canceled caller still
// leaves a populated cache entry behind (inert if unused).
func (m *Manager) generate(ctx context.Context, fp Fingerprint, path string) ([]byte, error) {
	m.mu.Lock()
	if f, ok := m.inflight[fp]; ok {
		m.mu.Unlock()
		metrics.ThumbnailCoalescedRequests.Inc()
		return m.wait(ctx, f)
	}
	f := &flight{done: make(chan struct{})}
	m.inflight[fp] = f
	m.mu.Unlock()

	go m.run(f, fp, path)

	return m.wait(ctx, f)
}

func (m *Manager) wait(ctx context.Context, f *flight) ([]byte, error) {
	select {
	case <-f.done:
		return f.data, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) run(f *flight, fp Fingerprint, path string) {
	defer func() {
		m.mu.Lock()
		delete(m.inflight, fp)
		m.mu.Unlock()
		close(f.done)
	}()

	m.sem <- struct{}{}
	defer func() { <-m.sem }()

	// A concurrent request may have populated the entry between the miss
	// and slot acquisition.
	if data, ok := m.store.Get(fp); ok {
		f.data = data
		return
	}

	m.generations.Add(1)
	start := time.Now()

	gctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	data, err := m.gen.Generate(gctx, path, m.size)
	metrics.ThumbnailGenerationDuration.Observe(time.Since(start).Seconds())
	metrics.ThumbnailGenerationsTotal.WithLabelValues(generationStatus(err)).Inc()

	if err != nil {
		logging.Debug("Thumbnail generation failed for %s: %v", path, err)
		f.err = err
		return
	}

	if putErr := m.store.Put(fp, data); putErr != nil {
		// The caller still gets its bytes; only persistence failed.
		logging.Warn("Failed to cache thumbnail for %s: %v", path, putErr)
	}
	f.data = data
}

func generationStatus(err error) string {
	var decodeErr *DecodeError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUnsupportedFormat):
		return "error_unsupported"
	case errors.As(err, &decodeErr) && errors.Is(decodeErr.Err, context.DeadlineExceeded):
		return "error_timeout"
	default:
		return "error_decode"
	}
}
