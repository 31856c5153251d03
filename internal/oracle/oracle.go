// Package oracle wraps the external membership oracle the inference
// pipeline probes: a black box that accepts or rejects a candidate string.
// The wrapper is the only thing the pipeline ever talks to directly -- it
// owns caching, timeout handling, and call/time accounting so that every
// other package can treat "ask the oracle" as a single cheap boolean call.
package oracle

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/dekarrin/grammarinfer/internal/ginferrors"
	"golang.org/x/crypto/blake2b"
)

// Verdict is the oracle's answer for a single candidate string.
type Verdict int

const (
	// Reject means the oracle denied the candidate.
	Reject Verdict = iota
	// Accept means the oracle admitted the candidate into the language.
	Accept
)

func (v Verdict) Bool() bool { return v == Accept }

// Backend is the external decision procedure itself: Parse(s) answers
// accept/reject for one candidate string, or returns a non-nil error for
// anything else that went wrong contacting it (treated as Reject by the
// Wrapper, conservatively, per the "refuse to widen on uncertain evidence"
// policy).
type Backend interface {
	Parse(ctx context.Context, candidate string) (Verdict, error)
}

// DefaultTimeout is the bound any Wrapper call imposes on a single Backend
// probe before folding the result to Accept.
const DefaultTimeout = 3 * time.Second

// PersistentCache is implemented by a store that can survive across runs. A
// Wrapper configured with one consults it before calling the Backend and
// writes through to it after. It is safe to use because Backend.Parse is
// assumed to be a pure function of its input for the run's lifetime (and,
// for a PersistentCache, across runs of the same guide-example set).
type PersistentCache interface {
	Get(candidate string) (Verdict, bool, error)
	Put(candidate string, v Verdict) error
}

// Stats are the counters and timings the Wrapper accumulates over its
// lifetime.
type Stats struct {
	Calls        int
	CacheHits    int
	Timeouts     int
	TotalWallTime time.Duration
}

// Wrapper is the oracle contract the inference pipeline consumes: a single
// Parse(string) operation. It caches by exact string key so that each
// unique candidate is probed at most once per run, serializes access to the
// backend (the backend may own a subprocess or a long-lived session and is
// not assumed to be concurrency-safe), and bounds every call by Timeout.
type Wrapper struct {
	backend   Backend
	timeout   time.Duration
	persisted PersistentCache

	mu    sync.Mutex
	cache map[string]Verdict
	stats Stats
}

// New returns a Wrapper around backend with the given timeout. A zero
// timeout is replaced with DefaultTimeout.
func New(backend Backend, timeout time.Duration) *Wrapper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Wrapper{
		backend: backend,
		timeout: timeout,
		cache:   map[string]Verdict{},
	}
}

// WithPersistentCache attaches a PersistentCache that is consulted before,
// and written through after, every Backend call. Returns w for chaining.
func (w *Wrapper) WithPersistentCache(pc PersistentCache) *Wrapper {
	w.persisted = pc
	return w
}

// cacheKey collapses an arbitrarily long candidate string into a fixed-size
// digest for the in-memory cache, so a run over many long candidate strings
// doesn't keep every one of them alive twice (once as a map key, once in
// whatever produced it).
func cacheKey(candidate string) string {
	sum := blake2b.Sum256([]byte(candidate))
	return hex.EncodeToString(sum[:])
}

// Parse answers accept/reject for candidate, probing the backend at most
// once per unique candidate for the lifetime of w. A Backend that exceeds
// w.timeout is folded to Accept -- a deliberate conservative bias toward
// fewer rejections (see package oracle doc).
func (w *Wrapper) Parse(candidate string) bool {
	key := cacheKey(candidate)

	w.mu.Lock()
	if v, ok := w.cache[key]; ok {
		w.stats.CacheHits++
		w.mu.Unlock()
		return v.Bool()
	}
	w.mu.Unlock()

	if w.persisted != nil {
		if v, ok, err := w.persisted.Get(candidate); err == nil && ok {
			w.mu.Lock()
			w.cache[key] = v
			w.stats.CacheHits++
			w.mu.Unlock()
			return v.Bool()
		}
	}

	verdict := w.probe(candidate)

	w.mu.Lock()
	w.cache[key] = verdict
	w.mu.Unlock()

	if w.persisted != nil {
		_ = w.persisted.Put(candidate, verdict)
	}

	return verdict.Bool()
}

func (w *Wrapper) probe(candidate string) Verdict {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	type result struct {
		v   Verdict
		err error
	}
	done := make(chan result, 1)

	start := time.Now()
	go func() {
		v, err := w.backend.Parse(ctx, candidate)
		done <- result{v, err}
	}()

	var verdict Verdict
	select {
	case res := <-done:
		switch {
		case res.err == nil:
			verdict = res.v
		case ctx.Err() != nil:
			// the backend came back after (or because of) the deadline:
			// timeout folds to accept, never to reject.
			w.mu.Lock()
			w.stats.Timeouts++
			w.mu.Unlock()
			verdict = Accept
		default:
			// internal backend errors beyond reject/timeout are treated as
			// reject: refuse to widen the language on uncertain evidence.
			verdict = Reject
		}
	case <-ctx.Done():
		w.mu.Lock()
		w.stats.Timeouts++
		w.mu.Unlock()
		verdict = Accept
	}

	w.mu.Lock()
	w.stats.Calls++
	w.stats.TotalWallTime += time.Since(start)
	w.mu.Unlock()

	return verdict
}

// Stats returns a snapshot of the counters accumulated so far.
func (w *Wrapper) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// CheckSetup runs the empty-replacement sanity check: replacing "" with ""
// in every guide example is a no-op, so each example must still be accepted
// verbatim by the oracle. If any guide example is rejected here, the guide
// examples themselves do not compile and the whole pipeline must abort
// before doing any real inference work.
func (w *Wrapper) CheckSetup(guideExamples []string) error {
	for _, ex := range guideExamples {
		if !w.Parse(ex) {
			return ginferrors.GuideExamplesDoNotCompile()
		}
	}
	return nil
}
