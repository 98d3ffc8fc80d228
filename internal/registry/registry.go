package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"metabind/internal/analyze"
	"metabind/internal/introspect"
	"metabind/internal/model"
)

// Defaults applied when options leave them unset.
const (
	DefaultCapacity         = 1024
	DefaultDiscoveryTimeout = 2 * time.Minute
	DefaultDiscoveryWorkers = 4
)

var (
	// ErrDuplicateDomain is returned when a domain identity is registered twice.
	ErrDuplicateDomain = errors.New("domain already registered")
	// ErrNotYetAvailable is returned by Discovery.Await on timeout.
	ErrNotYetAvailable = errors.New("discovery not yet available")
)

// Stats is a snapshot of registry counters.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Derivations uint64
	Failures    uint64
	Evictions   uint64
	Cached      int
	Domains     int
}

// Registry caches models by type and domain models by identity. It is safe for
// concurrent use.
type Registry struct {
	intro            *introspect.Introspector
	analyzer         *analyze.Analyzer
	logger           *slog.Logger
	capacity         int
	discoveryTimeout time.Duration
	discoveryWorkers int
	metricsReg       prometheus.Registerer
	metricsNamespace string

	mu    sync.RWMutex // guards cache
	cache *lru

	flight   singleflight.Group
	deriveMu sync.Mutex // serializes derivations

	domainMu    sync.RWMutex
	domains     map[model.DomainIdentity]*model.DomainModel
	domainOrder []model.DomainIdentity

	hits        atomic.Uint64
	misses      atomic.Uint64
	derivations atomic.Uint64
	failures    atomic.Uint64
	evictions   atomic.Uint64

	metrics *registryMetrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithCapacity bounds the number of cached models; n <= 0 disables eviction.
func WithCapacity(n int) Option {
	return func(r *Registry) { r.capacity = n }
}

// WithDiscovery sets the discovery await timeout and worker count.
func WithDiscovery(timeout time.Duration, workers int) Option {
	return func(r *Registry) {
		if timeout > 0 {
			r.discoveryTimeout = timeout
		}
		if workers > 0 {
			r.discoveryWorkers = workers
		}
	}
}

// WithMetrics exposes registry counters as Prometheus metrics.
func WithMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(r *Registry) {
		r.metricsReg = reg
		r.metricsNamespace = namespace
	}
}

// WithAnalyzer sets the analyzer used by Of.
func WithAnalyzer(a *analyze.Analyzer) Option {
	return func(r *Registry) { r.analyzer = a }
}

// New creates a registry deriving models with in. A nil introspector uses
// the built-in providers and codecs.
func New(in *introspect.Introspector, opts ...Option) (*Registry, error) {
	if in == nil {
		in = introspect.New(nil, nil)
	}

	r := &Registry{
		intro:            in,
		analyzer:         analyze.NewAnalyzer(),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		capacity:         DefaultCapacity,
		discoveryTimeout: DefaultDiscoveryTimeout,
		discoveryWorkers: DefaultDiscoveryWorkers,
		domains:          make(map[model.DomainIdentity]*model.DomainModel),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.cache = newLRU(r.capacity)

	if r.metricsReg != nil {
		metrics, err := newRegistryMetrics(r.metricsReg, r.metricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("registry: metrics registration: %w", err)
		}
		r.metrics = metrics
	}

	return r, nil
}

// Introspector returns the introspector used for derivation.
func (r *Registry) Introspector() *introspect.Introspector { return r.intro }

// GetOrDerive returns the cached model of t, deriving it on first use.
func (r *Registry) GetOrDerive(t *analyze.TypeInfo) (*model.ComponentModel, error) {
	t = t.Deref()
	if t == nil {
		return nil, model.NewModelError("<nil>", "no type descriptor", nil)
	}

	r.mu.Lock()
	m, ok := r.cache.get(t.ID)
	r.mu.Unlock()

	if ok {
		r.hits.Add(1)
		r.metrics.recordHit()
		return m, nil
	}

	r.misses.Add(1)
	r.metrics.recordMiss()

	v, err, _ := r.flight.Do(t.ID.String(), func() (any, error) {
		return r.derive(t)
	})
	if err != nil {
		return nil, err
	}

	return v.(*model.ComponentModel), nil
}

func (r *Registry) derive(t *analyze.TypeInfo) (*model.ComponentModel, error) {
	r.deriveMu.Lock()
	defer r.deriveMu.Unlock()

	// An earlier flight may have finished between the miss and this call.
	if m, ok := r.Lookup(t.ID); ok {
		return m, nil
	}

	start := time.Now()

	root, derived, err := r.intro.DeriveWith(r, t)
	if err != nil {
		r.failures.Add(1)
		r.metrics.recordDerivation(false)
		r.logger.Warn("model derivation failed", "type", t.ID.String(), "error", err)

		return nil, err
	}

	r.derivations.Add(1)
	r.metrics.recordDerivation(true)

	r.mu.Lock()
	var evicted []analyze.TypeID
	for _, m := range derived {
		evicted = append(evicted, r.cache.put(m.TypeID(), m)...)
	}
	size := r.cache.len()
	r.mu.Unlock()

	r.evictions.Add(uint64(len(evicted)))
	r.metrics.recordEvictions(len(evicted))
	r.metrics.updateSize(size)

	r.logger.Debug("model derived",
		"type", t.ID.String(),
		"models", len(derived),
		"evicted", len(evicted),
		"elapsed", time.Since(start))

	return root, nil
}

// Lookup returns a cached model without deriving or touching recency.
func (r *Registry) Lookup(id analyze.TypeID) (*model.ComponentModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.cache.peek(id)
}

// Of returns the model of a Go type.
func (r *Registry) Of(t reflect.Type) (*model.ComponentModel, error) {
	return r.GetOrDerive(r.analyzer.Analyze(t))
}

// ModelOf returns the model of T.
func ModelOf[T any](r *Registry) (*model.ComponentModel, error) {
	return r.Of(reflect.TypeFor[T]())
}

// Evict drops the cached model of id.
func (r *Registry) Evict(id analyze.TypeID) bool {
	r.mu.Lock()
	ok := r.cache.remove(id)
	size := r.cache.len()
	r.mu.Unlock()

	if ok {
		r.evictions.Add(1)
		r.metrics.recordEvictions(1)
		r.metrics.updateSize(size)
	}

	return ok
}

// Purge drops every cached model. Registered domains are kept.
func (r *Registry) Purge() {
	r.mu.Lock()
	n := r.cache.clear()
	r.mu.Unlock()

	r.evictions.Add(uint64(n))
	r.metrics.recordEvictions(n)
	r.metrics.updateSize(0)
}

// Register adds domain models. The batch is atomic: if any identity is
// already registered, or repeated within the batch, nothing is registered.
func (r *Registry) Register(dms ...*model.DomainModel) error {
	r.domainMu.Lock()
	defer r.domainMu.Unlock()

	batch := make(map[model.DomainIdentity]struct{}, len(dms))
	for _, dm := range dms {
		if dm == nil {
			return errors.New("registry: nil domain model")
		}

		id := dm.Identity()
		if _, ok := r.domains[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateDomain, id)
		}
		if _, ok := batch[id]; ok {
			return fmt.Errorf("%w: %s repeated in batch", ErrDuplicateDomain, id)
		}
		batch[id] = struct{}{}
	}

	for _, dm := range dms {
		r.domains[dm.Identity()] = dm
		r.domainOrder = append(r.domainOrder, dm.Identity())
		r.logger.Info("domain registered", "domain", dm.Identity().String(), "roots", dm.Len())
	}

	r.metrics.updateDomains(len(r.domains))

	return nil
}

// FindDomain returns the domain registered under name and version.
func (r *Registry) FindDomain(name string, version int) (*model.DomainModel, bool) {
	r.domainMu.RLock()
	defer r.domainMu.RUnlock()

	dm, ok := r.domains[model.DomainIdentity{Name: name, Version: version}]

	return dm, ok
}

// Domains returns registered domains in registration order.
func (r *Registry) Domains() []*model.DomainModel {
	r.domainMu.RLock()
	defer r.domainMu.RUnlock()

	out := make([]*model.DomainModel, len(r.domainOrder))
	for i, id := range r.domainOrder {
		out[i] = r.domains[id]
	}

	return out
}

// Stats returns a snapshot of the counters.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	cached := r.cache.len()
	r.mu.RUnlock()

	r.domainMu.RLock()
	domains := len(r.domains)
	r.domainMu.RUnlock()

	return Stats{
		Hits:        r.hits.Load(),
		Misses:      r.misses.Load(),
		Derivations: r.derivations.Load(),
		Failures:    r.failures.Load(),
		Evictions:   r.evictions.Load(),
		Cached:      cached,
		Domains:     domains,
	}
}
