package registry

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metabind/internal/analyze"
	"metabind/internal/model"
)

type customer struct {
	ID   string `meta:",id"`
	Name string `meta:",notnull"`
}

type line struct {
	SKU string
	Qty int32
}

type order struct {
	ID       int64 `meta:",id"`
	Customer customer
	Lines    []line
}

type broken struct {
	C chan int
}

func newRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()

	r, err := New(nil, opts...)
	require.NoError(t, err)

	return r
}

func TestGetOrDerive_Concurrent(t *testing.T) {
	r := newRegistry(t)
	info := analyze.Of[order]()

	const n = 32
	results := make([]*model.ComponentModel, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := r.GetOrDerive(info)
			assert.NoError(t, err)
			results[i] = m
		}()
	}
	wg.Wait()

	for _, m := range results {
		assert.Same(t, results[0], m)
	}

	stats := r.Stats()
	assert.Equal(t, uint64(1), stats.Derivations)
	assert.Equal(t, uint64(n), stats.Hits+stats.Misses)
}

func TestGetOrDerive_CachesNested(t *testing.T) {
	r := newRegistry(t)

	m, err := ModelOf[order](r)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Stats().Cached)

	c, err := ModelOf[customer](r)
	require.NoError(t, err)

	member, _ := m.Member("customer")
	assert.Same(t, c, member.Ref())
	assert.Equal(t, uint64(1), r.Stats().Derivations)
	assert.Equal(t, uint64(1), r.Stats().Hits)
}

func TestEvict_RederivesIdentical(t *testing.T) {
	r := newRegistry(t)

	first, err := r.Of(reflect.TypeFor[order]())
	require.NoError(t, err)

	require.True(t, r.Evict(analyze.Of[order]().ID))
	assert.False(t, r.Evict(analyze.Of[order]().ID))

	second, err := r.Of(reflect.TypeFor[order]())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, model.Describe(first), model.Describe(second))
	assert.Equal(t, uint64(2), r.Stats().Derivations)

	r.Purge()
	assert.Zero(t, r.Stats().Cached)
}

func TestCapacity_Evicts(t *testing.T) {
	r := newRegistry(t, WithCapacity(2))

	_, err := ModelOf[order](r)
	require.NoError(t, err)

	stats := r.Stats()
	assert.Equal(t, 2, stats.Cached)
	assert.Equal(t, uint64(1), stats.Evictions)
}

func TestGetOrDerive_FailureNotCached(t *testing.T) {
	r := newRegistry(t)

	_, err := ModelOf[broken](r)
	require.ErrorIs(t, err, model.ErrModel)

	_, err = ModelOf[broken](r)
	require.ErrorIs(t, err, model.ErrModel)

	stats := r.Stats()
	assert.Equal(t, uint64(2), stats.Failures)
	assert.Zero(t, stats.Cached)
}

func domain(t *testing.T, r *Registry, name string, version int) *model.DomainModel {
	t.Helper()

	m, err := ModelOf[customer](r)
	require.NoError(t, err)

	dm, err := model.NewDomainModel(model.DomainIdentity{Name: name, Version: version}, m)
	require.NoError(t, err)

	return dm
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	r := newRegistry(t)

	first := domain(t, r, "crm", 1)
	require.NoError(t, r.Register(first))

	err := r.Register(domain(t, r, "crm", 2), domain(t, r, "crm", 1))
	require.ErrorIs(t, err, ErrDuplicateDomain)

	// nothing from the failed batch was registered
	_, ok := r.FindDomain("crm", 2)
	assert.False(t, ok)

	got, ok := r.FindDomain("crm", 1)
	require.True(t, ok)
	assert.Same(t, first, got)

	err = r.Register(domain(t, r, "x", 0), domain(t, r, "x", 0))
	require.ErrorIs(t, err, ErrDuplicateDomain)
	assert.Len(t, r.Domains(), 1)
}

func TestDiscover_FirstWins(t *testing.T) {
	r := newRegistry(t)
	id := model.DomainIdentity{Name: "shop", Version: 1}

	p1 := NewStaticProvider(r, id, analyze.Of[order]())
	p2 := NewStaticProvider(r, id, analyze.Of[customer]())
	p3 := NewStaticProvider(r, model.DomainIdentity{Name: "crm", Version: 3}, analyze.Of[customer]())

	res, err := r.Discover(context.Background(), p1, p2, p3).Await(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Err)

	assert.Equal(t, []model.DomainIdentity{id, {Name: "crm", Version: 3}}, res.Registered)
	assert.Equal(t, []model.DomainIdentity{id}, res.Rejected)

	dm, ok := r.FindDomain("shop", 1)
	require.True(t, ok)
	_, ok = dm.Root("order")
	assert.True(t, ok)

	res, err = r.DiscoverDomain(context.Background(), id, p1).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.DomainIdentity{id}, res.Rejected)
}

type blockingProvider struct {
	release chan struct{}
}

func (p blockingProvider) FindAll(ctx context.Context) ([]*model.DomainModel, error) {
	select {
	case <-p.release:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p blockingProvider) Find(ctx context.Context, _ string, _ int) ([]*model.DomainModel, error) {
	return p.FindAll(ctx)
}

type failingProvider struct{}

func (failingProvider) FindAll(context.Context) ([]*model.DomainModel, error) {
	return nil, errors.New("unreachable catalog")
}

func (failingProvider) Find(context.Context, string, int) ([]*model.DomainModel, error) {
	return nil, errors.New("unreachable catalog")
}

func TestDiscovery_Timeout(t *testing.T) {
	r := newRegistry(t, WithDiscovery(20*time.Millisecond, 1))
	p := blockingProvider{release: make(chan struct{})}

	d := r.Discover(context.Background(), p)

	_, err := d.Await(context.Background())
	require.ErrorIs(t, err, ErrNotYetAvailable)

	_, done := d.Poll()
	assert.False(t, done)

	close(p.release)
	<-d.Done()

	res, done := d.Poll()
	assert.True(t, done)
	assert.Empty(t, res.Registered)
}

func TestDiscovery_ProviderError(t *testing.T) {
	r := newRegistry(t)
	id := model.DomainIdentity{Name: "shop", Version: 1}

	res, err := r.Discover(context.Background(), failingProvider{}, NewStaticProvider(r, id, analyze.Of[line]())).
		Await(context.Background())
	require.NoError(t, err)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "unreachable catalog")
	assert.Equal(t, []model.DomainIdentity{id}, res.Registered)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := newRegistry(t, WithMetrics(reg, "metabind"))

	_, err := ModelOf[order](r)
	require.NoError(t, err)
	_, err = ModelOf[order](r)
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(r.metrics.derivations), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.metrics.hits), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.metrics.misses), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(r.metrics.size), 0)

	// a second registry cannot register the same collectors
	_, err = New(nil, WithMetrics(reg, "metabind"))
	require.Error(t, err)
}
