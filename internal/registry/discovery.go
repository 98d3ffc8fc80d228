package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"metabind/internal/model"
)

// ModelProvider supplies domain models to discovery.
type ModelProvider interface {
	FindAll(ctx context.Context) ([]*model.DomainModel, error)
	Find(ctx context.Context, name string, version int) ([]*model.DomainModel, error)
}

// DiscoveryResult is the outcome of one discovery run.
type DiscoveryResult struct {
	// Registered lists identities registered by this run, in provider order.
	Registered []model.DomainIdentity
	// Rejected lists identities already registered or offered twice.
	Rejected []model.DomainIdentity
	// Err joins provider failures; other providers still contribute.
	Err error
}

// Discovery is a running or finished discovery.
type Discovery struct {
	done    chan struct{}
	timeout time.Duration
	result  DiscoveryResult
}

// Await blocks until discovery finishes, ctx ends or the registry's discovery
// timeout elapses; on timeout it returns ErrNotYetAvailable and discovery
// keeps running.
func (d *Discovery) Await(ctx context.Context) (DiscoveryResult, error) {
	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case <-d.done:
		return d.result, nil
	case <-timer.C:
		return DiscoveryResult{}, ErrNotYetAvailable
	case <-ctx.Done():
		return DiscoveryResult{}, ctx.Err()
	}
}

// Poll returns the result if discovery has finished.
func (d *Discovery) Poll() (DiscoveryResult, bool) {
	select {
	case <-d.done:
		return d.result, true
	default:
		return DiscoveryResult{}, false
	}
}

// Done is closed when discovery finishes.
func (d *Discovery) Done() <-chan struct{} { return d.done }

// Discover asks every provider for all its domain models and registers them.
// Providers run concurrently on a bounded pool. Duplicates are resolved in
// provider order: the first offer wins, later ones are rejected.
func (r *Registry) Discover(ctx context.Context, providers ...ModelProvider) *Discovery {
	return r.discover(ctx, providers, func(ctx context.Context, p ModelProvider) ([]*model.DomainModel, error) {
		return p.FindAll(ctx)
	})
}

// DiscoverDomain asks every provider for one domain identity.
func (r *Registry) DiscoverDomain(ctx context.Context, id model.DomainIdentity, providers ...ModelProvider) *Discovery {
	return r.discover(ctx, providers, func(ctx context.Context, p ModelProvider) ([]*model.DomainModel, error) {
		return p.Find(ctx, id.Name, id.Version)
	})
}

type findFunc func(ctx context.Context, p ModelProvider) ([]*model.DomainModel, error)

func (r *Registry) discover(ctx context.Context, providers []ModelProvider, find findFunc) *Discovery {
	d := &Discovery{done: make(chan struct{}), timeout: r.discoveryTimeout}

	go func() {
		defer close(d.done)
		d.result = r.runDiscovery(ctx, providers, find)
	}()

	return d
}

func (r *Registry) runDiscovery(ctx context.Context, providers []ModelProvider, find findFunc) DiscoveryResult {
	found := make([][]*model.DomainModel, len(providers))
	errs := make([]error, len(providers))

	var g errgroup.Group
	g.SetLimit(r.discoveryWorkers)

	for i, p := range providers {
		g.Go(func() error {
			dms, err := find(ctx, p)
			if err != nil {
				errs[i] = fmt.Errorf("provider %d: %w", i, err)
				return nil
			}
			found[i] = dms
			return nil
		})
	}

	_ = g.Wait()

	var res DiscoveryResult
	res.Err = errors.Join(errs...)

	offered := make(map[model.DomainIdentity]struct{})
	for _, dms := range found {
		for _, dm := range dms {
			if dm == nil {
				continue
			}

			id := dm.Identity()
			if _, dup := offered[id]; dup {
				res.Rejected = append(res.Rejected, id)
				continue
			}
			offered[id] = struct{}{}

			if err := r.Register(dm); err != nil {
				res.Rejected = append(res.Rejected, id)
				continue
			}
			res.Registered = append(res.Registered, id)
		}
	}

	r.logger.Info("discovery finished",
		"providers", len(providers),
		"registered", len(res.Registered),
		"rejected", len(res.Rejected),
		"error", res.Err)

	return res
}
