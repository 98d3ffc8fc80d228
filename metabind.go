// Package metabind derives component models from Go types or YAML schemas,
// binds instance data to them and validates the result.
//
// An Engine wires the pieces together: a model registry caching derived
// models, the binder and the validator.
//
//	e, err := metabind.New()
//	bd, err := e.Validate(order)
//
// Models are immutable and the Engine is safe for concurrent use.
package metabind

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"

	"metabind/internal/bind"
	"metabind/internal/codec"
	"metabind/internal/config"
	"metabind/internal/introspect"
	"metabind/internal/match"
	"metabind/internal/model"
	"metabind/internal/provider"
	"metabind/internal/registry"
	"metabind/internal/schema"
	"metabind/internal/stream"
	"metabind/internal/validate"
)

// Engine derives, binds and validates. It is safe for concurrent use.
type Engine struct {
	cfg    *config.Config
	reg    *registry.Registry
	binder *bind.Binder
	logger *slog.Logger
}

type options struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   prometheus.Registerer
	providers *provider.Registry
	codecs    *codec.Registry
}

// Option configures an Engine.
type Option func(*options)

// WithConfig sets the configuration. The default is config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics registers registry metrics on reg when metrics are enabled in
// the configuration. Without it prometheus.DefaultRegisterer is used.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.metrics = reg }
}

// WithProviders replaces the attribute and constraint providers.
func WithProviders(p *provider.Registry) Option {
	return func(o *options) { o.providers = p }
}

// WithCodecs replaces the codec registry.
func WithCodecs(c *codec.Registry) Option {
	return func(o *options) { o.codecs = c }
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.cfg == nil {
		o.cfg = config.Default()
	}

	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	style, err := match.ParseNameStyle(o.cfg.Introspect.NameStyle)
	if err != nil {
		return nil, err
	}

	in := introspect.New(o.providers, o.codecs,
		introspect.WithOptions(introspect.Options{
			NameStyle:       style,
			AllowUnresolved: o.cfg.Introspect.AllowUnresolved,
		}),
		introspect.WithLogger(o.logger),
	)

	regOpts := []registry.Option{
		registry.WithLogger(o.logger),
		registry.WithCapacity(o.cfg.Registry.Capacity),
		registry.WithDiscovery(o.cfg.Registry.Discovery.Timeout, o.cfg.Registry.Discovery.Workers),
	}

	if o.cfg.Metrics.Enabled {
		metrics := o.metrics
		if metrics == nil {
			metrics = prometheus.DefaultRegisterer
		}
		regOpts = append(regOpts, registry.WithMetrics(metrics, o.cfg.Metrics.Namespace))
	}

	reg, err := registry.New(in, regOpts...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:    o.cfg,
		reg:    reg,
		binder: bind.New(bind.WithLogger(o.logger)),
		logger: o.logger,
	}, nil
}

// Registry returns the model registry.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Model returns the model of v's type. v may be a reflect.Type.
func (e *Engine) Model(v any) (*model.ComponentModel, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		if v == nil {
			return nil, errors.New("metabind: nil value has no model")
		}
		t = reflect.TypeOf(v)
	}

	return e.reg.Of(t)
}

// ModelOf returns the model of T.
func ModelOf[T any](e *Engine) (*model.ComponentModel, error) {
	return e.reg.Of(reflect.TypeFor[T]())
}

// Bind binds a Go value to the model of its type.
func (e *Engine) Bind(v any) (*bind.BoundData, error) {
	m, err := e.Model(v)
	if err != nil {
		return nil, err
	}

	return e.binder.Bind(m, v)
}

// BindTo binds a Go value or document to m.
func (e *Engine) BindTo(m *model.ComponentModel, v any) (*bind.BoundData, error) {
	return e.binder.Bind(m, v)
}

// BindStream reads one framed record from r and binds it to m.
func (e *Engine) BindStream(m *model.ComponentModel, r io.Reader) (*bind.BoundData, error) {
	return e.binder.BindStream(m, r)
}

// WriteStream encodes bound data as one framed record to w.
func (e *Engine) WriteStream(bd *bind.BoundData, w io.Writer) error {
	rec, err := bind.Encode(bd)
	if err != nil {
		return err
	}

	return stream.WithWriter(w, func(bw stream.ByteWriter) error {
		return rec.Encode(bw)
	})
}

// Validate binds v to the model of its type and checks both structure and
// data constraints.
func (e *Engine) Validate(v any) (*bind.BoundData, error) {
	m, err := e.Model(v)
	if err != nil {
		return nil, err
	}

	return e.ValidateTo(m, v)
}

// ValidateTo binds v to m and checks both structure and data constraints.
func (e *Engine) ValidateTo(m *model.ComponentModel, v any) (*bind.BoundData, error) {
	bd, err := e.binder.Bind(m, v)
	if err != nil {
		return nil, err
	}

	return bd, Check(m, bd)
}

// Check runs both validations on bound data.
func Check(m *model.ComponentModel, bd *bind.BoundData) error {
	return errors.Join(validate.Validate(m, bd), validate.ValidateData(m, bd))
}

// LoadSchema builds a schema file and registers its domains.
func (e *Engine) LoadSchema(ctx context.Context, path string) (registry.DiscoveryResult, error) {
	cat, err := schema.Load(path)
	if err != nil {
		return registry.DiscoveryResult{}, err
	}

	return e.Discover(ctx, schema.NewProvider(e.reg, cat))
}

// LoadSchemas loads every schema file named in the configuration.
func (e *Engine) LoadSchemas(ctx context.Context) error {
	var errs []error

	for _, path := range e.cfg.Schemas {
		res, err := e.LoadSchema(ctx, path)
		if err == nil {
			err = res.Err
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("schema %s: %w", path, err))
		}
	}

	return errors.Join(errs...)
}

// Discover runs providers and waits for the result.
func (e *Engine) Discover(ctx context.Context, providers ...registry.ModelProvider) (registry.DiscoveryResult, error) {
	res, err := e.reg.Discover(ctx, providers...).Await(ctx)
	if err != nil {
		return res, err
	}

	e.logger.Info("domains discovered",
		"registered", len(res.Registered), "rejected", len(res.Rejected))

	return res, nil
}

// Domain returns a registered domain's root by name.
func (e *Engine) Domain(name string, version int) (*model.DomainModel, bool) {
	return e.reg.FindDomain(name, version)
}

// Describe renders a model tree followed by the composite models it
// references, each once.
func Describe(m *model.ComponentModel) string {
	return model.DescribeTree(m)
}
