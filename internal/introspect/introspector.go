package introspect

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"metabind/internal/analyze"
	"metabind/internal/codec"
	"metabind/internal/match"
	"metabind/internal/model"
	"metabind/internal/provider"
)

// Resolver supplies models derived earlier, typically from a cache.
type Resolver interface {
	Lookup(id analyze.TypeID) (*model.ComponentModel, bool)
}

// Options tunes derivation.
type Options struct {
	// NameStyle derives component names from Go member names.
	NameStyle match.NameStyle
	// AllowUnresolved gives members without a codec the codec.Unresolved
	// placeholder instead of failing the model.
	AllowUnresolved bool
}

// Introspector derives component models. It holds no per-derivation state and
// may be used concurrently.
type Introspector struct {
	providers *provider.Registry
	codecs    *codec.Registry
	opts      Options
	logger    *slog.Logger
}

// Option configures an Introspector.
type Option func(*Introspector)

// WithOptions sets derivation options.
func WithOptions(opts Options) Option {
	return func(in *Introspector) { in.opts = opts }
}

// WithLogger sets the logger used for derivation traces.
func WithLogger(l *slog.Logger) Option {
	return func(in *Introspector) { in.logger = l }
}

// New returns an introspector over the given registries; nil registries are
// replaced by fresh ones with the built-ins.
func New(providers *provider.Registry, codecs *codec.Registry, opts ...Option) *Introspector {
	if providers == nil {
		providers = provider.NewRegistry()
	}

	if codecs == nil {
		codecs = codec.NewRegistry()
	}

	in := &Introspector{
		providers: providers,
		codecs:    codecs,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(in)
	}

	if in.opts.NameStyle == "" {
		in.opts.NameStyle = match.NameStyleCamel
	}

	return in
}

// Codecs returns the codec registry used for resolution.
func (in *Introspector) Codecs() *codec.Registry { return in.codecs }

// Derive builds the model of t, deriving every nested type anew.
func (in *Introspector) Derive(t *analyze.TypeInfo) (*model.ComponentModel, error) {
	m, _, err := in.DeriveWith(nil, t)
	return m, err
}

// DeriveWith builds the model of t, taking nested models from r when
// available. It also returns every model derived in the session,
// dependencies first, root last. On error nothing is returned.
func (in *Introspector) DeriveWith(r Resolver, t *analyze.TypeInfo) (*model.ComponentModel, []*model.ComponentModel, error) {
	if t == nil {
		return nil, nil, model.NewModelError("<nil>", "no type descriptor", nil)
	}

	s := newSession(r)

	m, err := in.deriveType(s, t)
	if err != nil {
		return nil, nil, err
	}

	in.logger.Debug("model derived", "type", t.ID.String(), "models", len(s.done))

	return m, s.done, nil
}

// deriveType returns the root model of a struct type.
func (in *Introspector) deriveType(s *session, t *analyze.TypeInfo) (_ *model.ComponentModel, err error) {
	t = t.Deref()
	if t == nil || t.Kind != analyze.TypeKindStruct {
		return nil, model.NewModelError(analyze.TypeString(t), "only struct types have root models", nil)
	}

	if m, ok := s.lookup(t.ID); ok {
		return m, nil
	}

	b := model.NewRoot(t.TypeName(), t).Params(t.Markers)
	s.begin(t.ID, b.Model())
	defer func() { s.end(t.ID, err != nil) }()

	if t.Parent != nil {
		parent := t.Parent.Deref()
		if s.inProgress(parent.ID) {
			return nil, model.NewModelError(t.TypeName(), "inheritance cycle through "+parent.TypeName(), nil)
		}

		base, err := in.deriveType(s, parent)
		if err != nil {
			return nil, err
		}

		b.Base(base, t.ParentIndex)
	}

	var errs []error

	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Operation {
			continue
		}

		c, ferr := in.deriveField(s, t, f)
		if ferr != nil {
			errs = append(errs, ferr)
			continue
		}

		b.Add(c)
	}

	switch len(errs) {
	case 0:
	case 1:
		return nil, errs[0]
	default:
		return nil, errors.Join(errs...)
	}

	m, err := b.Build()
	if err != nil {
		return nil, err
	}

	s.finish(m)

	return m, nil
}

func (in *Introspector) deriveField(s *session, owner *analyze.TypeInfo, f *analyze.FieldInfo) (*model.ComponentModel, error) {
	name := f.Rename
	if name == "" {
		name = match.DeriveName(f.Name, in.opts.NameStyle)
	}

	path := owner.TypeName() + "." + name

	attrs, constraints, err := in.providers.Construct(f.Markers)
	if err != nil {
		return nil, model.NewModelError(owner.TypeName(), "invalid marker", err, path)
	}

	// Sparse and transient members are never transformed.
	lenient := in.opts.AllowUnresolved
	for _, a := range attrs {
		if a.Role == model.RoleSparse || a.Role == model.RoleTransient {
			lenient = true
		}
	}

	p := position{name: name, path: path, owner: owner.TypeName(), markers: f.Markers, lenient: lenient}

	b, err := in.derivePosition(s, p, f.Type)
	if err != nil {
		return nil, err
	}

	b.Aliases(f.Markers.Values(analyze.MarkerAlias)...).
		Attributes(attrs...).
		Constraints(constraints...).
		Index(f.Index).
		Optional(f.Type.Kind == analyze.TypeKindPointer)

	return b.Build()
}

// position carries what the components of one member share.
type position struct {
	name    string
	path    string
	owner   string
	markers analyze.Markers
	lenient bool
}

func (in *Introspector) derivePosition(s *session, p position, declared *analyze.TypeInfo) (*model.Builder, error) {
	t := declared.Deref()
	if t == nil {
		return nil, model.NewReflectionModelError(p.owner, p.path, "undefined value type", nil)
	}

	sh := in.dispatch(t)
	if name, ok := p.markers.Get(analyze.MarkerCodec); ok && name != "" && sh == shapeComposite {
		sh = shapeScalar
	}

	switch sh {
	case shapeScalar, shapeDynamic:
		c, err := in.resolveCodec(p, t)
		if err != nil {
			return nil, err
		}

		return model.NewComponent(p.name, model.KindScalar, declared).Codec(c).Params(p.markers), nil

	case shapeComposite:
		nested, err := in.deriveType(s, t)
		if err != nil {
			return nil, err
		}

		return model.NewComponent(p.name, model.KindObject, declared).Ref(nested).Params(p.markers), nil

	case shapeArray:
		elem, err := in.element(s, p, t.ElemType)
		if err != nil {
			return nil, err
		}

		return model.NewComponent(p.name, model.KindArray, declared).Elem(elem).Params(p.markers), nil

	case shapeMap:
		keyType := t.KeyType.Deref()
		if keyType == nil || in.dispatch(keyType) != shapeScalar {
			return nil, model.NewReflectionModelError(p.owner, p.path,
				"map key "+analyze.TypeString(t.KeyType)+" is not a scalar", nil)
		}

		key, err := in.element(s, p, t.KeyType)
		if err != nil {
			return nil, err
		}

		elem, err := in.element(s, p, t.ElemType)
		if err != nil {
			return nil, err
		}

		return model.NewComponent(p.name, model.KindMap, declared).Key(key).Elem(elem).Params(p.markers), nil

	default:
		if p.lenient {
			return model.NewComponent(p.name, model.KindScalar, declared).Codec(codec.Unresolved).Params(p.markers), nil
		}

		return nil, model.NewReflectionModelError(p.owner, p.path,
			"value type "+analyze.TypeString(t)+" cannot be modeled", nil)
	}
}

// element derives the synthetic element or key model of a collection.
func (in *Introspector) element(s *session, p position, t *analyze.TypeInfo) (*model.ComponentModel, error) {
	b, err := in.derivePosition(s, p, t)
	if err != nil {
		return nil, err
	}

	return b.Build()
}

func (in *Introspector) resolveCodec(p position, t *analyze.TypeInfo) (codec.Codec, error) {
	for _, markers := range []analyze.Markers{p.markers, t.Markers} {
		name, ok := markers.Get(analyze.MarkerCodec)
		if !ok || name == "" {
			continue
		}

		c, err := in.codecs.New(name)
		if err != nil {
			return nil, model.NewReflectionModelError(p.owner, p.path, "codec "+name, err)
		}

		return c, nil
	}

	if t.IsNamed() {
		if c, ok := in.codecs.ForType(t.ID); ok {
			return c, nil
		}
	}

	if t.IsScalar() {
		if c, ok := in.codecs.ForKind(t.Scalar); ok {
			return c, nil
		}
	}

	if p.lenient {
		in.logger.Debug("codec unresolved", "path", p.path, "type", analyze.TypeString(t))
		return codec.Unresolved, nil
	}

	return nil, model.NewReflectionModelError(p.owner, p.path,
		fmt.Sprintf("no codec for %s", analyze.TypeString(t)), nil)
}
