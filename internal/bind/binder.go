package bind

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"metabind/internal/codec"
	"metabind/internal/diagnostic"
	"metabind/internal/match"
	"metabind/internal/model"
)

// Binder binds instance data to component models. It holds no per-call
// state and is safe for concurrent use.
type Binder struct {
	logger   *slog.Logger
	minScore float64
	identity func() string
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger used for bind diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithSuggestionScore sets the similarity a model path needs to be offered
// as the suggestion for unmapped data.
func WithSuggestionScore(score float64) Option {
	return func(b *Binder) { b.minScore = score }
}

// WithIdentityFunc replaces the random identity given to instances of models
// without an identity member.
func WithIdentityFunc(fn func() string) Option {
	return func(b *Binder) {
		if fn != nil {
			b.identity = fn
		}
	}
}

// New creates a Binder.
func New(opts ...Option) *Binder {
	b := &Binder{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		minScore: match.DefaultMinScore,
		identity: uuid.NewString,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

var defaultBinder = New()

// Bind binds instance to m with the default binder.
func Bind(m *model.ComponentModel, instance any) (*BoundData, error) {
	return defaultBinder.Bind(m, instance)
}

// Bind binds a Go struct value (or pointer to one) or a dynamic document to
// m. Documents are maps with string keys.
func (b *Binder) Bind(m *model.ComponentModel, instance any) (*BoundData, error) {
	if m == nil {
		return nil, errors.New("bind: nil model")
	}

	if instance == nil {
		return nil, bindErr(m.Name(), "", nil, "nil instance")
	}

	rv := reflect.ValueOf(instance)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, bindErr(m.Name(), "", nil, "nil instance")
		}
		rv = rv.Elem()
	}

	s := b.newState(m)

	switch {
	case rv.Kind() == reflect.Struct:
		if err := checkType(m, rv.Type()); err != nil {
			return nil, err
		}
		s.walkStruct(m, rv, "", position{ordinal: NoOrdinal})

	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		s.walkDocument(m, documentOf(rv), "", position{ordinal: NoOrdinal})

	default:
		return nil, bindErr(m.Name(), "", nil, "unreadable instance of type %s", rv.Type())
	}

	return s.finish()
}

func checkType(m *model.ComponentModel, t reflect.Type) error {
	info := m.Type()
	if info == nil || info.Deref().GoType == nil {
		return bindErr(m.Name(), "", nil, "model has no Go type, bind a document instead")
	}

	if want := info.Deref().GoType; want != t {
		return bindErr(m.Name(), "", nil, "instance of type %s does not match %s", t, want)
	}

	return nil
}

// position is the collection context of a component.
type position struct {
	key     string
	ordinal int
}

// state is the per-call binding state.
type state struct {
	b     *Binder
	bd    *BoundData
	known []string
	// active holds the pointers on the current walk, for cycle detection.
	active map[uintptr]bool
}

func (b *Binder) newState(m *model.ComponentModel) *state {
	return &state{
		b:      b,
		bd:     newBoundData(m),
		known:  model.Paths(m),
		active: make(map[uintptr]bool),
	}
}

func (s *state) modelName() string { return s.bd.model.Name() }

func (s *state) bound(c *model.ComponentModel, path string, v any, pos position) {
	s.bd.add(BoundComponent{Model: c, Path: path, Value: v, Key: pos.key, Ordinal: pos.ordinal})
}

func (s *state) unmapped(path, key string, sf SparseField) {
	sf.Suggestion = suggest(path, s.known, s.b.minScore)
	s.bd.sparse = append(s.bd.sparse, sf)

	var suggestions []string
	if sf.Suggestion != "" {
		suggestions = append(suggestions, sf.Suggestion)
	}

	s.bd.diags.AddWarning(diagnostic.CodeUnmapped,
		fmt.Sprintf("no model position for %q", path), s.modelName(), path, suggestions...)
}

func (s *state) failed(code, path string, err error) {
	s.bd.diags.AddError(code, s.modelName(), path, err)
	s.b.logger.Debug("bind problem", "model", s.modelName(), "path", path, "code", code, "error", err)
}

// finish extracts identity and version to the top level.
func (s *state) finish() (*BoundData, error) {
	bd := s.bd
	m := bd.model

	if id, ok := m.Identity(); ok {
		v, found := bd.Value(id.Name())
		if !found {
			return nil, bindErr(m.Name(), id.Name(), nil, "missing identity")
		}

		text, err := id.Codec().EncodeText(id.ComponentModel, v)
		if err != nil {
			return nil, bindErr(m.Name(), id.Name(), err, "identity")
		}

		bd.identity = text
	} else {
		bd.identity = s.b.identity()
	}

	if ver, ok := m.Version(); ok {
		if v, found := bd.Value(ver.Name()); found {
			text, err := ver.Codec().EncodeText(ver.ComponentModel, v)
			if err != nil {
				s.failed(diagnostic.CodeVersionFailed, ver.Name(), err)
			} else {
				bd.version, bd.versionVal, bd.hasVersion = text, v, true
			}
		}
	}

	s.b.logger.Debug("bound instance",
		"model", m.Name(), "identity", bd.identity, "version", bd.version,
		"components", bd.Len(), "sparse", len(bd.sparse), "errors", len(bd.diags.Errors))

	return bd, nil
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}

// keyText renders a map key through the key model's codec.
func keyText(km *model.ComponentModel, k any) string {
	if km != nil && km.Codec() != nil {
		if s, err := km.Codec().EncodeText(km, k); err == nil {
			return s
		}
	}

	return fmt.Sprint(k)
}

func resolvable(c *model.ComponentModel) error {
	if c.Codec() == nil || c.Codec() == codec.Unresolved {
		return fmt.Errorf("%w: %s", codec.ErrUnresolved, c.QualifiedPath())
	}

	return nil
}
