package codec

import (
	"fmt"
	"slices"
	"sync"

	"metabind/internal/analyze"
	"metabind/primitive"
)

// Registry holds named codec factories, codec bindings for declared types and
// the default codec of every primitive storage kind.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	bindings  map[analyze.TypeID]string
	defaults  map[primitive.KindEnum]string
}

// NewRegistry returns a registry preloaded with the built-in codecs and the
// primitive defaults.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		bindings:  make(map[analyze.TypeID]string),
		defaults:  make(map[primitive.KindEnum]string),
	}

	for kind := primitive.KindInt; kind <= primitive.KindUint64; kind++ {
		r.factories[kind.Name()] = func() Codec { return intCodec{kind: kind} }
		r.defaults[kind] = kind.Name()
	}

	for _, kind := range []primitive.KindEnum{primitive.KindFloat32, primitive.KindFloat64} {
		r.factories[kind.Name()] = func() Codec { return floatCodec{kind: kind} }
		r.defaults[kind] = kind.Name()
	}

	builtins := map[string]Factory{
		NameBool:     func() Codec { return boolCodec{} },
		NameString:   func() Codec { return stringCodec{} },
		NameBytes:    func() Codec { return bytesCodec{} },
		NameTime:     func() Codec { return timeCodec{} },
		NameDuration: func() Codec { return durationCodec{} },
		NameVarint:   func() Codec { return varintCodec{} },
		NameUvarint:  func() Codec { return uvarintCodec{} },
		NameHex:      func() Codec { return hexCodec{} },
		NameUnix:     func() Codec { return unixCodec{} },
	}
	for name, f := range builtins {
		r.factories[name] = f
	}

	r.defaults[primitive.KindBool] = NameBool
	r.defaults[primitive.KindString] = NameString
	r.defaults[primitive.KindBytes] = NameBytes
	r.defaults[primitive.KindTime] = NameTime
	r.defaults[primitive.KindDuration] = NameDuration

	return r
}

// Register adds a named factory. Names are unique.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("codec: register %q: name and factory are required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("codec: %q already registered", name)
	}

	r.factories[name] = f

	return nil
}

// Bind makes the named codec the codec of every component declaring id.
func (r *Registry) Bind(id analyze.TypeID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	r.bindings[id] = name

	return nil
}

// SetDefault replaces the default codec of a primitive kind.
func (r *Registry) SetDefault(kind primitive.KindEnum, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	r.defaults[kind] = name

	return nil
}

// New constructs the named codec.
func (r *Registry) New(name string) (Codec, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	return f(), nil
}

// ForType returns the codec bound to id.
func (r *Registry) ForType(id analyze.TypeID) (Codec, bool) {
	r.mu.RLock()
	name, ok := r.bindings[id]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}

	c, err := r.New(name)

	return c, err == nil
}

// ForKind returns the default codec of kind.
func (r *Registry) ForKind(kind primitive.KindEnum) (Codec, bool) {
	r.mu.RLock()
	name, ok := r.defaults[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}

	c, err := r.New(name)

	return c, err == nil
}

// Names lists the registered codec names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
