package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDomainIdentity is returned for malformed domain identities.
var ErrInvalidDomainIdentity = errors.New("invalid domain identity")

// DomainIdentity names a versioned domain.
type DomainIdentity struct {
	Name    string
	Version int
}

// NewDomainIdentity validates and returns an identity.
func NewDomainIdentity(name string, version int) (DomainIdentity, error) {
	id := DomainIdentity{Name: name, Version: version}
	if err := id.Validate(); err != nil {
		return DomainIdentity{}, err
	}

	return id, nil
}

// ParseDomainIdentity parses "name:version". The name may itself contain
// colons; the version follows the last one.
func ParseDomainIdentity(s string) (DomainIdentity, error) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return DomainIdentity{}, fmt.Errorf("%w: %q has no version", ErrInvalidDomainIdentity, s)
	}

	version, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return DomainIdentity{}, fmt.Errorf("%w: %q: bad version: %w", ErrInvalidDomainIdentity, s, err)
	}

	return NewDomainIdentity(s[:i], version)
}

// Validate checks the name is non-empty and the version non-negative.
func (d DomainIdentity) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDomainIdentity)
	}

	if d.Version < 0 {
		return fmt.Errorf("%w: negative version %d", ErrInvalidDomainIdentity, d.Version)
	}

	return nil
}

func (d DomainIdentity) String() string {
	return d.Name + ":" + strconv.Itoa(d.Version)
}

// MarshalText implements encoding.TextMarshaler.
func (d DomainIdentity) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DomainIdentity) UnmarshalText(b []byte) error {
	id, err := ParseDomainIdentity(string(b))
	if err != nil {
		return err
	}

	*d = id

	return nil
}

// DomainModel is an immutable ordered collection of root models sharing one
// identity.
type DomainModel struct {
	id    DomainIdentity
	roots []*ComponentModel
}

// NewDomainModel groups roots under id. Roots must be distinct types.
func NewDomainModel(id DomainIdentity, roots ...*ComponentModel) (*DomainModel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(roots))
	for _, r := range roots {
		if r == nil {
			return nil, fmt.Errorf("domain %s: nil root", id)
		}

		key := r.TypeID().String()
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("domain %s: type %s listed twice", id, key)
		}
		seen[key] = struct{}{}
	}

	return &DomainModel{id: id, roots: append([]*ComponentModel(nil), roots...)}, nil
}

// Identity returns the domain identity.
func (d *DomainModel) Identity() DomainIdentity { return d.id }

// Roots returns the root models in registration order.
func (d *DomainModel) Roots() []*ComponentModel {
	return append([]*ComponentModel(nil), d.roots...)
}

// Len returns the number of roots.
func (d *DomainModel) Len() int { return len(d.roots) }

// Root finds a root by model name or type id string.
func (d *DomainModel) Root(name string) (*ComponentModel, bool) {
	for _, r := range d.roots {
		if r.Name() == name || r.TypeID().String() == name || r.TypeID().Short() == name {
			return r, true
		}
	}

	return nil, false
}
