package bind

import (
	"slices"
	"strings"

	"metabind/internal/common"
	"metabind/internal/diagnostic"
	"metabind/internal/model"
)

// NoOrdinal marks a component that is not an array element.
const NoOrdinal = -1

// BoundComponent is one value placed at a model position.
type BoundComponent struct {
	Model *model.ComponentModel
	Path  string
	Value any
	// Key is the text form of the enclosing map key, if any.
	Key string
	// Ordinal is the position within the enclosing array, or NoOrdinal.
	Ordinal int
}

// BoundData is the result of binding one instance. It is read-only.
type BoundData struct {
	model      *model.ComponentModel
	identity   string
	version    string
	versionVal any
	hasVersion bool

	paths      []string
	components map[string][]BoundComponent
	sparse     []SparseField
	diags      diagnostic.Diagnostics
}

func newBoundData(m *model.ComponentModel) *BoundData {
	return &BoundData{model: m, components: make(map[string][]BoundComponent)}
}

func (bd *BoundData) add(c BoundComponent) {
	if _, ok := bd.components[c.Path]; !ok {
		bd.paths = append(bd.paths, c.Path)
	}

	bd.components[c.Path] = append(bd.components[c.Path], c)
}

// Model returns the model the data was bound against.
func (bd *BoundData) Model() *model.ComponentModel { return bd.model }

// Identity returns the text form of the instance identity.
func (bd *BoundData) Identity() string { return bd.identity }

// Version returns the text form of the instance version, if the model
// declares one and it was present.
func (bd *BoundData) Version() (string, bool) { return bd.version, bd.hasVersion }

// VersionValue returns the bound version value behind Version.
func (bd *BoundData) VersionValue() (any, bool) { return bd.versionVal, bd.hasVersion }

// Paths returns bound paths in first-bound order.
func (bd *BoundData) Paths() []string { return slices.Clone(bd.paths) }

// Get returns every component bound at path.
func (bd *BoundData) Get(path string) []BoundComponent {
	return slices.Clone(bd.components[path])
}

// Value returns the first value bound at path.
func (bd *BoundData) Value(path string) (any, bool) {
	c, ok := common.First(bd.components[path])
	return c.Value, ok
}

// Has reports whether anything is bound at path or below it.
func (bd *BoundData) Has(path string) bool {
	if _, ok := bd.components[path]; ok {
		return true
	}

	prefix := path + "."
	for _, p := range bd.paths {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}

	return false
}

// Len returns the number of bound components.
func (bd *BoundData) Len() int {
	n := 0
	for _, cs := range bd.components {
		n += len(cs)
	}

	return n
}

// Sparse returns the data the model could not place.
func (bd *BoundData) Sparse() []SparseField { return slices.Clone(bd.sparse) }

// Diagnostics returns the per-field problems met while binding.
func (bd *BoundData) Diagnostics() diagnostic.Diagnostics { return bd.diags }
