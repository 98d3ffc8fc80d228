package introspect

import (
	"metabind/internal/analyze"
	"metabind/internal/model"
)

// session tracks one derivation: models finished so far and the types whose
// models are still under construction.
type session struct {
	resolver Resolver
	models   map[analyze.TypeID]*model.ComponentModel
	active   map[analyze.TypeID]struct{}
	done     []*model.ComponentModel
}

func newSession(r Resolver) *session {
	return &session{
		resolver: r,
		models:   make(map[analyze.TypeID]*model.ComponentModel),
		active:   make(map[analyze.TypeID]struct{}),
	}
}

// lookup returns a model finished or under construction in this session, or
// one the resolver already knows.
func (s *session) lookup(id analyze.TypeID) (*model.ComponentModel, bool) {
	if m, ok := s.models[id]; ok {
		return m, true
	}

	if s.resolver != nil {
		return s.resolver.Lookup(id)
	}

	return nil, false
}

func (s *session) begin(id analyze.TypeID, m *model.ComponentModel) {
	s.models[id] = m
	s.active[id] = struct{}{}
}

func (s *session) inProgress(id analyze.TypeID) bool {
	_, ok := s.active[id]
	return ok
}

// end closes the construction of id; a failed model is forgotten.
func (s *session) end(id analyze.TypeID, failed bool) {
	delete(s.active, id)

	if failed {
		delete(s.models, id)
	}
}

func (s *session) finish(m *model.ComponentModel) {
	s.done = append(s.done, m)
}
