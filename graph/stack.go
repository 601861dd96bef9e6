package graph

// EqualStack is a call-scoped guard table mapping an original node to its
// counterpart: the produced clone during cloning, or the node it was paired
// with during equality. It makes recursive operations terminate on cycles
// and keeps shared substructure shared.
//
// An EqualStack must not outlive the top-level operation that created it.
type EqualStack struct {
	pairs map[Identity]any
}

// NewEqualStack returns an empty guard table.
func NewEqualStack() *EqualStack {
	return &EqualStack{pairs: map[Identity]any{}}
}

// Get returns the counterpart registered for key.
func (s *EqualStack) Get(key any) (any, bool) {
	if s == nil {
		return nil, false
	}
	id, ok := IdentityOf(key)
	if !ok {
		return nil, false
	}
	v, ok := s.pairs[id]
	return v, ok
}

// Add registers value as the counterpart of key. Keys without reference
// identity are ignored.
func (s *EqualStack) Add(key, value any) {
	id, ok := IdentityOf(key)
	if !ok {
		return
	}
	if s.pairs == nil {
		s.pairs = map[Identity]any{}
	}
	s.pairs[id] = value
}

// Len returns the number of registered pairs.
func (s *EqualStack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pairs)
}

// Stack is the chain of ancestors of the node currently being serialized.
// Push never mutates the receiver, so siblings do not observe each other.
type Stack []Identity

// Contains reports whether v is one of the ancestors.
func (s Stack) Contains(v any) bool {
	id, ok := IdentityOf(v)
	if !ok {
		return false
	}
	for _, it := range s {
		if it == id {
			return true
		}
	}
	return false
}

// Push returns a new stack extended with v.
func (s Stack) Push(v any) Stack {
	id, ok := IdentityOf(v)
	if !ok {
		return s
	}
	out := make(Stack, len(s), len(s)+1)
	copy(out, s)
	return append(out, id)
}
