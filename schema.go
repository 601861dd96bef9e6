package gomodel

import (
	"sort"
	"strings"
	"sync"
)

// Schema maps field names to declarations (see Normalize). The key "*"
// declares the wildcard entry that accepts any other field name.
type Schema map[string]any

// Wildcard is the schema key of the catch-all entry.
const Wildcard = "*"

// reservedKeys cannot be primary keys: they name entity members.
var reservedKeys = map[string]struct{}{
	"data": {}, "parent": {}, "get": {}, "set": {}, "clone": {}, "equal": {},
	"walk": {}, "on": {}, "toJSON": {}, "primaryKey": {}, "primaryValue": {},
	"isValid": {}, "hasProperty": {}, "hasValue": {},
}

// compiledSchema is the frozen, descriptor-instantiated schema of one
// entity type. It is shared by every instance of the type.
type compiledSchema struct {
	fields     map[string]Descriptor
	keys       []string // declared fields, lexical order
	wildcard   Descriptor
	primaryKey string
}

func (s *compiledSchema) descriptor(key string) Descriptor {
	if d, ok := s.fields[key]; ok {
		return d
	}
	return s.wildcard
}

// schemas is the process-wide, append-only compiled schema registry.
var schemas = struct {
	sync.RWMutex
	m map[*EntityType]*compiledSchema
}{m: map[*EntityType]*compiledSchema{}}

func compiledFor(t *EntityType) (*compiledSchema, error) {
	schemas.RLock()
	s, ok := schemas.m[t]
	schemas.RUnlock()
	if ok {
		return s, nil
	}
	s, err := compile(t)
	if err != nil {
		return nil, err
	}
	schemas.Lock()
	defer schemas.Unlock()
	if prev, ok := schemas.m[t]; ok {
		return prev, nil
	}
	schemas.m[t] = s
	logger().Debug("schema compiled", "type", t.Name(), "fields", len(s.keys), "wildcard", s.wildcard != nil)
	return s, nil
}

func compile(t *EntityType) (*compiledSchema, error) {
	decls, declared := t.declarations()
	if !declared {
		return nil, newIssue(CodeMissingSchema, "", map[string]string{"type": t.Name()})
	}
	names := make([]string, 0, len(decls))
	for k := range decls {
		names = append(names, k)
	}
	sort.Strings(names)

	s := &compiledSchema{fields: make(map[string]Descriptor, len(decls))}
	var primaries []string
	for _, k := range names {
		d, err := Normalize(decls[k], k)
		if err != nil {
			return nil, err
		}
		if optionsOf(d).Primary {
			if _, reserved := reservedKeys[k]; reserved || k == Wildcard {
				return nil, newIssue(CodeReservedPrimaryKey, k, nil)
			}
			primaries = append(primaries, k)
		}
		if k == Wildcard {
			s.wildcard = d
			continue
		}
		s.fields[k] = d
		s.keys = append(s.keys, k)
	}
	switch len(primaries) {
	case 0:
	case 1:
		s.primaryKey = primaries[0]
	default:
		return nil, newIssue(CodeInvalidSchema, "", map[string]string{
			"type":   t.Name(),
			"reason": "more than one primary key: " + strings.Join(primaries, ", "),
		})
	}
	return s, nil
}
