package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory implements Store in process memory. It interprets the same
// filter vocabulary as the Mongo implementation and backs tests and
// store-less development runs.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Document)}
}

func (m *Memory) Count(ctx context.Context, collection string, f Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, doc := range m.collections[collection] {
		if matches(doc, f) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := clone(doc)
	id := uuid.NewString()
	stored["_id"] = id
	m.collections[collection] = append(m.collections[collection], stored)
	return id, nil
}

func (m *Memory) Query(ctx context.Context, collection string, f Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Document{}
	for _, doc := range m.collections[collection] {
		if matches(doc, f) {
			out = append(out, clone(doc))
		}
	}
	return out, nil
}

func (m *Memory) FindOne(ctx context.Context, collection string, f Filter) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.collections[collection] {
		if matches(doc, f) {
			return clone(doc), nil
		}
	}
	return nil, ErrNoDocument
}

func (m *Memory) Upsert(ctx context.Context, collection string, f Filter, set, setOnInsert Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.collections[collection] {
		if matches(doc, f) {
			for k, v := range clone(set) {
				doc[k] = v
			}
			return nil
		}
	}

	// Insert path mirrors Mongo: the new document gets the filter's
	// equality fields plus both update sections.
	fresh := Document{}
	for _, c := range f.Conds {
		if c.Op == OpEq {
			fresh[c.Field] = c.Value
		}
	}
	for k, v := range clone(setOnInsert) {
		fresh[k] = v
	}
	for k, v := range clone(set) {
		fresh[k] = v
	}
	fresh["_id"] = uuid.NewString()
	m.collections[collection] = append(m.collections[collection], fresh)
	return nil
}

func matches(doc Document, f Filter) bool {
	for _, c := range f.Conds {
		if !matchCond(doc, c) {
			return false
		}
	}
	if len(f.Any) == 0 {
		return true
	}
	for _, c := range f.Any {
		if matchCond(doc, c) {
			return true
		}
	}
	return false
}

func matchCond(doc Document, c Cond) bool {
	v, ok := doc[c.Field]
	if !ok {
		return false
	}
	switch c.Op {
	case OpSubstr:
		s, ok := v.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(c.Value.(string)))
	case OpAll:
		have := stringSet(v)
		for _, want := range c.Value.([]string) {
			if !have[want] {
				return false
			}
		}
		return true
	default:
		return fmt.Sprintf("%v", v) == fmt.Sprintf("%v", c.Value)
	}
}

func stringSet(v any) map[string]bool {
	set := map[string]bool{}
	switch arr := v.(type) {
	case []string:
		for _, s := range arr {
			set[s] = true
		}
	case []any:
		for _, e := range arr {
			if s, ok := e.(string); ok {
				set[s] = true
			}
		}
	}
	return set
}

func clone(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		switch t := v.(type) {
		case Document:
			out[k] = clone(t)
		case map[string]any:
			out[k] = clone(t)
		case []string:
			out[k] = append([]string(nil), t...)
		case []any:
			out[k] = append([]any(nil), t...)
		default:
			out[k] = v
		}
	}
	return out
}
