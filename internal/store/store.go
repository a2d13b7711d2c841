package store

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by FindOne when nothing matches the filter.
var ErrNoDocument = errors.New("store: no matching document")

// Document is a schema-flexible record. Query results carry the
// store-assigned identifier under "_id" as a string.
type Document map[string]any

// Op is a filter comparison operator.
type Op int

const (
	// OpEq matches a field exactly.
	OpEq Op = iota
	// OpSubstr matches a string field by case-insensitive substring.
	OpSubstr
	// OpAll matches an array field containing every listed value.
	OpAll
)

// Cond is a single field condition.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Filter selects documents. All Conds must match (AND); when Any is
// non-empty, at least one of its conditions must match as well.
// The zero Filter matches everything.
type Filter struct {
	Conds []Cond
	Any   []Cond
}

func Eq(field string, value any) Cond {
	return Cond{Field: field, Op: OpEq, Value: value}
}

func Substr(field, pattern string) Cond {
	return Cond{Field: field, Op: OpSubstr, Value: pattern}
}

func ContainsAll(field string, values []string) Cond {
	return Cond{Field: field, Op: OpAll, Value: values}
}

// Store is the document persistence collaborator. Implementations must
// provide atomic upsert; no other cross-call atomicity is assumed.
type Store interface {
	Count(ctx context.Context, collection string, f Filter) (int64, error)
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Query(ctx context.Context, collection string, f Filter) ([]Document, error)
	FindOne(ctx context.Context, collection string, f Filter) (Document, error)
	// Upsert applies set to the first document matching f, inserting a new
	// document (with setOnInsert merged in) when none exists.
	Upsert(ctx context.Context, collection string, f Filter, set, setOnInsert Document) error
}
