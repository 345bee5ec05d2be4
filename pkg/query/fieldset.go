package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the declared type of a registered field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	KindTime
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindTime:
		return "timestamp"
	case KindBool:
		return "boolean"
	}
	return "unknown"
}

// Predicate decides whether an entity matches a compiled filter.
type Predicate[T any] func(T) bool

// Comparator orders two entities: negative when a sorts before b.
type Comparator[T any] func(a, b T) int

// field pairs a declared kind with a typed accessor. Exactly one accessor
// is set, matching the kind.
type field[T any] struct {
	name    string
	kind    Kind
	str     func(T) string
	integer func(T) int64
	dec     func(T) decimal.Decimal
	ts      func(T) time.Time
	boolean func(T) bool
}

// FieldSet is the static registry of queryable fields for an entity type.
// Fields are registered once at startup and looked up case-insensitively;
// there is no reflection. A FieldSet is immutable after construction and
// safe for concurrent use.
type FieldSet[T any] struct {
	fields      map[string]*field[T]
	defaultSort []SortClause
}

// NewFieldSet creates an empty registry. Registration methods chain.
func NewFieldSet[T any]() *FieldSet[T] {
	return &FieldSet[T]{fields: make(map[string]*field[T])}
}

func (fs *FieldSet[T]) add(name string, f *field[T]) *FieldSet[T] {
	f.name = name
	fs.fields[strings.ToLower(name)] = f
	return fs
}

// String registers a string field.
func (fs *FieldSet[T]) String(name string, get func(T) string) *FieldSet[T] {
	return fs.add(name, &field[T]{kind: KindString, str: get})
}

// Int registers an integer field.
func (fs *FieldSet[T]) Int(name string, get func(T) int64) *FieldSet[T] {
	return fs.add(name, &field[T]{kind: KindInt, integer: get})
}

// Decimal registers an exact decimal field.
func (fs *FieldSet[T]) Decimal(name string, get func(T) decimal.Decimal) *FieldSet[T] {
	return fs.add(name, &field[T]{kind: KindDecimal, dec: get})
}

// Time registers a timestamp field.
func (fs *FieldSet[T]) Time(name string, get func(T) time.Time) *FieldSet[T] {
	return fs.add(name, &field[T]{kind: KindTime, ts: get})
}

// Bool registers a boolean field. Only equality applies to booleans.
func (fs *FieldSet[T]) Bool(name string, get func(T) bool) *FieldSet[T] {
	return fs.add(name, &field[T]{kind: KindBool, boolean: get})
}

// DefaultSort sets the ordering used when a query carries no sort clauses.
func (fs *FieldSet[T]) DefaultSort(clauses ...SortClause) *FieldSet[T] {
	fs.defaultSort = clauses
	return fs
}

func (fs *FieldSet[T]) lookup(name string) (*field[T], error) {
	f, ok := fs.fields[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// CompileFilters builds one predicate from the clauses. Clauses on the same
// field combine with OR, clauses across fields combine with AND. A nil
// clause slice compiles to a match-all predicate. Unknown fields, coercion
// failures and string operations on non-string fields fail here, before any
// data is touched.
func (fs *FieldSet[T]) CompileFilters(clauses []FilterClause) (Predicate[T], error) {
	if len(clauses) == 0 {
		return func(T) bool { return true }, nil
	}

	// Group per canonical field, preserving first-appearance order.
	type group struct {
		preds []Predicate[T]
	}
	groups := make(map[string]*group)
	var order []string
	for _, clause := range clauses {
		f, err := fs.lookup(clause.Field)
		if err != nil {
			return nil, err
		}
		pred, err := compileClause(f, clause)
		if err != nil {
			return nil, err
		}
		g, ok := groups[f.name]
		if !ok {
			g = &group{}
			groups[f.name] = g
			order = append(order, f.name)
		}
		g.preds = append(g.preds, pred)
	}

	var perField []Predicate[T]
	for _, name := range order {
		perField = append(perField, anyOf(groups[name].preds))
	}
	return allOf(perField), nil
}

func anyOf[T any](preds []Predicate[T]) Predicate[T] {
	if len(preds) == 1 {
		return preds[0]
	}
	return func(entity T) bool {
		for _, pred := range preds {
			if pred(entity) {
				return true
			}
		}
		return false
	}
}

func allOf[T any](preds []Predicate[T]) Predicate[T] {
	if len(preds) == 1 {
		return preds[0]
	}
	return func(entity T) bool {
		for _, pred := range preds {
			if !pred(entity) {
				return false
			}
		}
		return true
	}
}

func compileClause[T any](f *field[T], clause FilterClause) (Predicate[T], error) {
	if clause.Op.IsStringOnly() && f.kind != KindString {
		return nil, fmt.Errorf("%w: %s on field %q of type %s",
			ErrUnsupportedOperation, clause.Op, f.name, f.kind)
	}

	switch f.kind {
	case KindString:
		return compileString(f, clause), nil
	case KindInt:
		want, err := strconv.ParseInt(clause.Value, 10, 64)
		if err != nil {
			return nil, coercionError(f, clause.Value)
		}
		get := f.integer
		return compileOrdered(clause, func(entity T) int {
			return compareInt64(get(entity), want)
		})
	case KindDecimal:
		want, err := decimal.NewFromString(clause.Value)
		if err != nil {
			return nil, coercionError(f, clause.Value)
		}
		get := f.dec
		return compileOrdered(clause, func(entity T) int {
			return get(entity).Cmp(want)
		})
	case KindTime:
		want, err := parseTime(clause.Value)
		if err != nil {
			return nil, coercionError(f, clause.Value)
		}
		get := f.ts
		return compileOrdered(clause, func(entity T) int {
			return get(entity).Compare(want)
		})
	case KindBool:
		want, err := strconv.ParseBool(clause.Value)
		if err != nil {
			return nil, coercionError(f, clause.Value)
		}
		if clause.Op != OpEquals {
			return nil, fmt.Errorf("%w: %s on field %q of type %s",
				ErrUnsupportedOperation, clause.Op, f.name, f.kind)
		}
		get := f.boolean
		return func(entity T) bool { return get(entity) == want }, nil
	}
	return nil, fmt.Errorf("%w: field %q has unregistered type", ErrUnsupportedOperation, f.name)
}

func compileString[T any](f *field[T], clause FilterClause) Predicate[T] {
	get := f.str
	want := clause.Value
	fold := func(s string) string { return s }
	if !clause.CaseSensitive {
		fold = strings.ToLower
		want = strings.ToLower(want)
	}
	switch clause.Op {
	case OpContains:
		return func(entity T) bool { return strings.Contains(fold(get(entity)), want) }
	case OpStartsWith:
		return func(entity T) bool { return strings.HasPrefix(fold(get(entity)), want) }
	case OpEndsWith:
		return func(entity T) bool { return strings.HasSuffix(fold(get(entity)), want) }
	case OpGreaterThan:
		return func(entity T) bool { return fold(get(entity)) > want }
	case OpLessThan:
		return func(entity T) bool { return fold(get(entity)) < want }
	case OpGreaterOrEqual:
		return func(entity T) bool { return fold(get(entity)) >= want }
	case OpLessOrEqual:
		return func(entity T) bool { return fold(get(entity)) <= want }
	}
	return func(entity T) bool { return fold(get(entity)) == want }
}

// compileOrdered turns a three-way comparison against the coerced value
// into a predicate for any ordered kind.
func compileOrdered[T any](clause FilterClause, cmp func(T) int) (Predicate[T], error) {
	switch clause.Op {
	case OpEquals:
		return func(entity T) bool { return cmp(entity) == 0 }, nil
	case OpGreaterThan:
		return func(entity T) bool { return cmp(entity) > 0 }, nil
	case OpLessThan:
		return func(entity T) bool { return cmp(entity) < 0 }, nil
	case OpGreaterOrEqual:
		return func(entity T) bool { return cmp(entity) >= 0 }, nil
	case OpLessOrEqual:
		return func(entity T) bool { return cmp(entity) <= 0 }, nil
	}
	return nil, fmt.Errorf("%w: %s on non-string field", ErrUnsupportedOperation, clause.Op)
}

func coercionError[T any](f *field[T], value string) error {
	return fmt.Errorf("%w: field %q: cannot convert %q to %s",
		ErrInvalidValue, f.name, value, f.kind)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Accepted timestamp layouts for filter values.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// CompileSort builds a comparator from the clauses, applied as
// primary/secondary keys in order. With no clauses the registered default
// ordering applies.
func (fs *FieldSet[T]) CompileSort(clauses []SortClause) (Comparator[T], error) {
	if len(clauses) == 0 {
		clauses = fs.defaultSort
	}
	if len(clauses) == 0 {
		return func(a, b T) int { return 0 }, nil
	}

	comparators := make([]Comparator[T], 0, len(clauses))
	for _, clause := range clauses {
		f, err := fs.lookup(clause.Field)
		if err != nil {
			return nil, err
		}
		cmp := fieldComparator(f)
		if clause.Direction == Descending {
			inner := cmp
			cmp = func(a, b T) int { return -inner(a, b) }
		}
		comparators = append(comparators, cmp)
	}
	if len(comparators) == 1 {
		return comparators[0], nil
	}
	return func(a, b T) int {
		for _, cmp := range comparators {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return 0
	}, nil
}

func fieldComparator[T any](f *field[T]) Comparator[T] {
	switch f.kind {
	case KindString:
		get := f.str
		return func(a, b T) int { return strings.Compare(get(a), get(b)) }
	case KindInt:
		get := f.integer
		return func(a, b T) int { return compareInt64(get(a), get(b)) }
	case KindDecimal:
		get := f.dec
		return func(a, b T) int { return get(a).Cmp(get(b)) }
	case KindTime:
		get := f.ts
		return func(a, b T) int { return get(a).Compare(get(b)) }
	default:
		get := f.boolean
		return func(a, b T) int {
			switch {
			case !get(a) && get(b):
				return -1
			case get(a) && !get(b):
				return 1
			}
			return 0
		}
	}
}
