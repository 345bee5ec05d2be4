// Package query turns raw request tokens into typed filter and sort clauses
// and compiles them against a registered field set. Compilation produces
// plain closures; there is no runtime string interpretation and no
// reflection. The engine is stateless per call and safe for concurrent use.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Operation is a filter comparison operator.
type Operation int

const (
	OpEquals Operation = iota
	OpContains
	OpStartsWith
	OpEndsWith
	OpGreaterThan
	OpLessThan
	OpGreaterOrEqual
	OpLessOrEqual
)

func (op Operation) String() string {
	switch op {
	case OpEquals:
		return "Equals"
	case OpContains:
		return "Contains"
	case OpStartsWith:
		return "StartsWith"
	case OpEndsWith:
		return "EndsWith"
	case OpGreaterThan:
		return "GreaterThan"
	case OpLessThan:
		return "LessThan"
	case OpGreaterOrEqual:
		return "GreaterOrEqual"
	case OpLessOrEqual:
		return "LessOrEqual"
	}
	return "Unknown"
}

// IsStringOnly reports whether the operation applies to string fields only.
func (op Operation) IsStringOnly() bool {
	return op == OpContains || op == OpStartsWith || op == OpEndsWith
}

// Parse errors. All compile and parse failures wrap one of these sentinels.
var (
	ErrBlankField           = errors.New("blank filter field")
	ErrBlankSort            = errors.New("blank sort clause")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
	ErrUnknownField         = errors.New("unknown field")
	ErrInvalidValue         = errors.New("invalid filter value")
	ErrUnsupportedOperation = errors.New("unsupported operation for field type")
)

// FilterClause is one parsed filter condition. Field is matched against the
// field set case-insensitively; Value stays textual until compilation, where
// it is coerced to the field's declared type. String operations compare
// case-insensitively unless CaseSensitive is set.
type FilterClause struct {
	Field         string
	Op            Operation
	Value         string
	CaseSensitive bool
}

// Range-operator key prefixes, matched case-insensitively.
const (
	minPrefix = "_min"
	maxPrefix = "_max"
)

// ParseFilters classifies each raw key/value pair into a FilterClause.
//
// A key prefixed "_min"/"_max" selects GreaterOrEqual/LessOrEqual on the
// remainder of the key. Otherwise the operation is inferred from wildcard
// placement in the value: *v* is Contains, v* is StartsWith, *v is EndsWith,
// and a bare value is Equals. Wildcards are stripped from the value.
func ParseFilters(raw map[string][]string) ([]FilterClause, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	// Deterministic clause order keeps error messages and compiled
	// predicates stable across calls.
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var clauses []FilterClause
	for _, key := range keys {
		field, rangeOp, hasRange := splitRangeKey(key)
		if strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("%w: %q", ErrBlankField, key)
		}
		for _, value := range raw[key] {
			if hasRange {
				clauses = append(clauses, FilterClause{Field: field, Op: rangeOp, Value: value})
				continue
			}
			op, stripped := inferWildcardOp(value)
			clauses = append(clauses, FilterClause{Field: field, Op: op, Value: stripped})
		}
	}
	return clauses, nil
}

func splitRangeKey(key string) (field string, op Operation, ok bool) {
	lower := strings.ToLower(key)
	switch {
	case strings.HasPrefix(lower, minPrefix):
		return key[len(minPrefix):], OpGreaterOrEqual, true
	case strings.HasPrefix(lower, maxPrefix):
		return key[len(maxPrefix):], OpLessOrEqual, true
	}
	return key, OpEquals, false
}

// inferWildcardOp maps wildcard placement to a string operation. Runs of
// asterisks on the matched side are stripped entirely, so "ann**" is
// StartsWith "ann" and "**" is Contains "". A lone "*" has no wildcard side
// and stays an Equals on the raw value.
func inferWildcardOp(value string) (Operation, string) {
	switch {
	case len(value) > 1 && strings.HasPrefix(value, "*") && strings.HasSuffix(value, "*"):
		return OpContains, strings.Trim(value, "*")
	case len(value) > 1 && strings.HasSuffix(value, "*"):
		return OpStartsWith, strings.TrimRight(value, "*")
	case len(value) > 1 && strings.HasPrefix(value, "*"):
		return OpEndsWith, strings.TrimLeft(value, "*")
	}
	return OpEquals, value
}
