package query

import (
	"fmt"
	"strings"
)

// Direction is a sort order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortClause is one parsed ordering key.
type SortClause struct {
	Field     string
	Direction Direction
}

// ParseSort parses raw sort tokens of the form "field" or "field direction".
// Direction defaults to ascending; a blank token or an unrecognized
// direction is an error. Tokens past the direction are ignored. Clause order
// is significant: the first clause is the primary key, later clauses break
// ties.
func ParseSort(raw []string) ([]SortClause, error) {
	var clauses []SortClause
	for _, token := range raw {
		parts := strings.Fields(token)
		switch len(parts) {
		case 0:
			return nil, fmt.Errorf("%w: %q", ErrBlankSort, token)
		case 1:
			clauses = append(clauses, SortClause{Field: parts[0], Direction: Ascending})
		default:
			direction, err := parseDirection(parts[1])
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, SortClause{Field: parts[0], Direction: direction})
		}
	}
	return clauses, nil
}

func parseDirection(token string) (Direction, error) {
	switch strings.ToLower(token) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("%w: %q", ErrInvalidSortDirection, token)
}
