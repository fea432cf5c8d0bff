package prefix

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind      = errors.New("unknown query kind")
	ErrRangeInverted    = errors.New("range left bound is greater than right bound")
	ErrRangeOutOfBounds = errors.New("range is outside the sequence")
)

// MalformedQueryError reports the first query of a batch that could not be
// resolved. Err is one of the sentinel errors above.
type MalformedQueryError struct {
	Position int
	Query    Query
	Len      int
	Err      error
}

func (e *MalformedQueryError) Error() string {
	return fmt.Sprintf("query %d (%s) over sequence of length %d: %v", e.Position, e.Query, e.Len, e.Err)
}

func (e *MalformedQueryError) Unwrap() error {
	return e.Err
}

// Check validates q against a sequence of length n without touching any data.
func Check(q Query, n int) error {
	if !q.Kind.Valid() {
		return ErrUnknownKind
	}
	if q.LRange > q.RRange {
		return ErrRangeInverted
	}
	if q.LRange < 0 || q.RRange > n-1 {
		return ErrRangeOutOfBounds
	}
	return nil
}

// Answer resolves a single query. The query is treated as a batch of one,
// so a MalformedQueryError from Answer always has Position 0.
func (t *Table) Answer(q Query) (float64, error) {
	if err := Check(q, t.Len()); err != nil {
		return 0, &MalformedQueryError{Position: 0, Query: q, Len: t.Len(), Err: err}
	}
	return t.answer(q), nil
}

// Resolve answers queries in order. The first malformed query fails the whole
// batch and no answers are returned, so answers never drift out of position.
func (t *Table) Resolve(queries []Query) ([]float64, error) {
	for i, q := range queries {
		if err := Check(q, t.Len()); err != nil {
			return nil, &MalformedQueryError{Position: i, Query: q, Len: t.Len(), Err: err}
		}
	}

	answers := make([]float64, len(queries))
	for i, q := range queries {
		answers[i] = t.answer(q)
	}
	return answers, nil
}

// q must have passed Check
func (t *Table) answer(q Query) float64 {
	switch q.Kind {
	case SumRange:
		return prefixDiff(t.all, q.LRange, q.RRange)
	case AlternatingRange:
		return prefixDiff(t.alternating, q.LRange, q.RRange)
	default:
		panic(fmt.Sprintf("unchecked query kind %d", int(q.Kind)))
	}
}

// Resolve builds a table from seq and answers queries against it.
func Resolve(seq []float64, queries []Query) ([]float64, error) {
	return Build(seq).Resolve(queries)
}
