package cycle

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"rangequery/trees/prefix"
)

var ErrNonFiniteAnswer = errors.New("answer is not finite")

// NonFiniteAnswerError reports a query whose sum left the float64 range,
// e.g. two elements of 1e308. Such answers cannot be encoded as JSON.
type NonFiniteAnswerError struct {
	Position int
	Query    prefix.Query
	Value    float64
}

func (e *NonFiniteAnswerError) Error() string {
	return fmt.Sprintf("query %d (%s): %v, answer is %v", e.Position, e.Query, ErrNonFiniteAnswer, e.Value)
}

func (e *NonFiniteAnswerError) Unwrap() error {
	return ErrNonFiniteAnswer
}

// CheckFinite returns an error for the first answer that is Inf or NaN.
// answers[i] must belong to queries[i].
func CheckFinite(queries []prefix.Query, answers []float64) error {
	for i, a := range answers {
		if math.IsInf(a, 0) || math.IsNaN(a) {
			return &NonFiniteAnswerError{Position: i, Query: queries[i], Value: a}
		}
	}
	return nil
}
