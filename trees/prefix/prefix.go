package prefix

import (
	"fmt"
	"strconv"
)

// Table holds the two prefix arrays derived from a sequence.
// It is never mutated after Build and is safe for concurrent reads.
type Table struct {
	// all[i] = seq[0] + ... + seq[i]
	all []float64
	// alternating[i] adds seq[j] for even j and subtracts it for odd j, j <= i
	alternating []float64
}

// given a sequence, builds both prefix arrays in a single pass
func Build(seq []float64) *Table {
	n := len(seq)
	t := &Table{
		all:         make([]float64, n),
		alternating: make([]float64, n),
	}
	if n == 0 {
		return t
	}

	t.all[0] = seq[0]
	t.alternating[0] = seq[0]
	for i := 1; i < n; i++ {
		t.all[i] = t.all[i-1] + seq[i]
		if i%2 == 0 {
			t.alternating[i] = t.alternating[i-1] + seq[i]
		} else {
			t.alternating[i] = t.alternating[i-1] - seq[i]
		}
	}

	return t
}

// FromArrays wraps prefix arrays computed elsewhere, e.g. loaded from a cache.
func FromArrays(all, alternating []float64) (*Table, error) {
	if len(all) != len(alternating) {
		return nil, fmt.Errorf("prefix arrays differ in length: %d != %d", len(all), len(alternating))
	}

	return &Table{all: all, alternating: alternating}, nil
}

func (t *Table) Len() int {
	return len(t.all)
}

// All returns a copy of the running-sum array.
func (t *Table) All() []float64 {
	return append([]float64(nil), t.all...)
}

// Alternating returns a copy of the alternating running-sum array.
func (t *Table) Alternating() []float64 {
	return append([]float64(nil), t.alternating...)
}

func (t *Table) Describe() map[string]string {
	description := make(map[string]string)
	description["length"] = strconv.Itoa(t.Len())
	if t.Len() > 0 {
		description["total sum"] = strconv.FormatFloat(t.all[t.Len()-1], 'g', -1, 64)
		description["total alternating sum"] = strconv.FormatFloat(t.alternating[t.Len()-1], 'g', -1, 64)
	}
	return description
}

func prefixDiff(arr []float64, l int, r int) float64 {
	if l > 0 {
		return arr[r] - arr[l-1]
	}
	return arr[r]
}
