package prefix

import (
	"fmt"
	"strconv"
)

// Kind selects which prefix array a query is answered from.
type Kind int

const (
	// KindUnknown is the zero value and is never resolvable.
	KindUnknown Kind = iota
	// SumRange is the plain sum of seq[l..r], wire tag "1".
	SumRange
	// AlternatingRange is the alternating sum of seq[l..r] signed by
	// absolute index parity, wire tag "2".
	AlternatingRange
)

// ParseKind maps a wire tag to a Kind. Only "1" and "2" are resolvable.
// Other canonical integers keep their value so the resolver can report
// them; anything else, including " 1", "01" and "+1", is KindUnknown.
func ParseKind(tag string) Kind {
	switch tag {
	case "1":
		return SumRange
	case "2":
		return AlternatingRange
	}
	n, err := strconv.Atoi(tag)
	if err != nil || strconv.Itoa(n) != tag {
		return KindUnknown
	}
	return Kind(n)
}

func (k Kind) Valid() bool {
	return k == SumRange || k == AlternatingRange
}

func (k Kind) String() string {
	switch k {
	case SumRange:
		return "sum"
	case AlternatingRange:
		return "alternating"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tag is the wire discriminator of k.
func (k Kind) Tag() string {
	return strconv.Itoa(int(k))
}

type Query struct {
	Kind Kind
	// left end of the closed range
	LRange int
	// right end of the closed range
	RRange int
}

func NewQuery(kind Kind, lRange int, rRange int) Query {
	return Query{Kind: kind, LRange: lRange, RRange: rRange}
}

func (q Query) String() string {
	return fmt.Sprintf("%s[%d,%d]", q.Kind, q.LRange, q.RRange)
}
