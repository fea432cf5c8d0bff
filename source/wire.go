package source

import (
	"bytes"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"rangequery/cycle"
	"rangequery/trees/prefix"
)

// wireKind accepts the query type either as a JSON string ("1") or a number (1).
type wireKind string

func (k *wireKind) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*k = wireKind(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*k = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "query type")
	}
	*k = wireKind(canonicalNumber(n))
	return nil
}

// integral numbers such as 1.0 or 1e0 are written as plain integers
func canonicalNumber(n json.Number) string {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return n.String()
	}
	return strconv.FormatInt(int64(f), 10)
}

type WireQuery struct {
	Type  wireKind      `json:"type"`
	Range []json.Number `json:"range"`
}

// Payload is the JSON body served by the input API.
type Payload struct {
	Token string `json:"token"`
	// null elements decode as nil and are rejected by Input
	Data  []*float64  `json:"data"`
	Query []WireQuery `json:"query"`
}

func NewWireQuery(q prefix.Query) WireQuery {
	return WireQuery{
		Type:  wireKind(q.Kind.Tag()),
		Range: []json.Number{json.Number(strconv.Itoa(q.LRange)), json.Number(strconv.Itoa(q.RRange))},
	}
}

func Decode(body []byte) (*Payload, error) {
	p := &Payload{}
	if err := json.Unmarshal(body, p); err != nil {
		return nil, errors.Wrap(err, "decode payload")
	}
	return p, nil
}

// Input converts the payload into a cycle input. Unknown query types are
// kept as invalid kinds so the resolver can report them by position.
func (p *Payload) Input() (*cycle.Input, error) {
	seq := make([]float64, len(p.Data))
	for i, v := range p.Data {
		if v == nil {
			return nil, errors.Errorf("data %d: element is null", i)
		}
		seq[i] = *v
	}

	queries := make([]prefix.Query, len(p.Query))
	for i, wq := range p.Query {
		if len(wq.Range) != 2 {
			return nil, errors.Errorf("query %d: range must have 2 bounds, got %d", i, len(wq.Range))
		}
		var bounds [2]int
		for j, b := range wq.Range {
			v, err := strconv.Atoi(b.String())
			if err != nil {
				return nil, errors.Errorf("query %d: range bound %d (%s) is not an integer", i, j, b)
			}
			bounds[j] = v
		}
		queries[i] = prefix.NewQuery(prefix.ParseKind(string(wq.Type)), bounds[0], bounds[1])
	}
	return &cycle.Input{Token: p.Token, Sequence: seq, Queries: queries}, nil
}

func (p *Payload) String() string {
	return "payload{data=" + strconv.Itoa(len(p.Data)) + ", query=" + strconv.Itoa(len(p.Query)) + "}"
}
