package cycle

import (
	"context"

	"rangequery/trees/prefix"
)

// Input is everything one resolution cycle consumes.
type Input struct {
	// bearer token handed back to the sink
	Token    string
	Sequence []float64
	Queries  []prefix.Query
}

type DataSource interface {
	// fetches the sequence and queries from a remote source
	// like an HTTP API, SQL etc
	Fetch(context.Context) (*Input, error)
}

type ResultSink interface {
	// delivers answers, positionally aligned with the queries
	Deliver(ctx context.Context, token string, answers []float64) error
}

type TableCache interface {
	// returns the cached table for seq, if any
	Load(ctx context.Context, seq []float64) (*prefix.Table, bool, error)
	Store(ctx context.Context, seq []float64, table *prefix.Table) error
}
