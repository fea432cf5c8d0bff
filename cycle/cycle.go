package cycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"rangequery/trees/prefix"
)

var log = logging.MustGetLogger("cycle")

type Report struct {
	ID       string
	Answers  []float64
	CacheHit bool
	// false when the engine ran in dry-run mode
	Delivered bool
}

type Engine struct {
	cache  TableCache
	dryRun bool
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) SetCache(c TableCache) {
	e.cache = c
}

func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// cache failures are logged and fall back to building the table
func (e *Engine) table(ctx context.Context, id string, seq []float64) (*prefix.Table, bool) {
	if e.cache == nil {
		return prefix.Build(seq), false
	}

	t, ok, err := e.cache.Load(ctx, seq)
	if err != nil {
		log.Warningf("cycle %s: cache load failed: %v", id, err)
	} else if ok {
		log.Debugf("cycle %s: cache hit, n=%d", id, len(seq))
		return t, true
	}

	log.Debugf("cycle %s: cache miss, n=%d", id, len(seq))
	t = prefix.Build(seq)
	if err := e.cache.Store(ctx, seq, t); err != nil {
		log.Warningf("cycle %s: cache store failed: %v", id, err)
	}
	return t, false
}

// Resolve answers queries over seq. Nothing is delivered.
func (e *Engine) Resolve(ctx context.Context, seq []float64, queries []prefix.Query) (*Report, error) {
	id := uuid.New().String()
	start := time.Now()

	t, hit := e.table(ctx, id, seq)
	answers, err := t.Resolve(queries)
	if err == nil {
		err = CheckFinite(queries, answers)
	}
	if err != nil {
		log.Errorf("cycle %s: %v", id, err)
		return nil, err
	}

	log.Infof("cycle %s: resolved %d queries over %d elements in %v", id, len(queries), len(seq), time.Since(start))
	return &Report{ID: id, Answers: answers, CacheHit: hit}, nil
}

// Run fetches from src, resolves, and hands the answers to sink. A batch
// with a malformed query or a non-finite answer is never delivered.
func (e *Engine) Run(ctx context.Context, src DataSource, sink ResultSink) (*Report, error) {
	in, err := src.Fetch(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch input")
	}

	report, err := e.Resolve(ctx, in.Sequence, in.Queries)
	if err != nil {
		return nil, err
	}

	if e.dryRun {
		log.Infof("cycle %s: dry run, answers not delivered", report.ID)
		return report, nil
	}

	if err := sink.Deliver(ctx, in.Token, report.Answers); err != nil {
		return report, errors.Wrapf(err, "cycle %s: deliver results", report.ID)
	}
	report.Delivered = true
	log.Infof("cycle %s: delivered %d answers", report.ID, len(report.Answers))
	return report, nil
}
