package cache

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/go-redis/redis/v8"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"

	"rangequery/trees/prefix"
)

var log = logging.MustGetLogger("cache")

const keyPrefix = "rangequery:prefix:"

// KV is the part of *redis.Client the cache needs.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// stored next to the prefix arrays so a hash collision reads as a miss
type record struct {
	Sequence    []float64 `codec:"s"`
	All         []float64 `codec:"a"`
	Alternating []float64 `codec:"d"`
}

// PrefixCache keeps built prefix tables in redis, keyed by the sequence they
// were built from.
type PrefixCache struct {
	kv  KV
	ttl time.Duration
	mh  codec.MsgpackHandle
}

func NewPrefixCache(kv KV, ttl time.Duration) *PrefixCache {
	return &PrefixCache{kv: kv, ttl: ttl}
}

func NewRedisClient(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func Key(seq []float64) string {
	h := xxhash.New64()
	var buf [8]byte
	for _, v := range seq {
		bits := math.Float64bits(v)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf[:])
	}
	return keyPrefix + strconv.Itoa(len(seq)) + ":" + strconv.FormatUint(h.Sum64(), 16)
}

func sameSequence(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

func (c *PrefixCache) Load(ctx context.Context, seq []float64) (*prefix.Table, bool, error) {
	key := Key(seq)
	raw, err := c.kv.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get %s", key)
	}

	var rec record
	if err := codec.NewDecoderBytes(raw, &c.mh).Decode(&rec); err != nil {
		return nil, false, errors.Wrapf(err, "decode %s", key)
	}
	if !sameSequence(rec.Sequence, seq) {
		log.Warningf("key %s holds a different sequence", key)
		return nil, false, nil
	}

	t, err := prefix.FromArrays(rec.All, rec.Alternating)
	if err != nil {
		return nil, false, errors.Wrapf(err, "decode %s", key)
	}
	if t.Len() != len(seq) {
		return nil, false, errors.Errorf("decode %s: table length %d for sequence of %d", key, t.Len(), len(seq))
	}
	return t, true, nil
}

func (c *PrefixCache) Store(ctx context.Context, seq []float64, t *prefix.Table) error {
	key := Key(seq)
	var out []byte
	rec := record{Sequence: seq, All: t.All(), Alternating: t.Alternating()}
	if err := codec.NewEncoderBytes(&out, &c.mh).Encode(&rec); err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}

	if err := c.kv.Set(ctx, key, out, c.ttl).Err(); err != nil {
		return errors.Wrapf(err, "set %s", key)
	}
	return nil
}
