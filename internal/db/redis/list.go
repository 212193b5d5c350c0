package redis

import (
	"context"

	"github.com/quantfold/riskdex/internal/db"
)

// RPush appends values to the tail of a list.
func (s *Store) RPush(ctx context.Context, key string, values ...[]byte) error {
	if len(values) == 0 {
		return nil
	}
	elems := make([]string, len(values))
	for i, v := range values {
		elems[i] = string(v)
	}
	cmd := s.b().Rpush().Key(key).Element(elems...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpRPush, Err: err}
	}
	return nil
}

// LRange returns list elements between start and stop, inclusive.
func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	cmd := s.b().Lrange().Key(key).Start(start).Stop(stop).Build()
	elems, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	out := make([][]byte, len(elems))
	for i, e := range elems {
		out[i] = []byte(e)
	}
	return out, nil
}

// LLen returns the length of a list. Missing keys report zero.
func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Llen().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpLLen, Err: err}
	}
	return n, nil
}
