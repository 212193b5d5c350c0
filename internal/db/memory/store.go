// Package memory implements db.Store with process-local maps. It backs the
// "memory" database driver used in tests and single-node development setups.
package memory

import (
	"context"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/quantfold/riskdex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps all data in memory. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	json  map[string][]byte
	lists map[string][][]byte
	kv    map[string][]byte
}

func NewStore() *Store {
	return &Store{
		json:  map[string][]byte{},
		lists: map[string][][]byte{},
		kv:    map[string][]byte{},
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}

func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// JSONSet stores a JSON document. The path argument exists for interface
// parity with the Redis store; only root writes are supported.
func (s *Store) JSONSet(_ context.Context, key, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.json[key] = cp
	return nil
}

func (s *Store) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.json[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.json, key)
	delete(s.lists, key)
	delete(s.kv, key)
	return nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.json[key]; ok {
		return true, nil
	}
	if _, ok := s.lists[key]; ok {
		return true, nil
	}
	_, ok := s.kv[key]
	return ok, nil
}

// Scan returns keys matching a glob pattern across all keyspaces.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	seen := map[string]bool{}
	collect := func(key string) {
		if seen[key] {
			return
		}
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	for k := range s.json {
		collect(k)
	}
	for k := range s.lists {
		collect(k)
	}
	for k := range s.kv {
		collect(k)
	}
	return keys, nil
}

func (s *Store) RPush(_ context.Context, key string, values ...[]byte) error {
	if len(values) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		cp := make([]byte, len(v))
		copy(cp, v)
		s.lists[key] = append(s.lists[key], cp)
	}
	return nil
}

// LRange follows Redis semantics: negative indexes count from the tail,
// out-of-range bounds are clamped, and missing keys yield an empty result.
func (s *Store) LRange(_ context.Context, key string, start, stop int64) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.lists[key]
	n := int64(len(list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return nil, nil
	}
	out := make([][]byte, 0, stop-start+1)
	for _, v := range list[start : stop+1] {
		cp := make([]byte, len(v))
		copy(cp, v)
		out = append(out, cp)
	}
	return out, nil
}

func (s *Store) LLen(_ context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.lists[key])), nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.kv[key] = cp
	return nil
}

// SetWithTTL stores a value ignoring the TTL. Expiry is not enforced in the
// memory driver; entries live until deleted or the process exits.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, _ time.Duration) error {
	return s.Set(ctx, key, value)
}

func (s *Store) IncrBy(_ context.Context, key string, val int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := int64(0)
	if data, ok := s.kv[key]; ok {
		parsed, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return &db.Error{Op: db.OpIncrBy, Err: err}
		}
		cur = parsed
	}
	s.kv[key] = []byte(strconv.FormatInt(cur+val, 10))
	return nil
}
