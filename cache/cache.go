package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/0xbe1/liquidated/upstream"
	"github.com/pkg/errors"
)

const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeRedis  = "redis"
	TypeNone   = "none"
)

// Store keeps serialized responses for a store-wide TTL.
type Store interface {
	// Get returns the value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type Options struct {
	Type string
	TTL  time.Duration
	// Size bounds the in-memory cache.
	Size int
	// Path is the directory of the file cache.
	Path  string
	Redis RedisOptions
}

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// New creates the store selected by opts.Type. A nil store disables caching.
func New(opts Options) (Store, error) {
	if opts.TTL <= 0 && opts.Type != TypeNone && opts.Type != "" {
		return nil, errors.New("cache ttl must be positive")
	}
	switch opts.Type {
	case "", TypeNone:
		return nil, nil
	case TypeMemory:
		return NewMemory(opts.Size, opts.TTL), nil
	case TypeFile:
		return NewFile(opts.Path, opts.TTL)
	case TypeRedis:
		return NewRedis(opts.Redis, opts.TTL), nil
	}
	return nil, errors.Errorf("unknown cache type %q", opts.Type)
}

// Key derives the cache key of a request. Variables are encoded by
// encoding/json, which sorts map keys, so equal requests share a key.
func Key(req *upstream.Request) (string, error) {
	vars, err := json.Marshal(req.Variables)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode variables")
	}
	h := sha256.New()
	h.Write([]byte(req.OperationName))
	h.Write([]byte{0})
	h.Write([]byte(req.Query))
	h.Write([]byte{0})
	h.Write(vars)
	return hex.EncodeToString(h.Sum(nil)), nil
}
