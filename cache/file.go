package cache

import (
	"context"
	"encoding/binary"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// File is a leveldb backed cache living in a local directory. Each value is
// prefixed with its expiry as unix nanoseconds.
type File struct {
	db  *leveldb.DB
	ttl time.Duration
	now func() time.Time
}

func NewFile(path string, ttl time.Duration) (*File, error) {
	if path == "" {
		return nil, errors.New("file cache requires a path")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache dir %q", path)
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open cache at %q", path)
	}
	return &File{db: db, ttl: ttl, now: time.Now}, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := f.db.Get([]byte(key), &opt.ReadOptions{})
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to read cache entry")
	}
	if len(raw) < 8 {
		return nil, false, nil
	}
	expiry := int64(binary.BigEndian.Uint64(raw[:8]))
	if f.now().UnixNano() >= expiry {
		if err := f.db.Delete([]byte(key), &opt.WriteOptions{}); err != nil {
			return nil, false, errors.Wrap(err, "failed to evict cache entry")
		}
		return nil, false, nil
	}
	return raw[8:], true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	raw := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(raw[:8], uint64(f.now().Add(f.ttl).UnixNano()))
	copy(raw[8:], value)
	if err := f.db.Put([]byte(key), raw, &opt.WriteOptions{}); err != nil {
		return errors.Wrap(err, "failed to write cache entry")
	}
	return nil
}

func (f *File) Close() error {
	return f.db.Close()
}
