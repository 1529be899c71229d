package resolvers

import (
	"context"
	"encoding/json"

	"github.com/0xbe1/liquidated/cache"
	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/metrics"
	"github.com/0xbe1/liquidated/upstream"
)

func (r *queryResolver) Execute(ctx context.Context, req *upstream.Request) (*upstream.Response, error) {
	if r.Cache == nil {
		return r.Upstream.Do(ctx, req)
	}
	key, err := cache.Key(req)
	if err != nil {
		return nil, err
	}
	if resp, ok := r.cached(ctx, key); ok {
		metrics.CacheHit()
		return resp, nil
	}
	metrics.CacheMiss()

	resp, err := r.Upstream.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) == 0 && resp.HasData() {
		r.store(ctx, key, resp)
	}
	return resp, nil
}

func (r *queryResolver) cached(ctx context.Context, key string) (*upstream.Response, bool) {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		log.Warnf("cache lookup failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	resp := &upstream.Response{}
	if err := json.Unmarshal(data, resp); err != nil {
		log.Warnf("discarding unreadable cache entry %s: %v", key, err)
		return nil, false
	}
	return resp, true
}

func (r *queryResolver) store(ctx context.Context, key string, resp *upstream.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Warnf("failed to encode response for cache: %v", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data); err != nil {
		log.Warnf("cache write failed: %v", err)
	}
}
