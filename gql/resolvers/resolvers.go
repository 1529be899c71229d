package resolvers

import (
	"context"
	"time"

	"github.com/0xbe1/liquidated/cache"
	"github.com/0xbe1/liquidated/gql"
	"github.com/0xbe1/liquidated/pubsub"
	"github.com/0xbe1/liquidated/upstream"
)

const DefaultPollInterval = 15 * time.Second

// Doer sends a request to the subgraph.
type Doer interface {
	Do(ctx context.Context, req *upstream.Request) (*upstream.Response, error)
}

type Resolver struct {
	Upstream Doer
	// Cache is optional.
	Cache        cache.Store
	PubSub       *pubsub.PubSub[*upstream.Response]
	PollInterval time.Duration
}

// Query returns gql.QueryResolver implementation.
func (r *Resolver) Query() gql.QueryResolver { return &queryResolver{r} }

// Subscription returns gql.SubscriptionResolver implementation.
func (r *Resolver) Subscription() gql.SubscriptionResolver { return &subscriptionResolver{r} }

type queryResolver struct{ *Resolver }

type subscriptionResolver struct{ *Resolver }
