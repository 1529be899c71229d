package mesh

import (
	"context"
	"time"

	"github.com/0xbe1/liquidated/cache"
	"github.com/0xbe1/liquidated/config"
	"github.com/0xbe1/liquidated/gql"
	"github.com/0xbe1/liquidated/gql/resolvers"
	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/pubsub"
	"github.com/0xbe1/liquidated/schema"
	"github.com/0xbe1/liquidated/sdk"
	"github.com/0xbe1/liquidated/upstream"
	"github.com/99designs/gqlgen/graphql"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// Options holds everything a Mesh is built from.
type Options struct {
	Schema       *schema.Schema
	Upstream     resolvers.Doer
	Cache        cache.Store
	PubSub       *pubsub.PubSub[*upstream.Response]
	PollInterval time.Duration
}

// GetMeshOptions builds the schema, the upstream client, the response cache
// and the subscription pubsub described by conf.
func GetMeshOptions(conf *config.Config) (*Options, error) {
	s, err := schema.Load()
	if err != nil {
		return nil, err
	}
	client, err := upstream.New(upstream.Options{
		Name:     conf.Upstream.Name,
		Endpoint: conf.Upstream.Endpoint,
		Headers:  conf.Upstream.Headers,
		Timeout:  conf.Upstream.Timeout,
		Retries:  conf.Upstream.Retries,
	})
	if err != nil {
		return nil, err
	}
	store, err := cache.New(cache.Options{
		Type: conf.Cache.Type,
		TTL:  conf.Cache.TTL,
		Size: conf.Cache.Size,
		Path: conf.Cache.Path,
		Redis: cache.RedisOptions{
			Addr:      conf.Cache.Redis.Addr,
			Password:  conf.Cache.Redis.Password,
			DB:        conf.Cache.Redis.DB,
			KeyPrefix: conf.Cache.Redis.KeyPrefix,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cache")
	}
	return &Options{
		Schema:       s,
		Upstream:     client,
		Cache:        store,
		PubSub:       pubsub.New[*upstream.Response](conf.PubSub.Buffer),
		PollInterval: conf.PubSub.PollInterval,
	}, nil
}

// Mesh is the built graph client: a validated, cached view of the subgraph.
type Mesh struct {
	opts     *Options
	resolver *resolvers.Resolver
	es       graphql.ExecutableSchema
	sdk      *sdk.Sdk
}

func New(opts *Options) (*Mesh, error) {
	if opts == nil || opts.Schema == nil {
		return nil, errors.New("mesh options require a schema")
	}
	if opts.Upstream == nil {
		return nil, errors.New("mesh options require an upstream")
	}
	if opts.PubSub == nil {
		opts.PubSub = pubsub.New[*upstream.Response](0)
	}
	r := &resolvers.Resolver{
		Upstream:     opts.Upstream,
		Cache:        opts.Cache,
		PubSub:       opts.PubSub,
		PollInterval: opts.PollInterval,
	}
	m := &Mesh{
		opts:     opts,
		resolver: r,
		es: gql.NewExecutableSchema(gql.Config{
			Schema:    opts.Schema,
			Resolvers: r,
		}),
	}
	m.sdk = sdk.New(m, opts.Schema)
	return m, nil
}

// Execute validates req against the schema and runs the query. Validation
// failures are reported in the response, the way the upstream reports them.
func (m *Mesh) Execute(ctx context.Context, req *upstream.Request) (*upstream.Response, error) {
	op, errs := m.validate(req)
	if errs != nil {
		return &upstream.Response{Errors: errs}, nil
	}
	if op.Operation != ast.Query {
		return nil, errors.Errorf("Execute does not run %s operations", op.Operation)
	}
	return m.resolver.Query().Execute(ctx, req)
}

// Subscribe validates req and streams its results until ctx is done.
func (m *Mesh) Subscribe(ctx context.Context, req *upstream.Request) (<-chan *upstream.Response, error) {
	op, errs := m.validate(req)
	if errs != nil {
		return nil, errs
	}
	if op.Operation != ast.Subscription {
		return nil, errors.Errorf("Subscribe does not run %s operations", op.Operation)
	}
	return m.resolver.Subscription().Subscribe(ctx, req)
}

func (m *Mesh) validate(req *upstream.Request) (*ast.OperationDefinition, upstream.Errors) {
	doc, list := gqlparser.LoadQuery(m.opts.Schema.AST, req.Query)
	if len(list) > 0 {
		return nil, upstream.ErrorsFromGQL(list)
	}
	var op *ast.OperationDefinition
	switch {
	case req.OperationName != "":
		op = doc.Operations.ForName(req.OperationName)
	case len(doc.Operations) == 1:
		op = doc.Operations[0]
	}
	if op == nil {
		return nil, upstream.Errors{{Message: "operation not found"}}
	}
	if _, err := validator.VariableValues(m.opts.Schema.AST, op, req.Variables); err != nil {
		var gqlErr *gqlerror.Error
		if errors.As(err, &gqlErr) {
			return nil, upstream.ErrorsFromGQL(gqlerror.List{gqlErr})
		}
		return nil, upstream.Errors{{Message: err.Error()}}
	}
	return op, nil
}

// Sdk returns the typed SDK bound to this mesh.
func (m *Mesh) Sdk() *sdk.Sdk {
	return m.sdk
}

// ExecutableSchema serves the mesh over HTTP with gqlgen.
func (m *Mesh) ExecutableSchema() graphql.ExecutableSchema {
	return m.es
}

func (m *Mesh) Schema() *schema.Schema {
	return m.opts.Schema
}

// Close stops every subscription poller and releases the cache.
func (m *Mesh) Close() error {
	m.opts.PubSub.Close()
	if m.opts.Cache != nil {
		if err := m.opts.Cache.Close(); err != nil {
			return errors.Wrap(err, "failed to close cache")
		}
	}
	log.Debugf("mesh closed")
	return nil
}
