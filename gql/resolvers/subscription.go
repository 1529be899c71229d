package resolvers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"time"

	"github.com/0xbe1/liquidated/cache"
	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/pubsub"
	"github.com/0xbe1/liquidated/upstream"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// Subscribe polls the subscription as a query. Subscribers of the same
// operation and variables share one poller.
func (r *subscriptionResolver) Subscribe(ctx context.Context, req *upstream.Request) (<-chan *upstream.Response, error) {
	if r.PubSub == nil {
		return nil, errors.New("subscriptions are not enabled")
	}
	query, err := AsQuery(req.Query, req.OperationName)
	if err != nil {
		return nil, err
	}
	pollReq := &upstream.Request{
		Query:         query,
		OperationName: req.OperationName,
		Variables:     req.Variables,
	}
	key, err := cache.Key(pollReq)
	if err != nil {
		return nil, err
	}
	return r.PubSub.Subscribe(ctx, key, r.poll(pollReq)), nil
}

// poll publishes the first response and then every response that differs
// from the previous one.
func (r *Resolver) poll(req *upstream.Request) pubsub.Producer[*upstream.Response] {
	interval := r.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return func(ctx context.Context, publish func(*upstream.Response)) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var last []byte
		for {
			resp, err := r.Upstream.Do(ctx, req)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warnf("subscription poll %s failed: %v", req.OperationName, err)
				resp = &upstream.Response{Errors: upstream.Errors{{Message: err.Error()}}}
			}
			body, err := json.Marshal(resp)
			if err != nil {
				log.Errorf("failed to encode subscription response: %v", err)
			} else if sum := sha256.Sum256(body); last == nil || !bytes.Equal(sum[:], last) {
				last = sum[:]
				publish(resp)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}

const (
	queryType        = "Query"
	subscriptionType = "Subscription"
)

// retarget points inline fragments on the subscription root at the query root.
func retarget(set ast.SelectionSet) {
	for _, sel := range set {
		switch sel := sel.(type) {
		case *ast.Field:
			retarget(sel.SelectionSet)
		case *ast.InlineFragment:
			if sel.TypeCondition == subscriptionType {
				sel.TypeCondition = queryType
			}
			retarget(sel.SelectionSet)
		}
	}
}

// AsQuery rewrites the selected subscription operation of a document into a
// query with the same selection. Other operations are dropped.
func AsQuery(query, operationName string) (string, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "subscription", Input: query})
	if err != nil {
		return "", errors.Wrap(err, "failed to parse subscription")
	}
	var op *ast.OperationDefinition
	switch {
	case operationName != "":
		op = doc.Operations.ForName(operationName)
	case len(doc.Operations) == 1:
		op = doc.Operations[0]
	}
	if op == nil {
		return "", errors.Errorf("operation %q not found", operationName)
	}
	if op.Operation != ast.Subscription {
		return "", errors.Errorf("operation %q is a %s, not a subscription", op.Name, op.Operation)
	}
	rewritten := *op
	rewritten.Operation = ast.Query
	retarget(rewritten.SelectionSet)
	for _, f := range doc.Fragments {
		if f.TypeCondition == subscriptionType {
			f.TypeCondition = queryType
		}
		retarget(f.SelectionSet)
	}
	out := &ast.QueryDocument{
		Operations: ast.OperationList{&rewritten},
		Fragments:  doc.Fragments,
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(out)
	return buf.String(), nil
}
