package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

const (
	DefaultEndpoint = "https://api.thegraph.com/subgraphs/name/messari/compound-ethereum"
	DefaultTimeout  = 30 * time.Second
	DefaultRetries  = 3

	maxBodySize = 64 << 20
)

type Options struct {
	Name     string
	Endpoint string
	Headers  map[string]string
	Timeout  time.Duration
	Retries  uint64
	// MaxInterval caps the back-off between retries.
	MaxInterval time.Duration
	HTTPClient  *http.Client
}

// Client sends GraphQL requests to a single subgraph endpoint.
type Client struct {
	Options
	http *http.Client
}

func New(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("upstream endpoint is required")
	}
	if opts.Name == "" {
		opts.Name = "subgraph"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = 5 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{Options: opts, http: httpClient}, nil
}

// Do sends the request, retrying transport failures, 429 and 5xx answers.
// GraphQL errors are returned in the response, not as an error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}
	var resp *Response
	attempt := 0
	op := func() error {
		attempt++
		r, err := c.send(ctx, body)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Retryable() {
				return backoff.Permanent(err)
			}
			log.WithFields(log.Fields{
				"upstream": c.Name,
				"attempt":  attempt,
			}).WithError(err).Debug("upstream request failed")
			return err
		}
		resp = r
		return nil
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = c.MaxInterval
	if policy.InitialInterval > c.MaxInterval {
		policy.InitialInterval = c.MaxInterval
	}
	err = backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, c.Retries), ctx))
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "failed to create request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range c.Headers {
		httpReq.Header.Set(k, v)
	}
	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveUpstream(c.Name, "error", time.Since(start))
		return nil, errors.Wrapf(err, "request to %s failed", c.Name)
	}
	defer httpResp.Body.Close()
	metrics.ObserveUpstream(c.Name, strconv.Itoa(httpResp.StatusCode), time.Since(start))

	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: httpResp.StatusCode, Body: string(payload)}
	}
	resp := &Response{}
	if err := json.Unmarshal(payload, resp); err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "failed to decode response"))
	}
	return resp, nil
}
