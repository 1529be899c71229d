package server

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/mesh"
	"github.com/0xbe1/liquidated/server/metrics"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/apollotracing"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/slok/go-http-metrics/middleware"
	middlewarestd "github.com/slok/go-http-metrics/middleware/std"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type GatewayServerOpts struct {
	Address        string
	MetricsAddress string
	Mesh           *mesh.Mesh

	Playground    bool
	Introspection bool
	// Tracing adds Apollo tracing data to every response.
	Tracing         bool
	ComplexityLimit int
	QueryCacheSize  int
	APQCacheSize    int
	AllowedOrigins  []string
	CORSMaxAge      int
	// RateLimit is the number of requests per second allowed per client IP. Zero disables it.
	RateLimit float64
	// TLS serves HTTPS when set.
	TLS *tls.Config
}

type GatewayServer struct {
	GatewayServerOpts
}

func NewServer(opts GatewayServerOpts) *GatewayServer {
	if opts.QueryCacheSize <= 0 {
		opts.QueryCacheSize = 1000
	}
	if opts.APQCacheSize <= 0 {
		opts.APQCacheSize = 100
	}
	return &GatewayServer{
		GatewayServerOpts: opts,
	}
}

// Run serves the gateway and the metrics endpoint until ctx is done, then
// shuts both down.
func (a *GatewayServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Address,
		Handler:           a.Handler(),
		TLSConfig:         a.TLS,
		ReadHeaderTimeout: 10 * time.Second,
	}
	servers := []*http.Server{srv}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if a.TLS != nil {
			log.Infof("Server listening on https://%s", a.Address)
			return checkServeErr("server", srv.ListenAndServeTLS("", ""))
		}
		log.Infof("Server listening on http://%s", a.Address)
		return checkServeErr("server", srv.ListenAndServe())
	})
	if a.MetricsAddress != "" {
		metricsServ := metrics.NewMetricsServer(a.MetricsAddress)
		servers = append(servers, metricsServ.Server)
		g.Go(func() error {
			log.Infof("Metrics server listening on %s", a.MetricsAddress)
			return checkServeErr("metrics", metricsServ.ListenAndServe())
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				log.Warnf("failed to shut down %s: %v", s.Addr, err)
			}
		}
		return nil
	})
	return g.Wait()
}

// Handler returns the HTTP routes of the gateway with every middleware applied.
func (a *GatewayServer) Handler() http.Handler {
	serverMux := http.NewServeMux()
	allowOrigin := allowedOrigin(a.AllowedOrigins)

	h := handler.New(a.Mesh.ExecutableSchema())
	h.AddTransport(transport.Websocket{
		KeepAlivePingInterval: 10 * time.Second,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin(origin)
			},
		},
	})
	h.AddTransport(transport.Options{})
	h.AddTransport(transport.GET{})
	h.AddTransport(transport.POST{})

	h.SetQueryCache(lru.New(a.QueryCacheSize))
	if a.Introspection {
		h.Use(extension.Introspection{})
	}
	h.Use(extension.AutomaticPersistedQuery{
		Cache: lru.New(a.APQCacheSize),
	})
	if a.ComplexityLimit > 0 {
		h.Use(extension.FixedComplexityLimit(a.ComplexityLimit))
	}
	if a.Tracing {
		h.Use(apollotracing.Tracer{})
	}
	h.Use(metrics.Tracer{})

	var graphqlHandler http.Handler = h
	if a.RateLimit > 0 {
		lmt := tollbooth.NewLimiter(a.RateLimit, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
		lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
		lmt.SetMessageContentType("application/json")
		lmt.SetMessage(`{"errors":[{"message":"rate limit exceeded"}]}`)
		graphqlHandler = tollbooth.LimitHandler(lmt, h)
	}
	serverMux.Handle("/graphql", graphqlHandler)
	if a.Playground {
		serverMux.HandleFunc("/playground", playground.Handler("liquidated", "/graphql"))
	}
	serverMux.HandleFunc(
		"/schema.graphql",
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/graphql; charset=utf-8")
			io.WriteString(w, a.Mesh.Schema().SDL)
		},
	)
	serverMux.HandleFunc(
		"/healthz",
		func(w http.ResponseWriter, request *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, `{"alive": true}`)
		},
	)

	corz := cors.New(cors.Options{
		AllowOriginFunc: allowOrigin,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
		MaxAge:           a.CORSMaxAge,
		AllowCredentials: explicitOrigins(a.AllowedOrigins),
	})
	mdlw := middleware.New(middleware.Config{
		Recorder: metrics.HTTPRecorder(),
	})
	return middlewarestd.Handler("", mdlw, corz.Handler(serverMux))
}

// explicitOrigins reports whether every allowed origin is named. Credentials
// are only allowed for such lists.
func explicitOrigins(allowed []string) bool {
	if len(allowed) == 0 {
		return false
	}
	for _, o := range allowed {
		if o == "*" {
			return false
		}
	}
	return true
}

func allowedOrigin(allowed []string) func(origin string) bool {
	return func(origin string) bool {
		if len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// checkServeErr turns the error of a ListenAndServe call into nil on graceful shutdown.
func checkServeErr(name string, err error) error {
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		log.Infof("graceful shutdown %s", name)
		return nil
	}
	return errors.Wrapf(err, "%s", name)
}
