package watch

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0xbe1/liquidated/cmd/common"
	"github.com/0xbe1/liquidated/config"
	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/server/metrics"
	"github.com/0xbe1/liquidated/sink"
	"github.com/0xbe1/liquidated/watcher"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	watchDesc = `
'watch' command follows new compound liquidations and publishes each one to the
configured sinks (log, kafka, postgres). The position is kept in the user
config directory so a restart resumes where it stopped`
	watchExample = `  liquidated watch --config=./config.yaml
  liquidated watch --once --interval=1m`
)

type watchCmd struct {
	once           bool
	interval       time.Duration
	metricsAddress string
}

func (c watchCmd) validate() error {
	if c.interval < 0 {
		return errors.New("--interval must not be negative")
	}
	return nil
}

func NewWatchCmd() *cobra.Command {
	c := &watchCmd{}
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Publishes new liquidations to the configured sinks",
		Long:    watchDesc,
		Example: watchExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.validate(); err != nil {
				return err
			}
			conf, err := common.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if c.interval > 0 {
				conf.Watcher.Interval = c.interval
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return c.run(ctx, conf)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&c.once, "once", false, "drain new liquidations once and exit")
	f.DurationVar(&c.interval, "interval", 0, "poll interval, overrides watcher.interval")
	f.StringVar(&c.metricsAddress, "metrics-address", "", "address for the metrics server")
	return cmd
}

// newSink builds the sinks enabled in conf.
func newSink(ctx context.Context, conf config.SinksConfig) (sink.Sink, error) {
	var sinks sink.Multi
	if conf.Log {
		sinks = append(sinks, sink.Log{})
	}
	if len(conf.Kafka.Brokers) > 0 {
		k, err := sink.NewKafka(conf.Kafka.Brokers, conf.Kafka.Topic)
		if err != nil {
			sinks.Close()
			return nil, err
		}
		sinks = append(sinks, k)
	}
	if conf.Postgres.DSN != "" {
		p, err := sink.NewPostgres(ctx, conf.Postgres.DSN, conf.Postgres.Table)
		if err != nil {
			sinks.Close()
			return nil, err
		}
		sinks = append(sinks, p)
	}
	if len(sinks) == 0 {
		return nil, errors.New("no sink is enabled, set watcher.sinks")
	}
	return sinks, nil
}

func (c watchCmd) run(ctx context.Context, conf *config.Config) error {
	cursors, err := config.NewCursorStore()
	if err != nil {
		return err
	}
	out, err := newSink(ctx, conf.Watcher.Sinks)
	if err != nil {
		return err
	}
	defer out.Close()

	endpoint := conf.WatcherEndpoint()
	w, err := watcher.New(watcher.Options{
		Endpoint: endpoint,
		Fetcher:  watcher.NewGraphqlFetcher(endpoint, &http.Client{Timeout: conf.Upstream.Timeout}),
		Cursors:  cursors,
		Sink:     out,
		Interval: conf.Watcher.Interval,
		PageSize: conf.Watcher.PageSize,
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"endpoint": endpoint,
		"cursor":   cursors.Path(endpoint),
	}).Info("watching liquidations")

	if c.once {
		n, err := w.Poll(ctx)
		log.Infof("published %d liquidations", n)
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(ctx)
	})
	if c.metricsAddress != "" {
		metricsServer := metrics.NewMetricsServer(c.metricsAddress)
		g.Go(func() error {
			log.Infof("Metrics server listening on %s", c.metricsAddress)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}
