package serve

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xbe1/liquidated/ca"
	"github.com/0xbe1/liquidated/cmd/common"
	"github.com/0xbe1/liquidated/config"
	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	serveDesc = `
'serve' command starts the GraphQL gateway in front of the compound-ethereum subgraph`
	serveExample = `  liquidated serve --address="0.0.0.0:8080" --metrics-address="0.0.0.0:8081" --config=./config.yaml`
)

type serveCmd struct {
	address        string
	metricsAddress string
	tls            bool
}

func NewServeCmd() *cobra.Command {
	s := &serveCmd{}
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Starts the gateway",
		Long:    serveDesc,
		Example: serveExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := common.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if s.address != "" {
				conf.Server.Address = s.address
			}
			if s.metricsAddress != "" {
				conf.Server.MetricsAddress = s.metricsAddress
			}
			if s.tls {
				conf.Server.TLS.Enabled = true
			}
			if err := s.validate(conf); err != nil {
				return err
			}
			return s.run(cmd.Context(), conf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&s.address, "address", "", "address for the server")
	f.StringVar(&s.metricsAddress, "metrics-address", "", "address for the metrics server")
	f.BoolVar(&s.tls, "tls", false, "serve over HTTPS, generating a certificate if none is configured")
	return cmd
}

func (c *serveCmd) validate(conf *config.Config) error {
	if conf.Server.Address == "" {
		return errors.New("--address is required for the server")
	}
	if conf.Server.MetricsAddress == "" {
		return errors.New("--metrics-address is required for the server")
	}
	return nil
}

func (c *serveCmd) run(ctx context.Context, conf *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m, err := common.NewMesh(conf)
	if err != nil {
		return err
	}
	defer m.Close()

	var tlsConfig *tls.Config
	if conf.Server.TLS.Enabled {
		tlsConfig, err = ca.TLSConfig(conf.Server.TLS.CertFile, conf.Server.TLS.KeyFile, conf.Server.TLS.Hosts)
		if err != nil {
			return err
		}
		if conf.Server.TLS.CertFile == "" {
			log.Warnf("serving with a generated self-signed certificate")
		}
	}

	s := server.NewServer(server.GatewayServerOpts{
		Address:         conf.Server.Address,
		MetricsAddress:  conf.Server.MetricsAddress,
		Mesh:            m,
		Playground:      conf.Server.Playground,
		Introspection:   conf.Server.Introspection,
		Tracing:         conf.Server.Tracing,
		ComplexityLimit: conf.Server.ComplexityLimit,
		QueryCacheSize:  conf.Server.QueryCacheSize,
		APQCacheSize:    conf.Server.APQCacheSize,
		AllowedOrigins:  conf.Server.CORS.AllowedOrigins,
		CORSMaxAge:      conf.Server.CORS.MaxAge,
		RateLimit:       conf.Server.RateLimit,
		TLS:             tlsConfig,
	})
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Infof("serving %s on %s", conf.Upstream.Name, conf.Server.Address)
	return s.Run(ctx)
}
