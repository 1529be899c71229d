package generate_certs

import (
	"fmt"

	"github.com/0xbe1/liquidated/ca"
	"github.com/0xbe1/liquidated/config"
	"github.com/0xbe1/liquidated/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	generateCertsDesc = `
'generate-certs' command creates a self-signed certificate for serving the
gateway over HTTPS. Point server.tls.certFile and server.tls.keyFile at the
printed paths`
	generateCertsExample = `  liquidated generate-certs --hosts localhost,gateway.internal`
)

type generateCertsCmd struct {
	hosts []string
	dest  string
}

func (c generateCertsCmd) validate() error {
	if len(c.hosts) == 0 {
		return errors.New("--hosts is required")
	}
	return nil
}

func (c generateCertsCmd) run(cmd *cobra.Command) error {
	crt, key, err := ca.CreateSelfSignedTLS(c.hosts, ca.DefaultSubject)
	if err != nil {
		return err
	}
	certPath, keyPath, err := ca.WriteFiles(c.dest, crt, key)
	if err != nil {
		return err
	}
	log.Infof("certificate valid until %s", crt.NotAfter.Format("2006-01-02"))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "certFile: %s\nkeyFile: %s\n", certPath, keyPath)
	return err
}

func NewGenerateCertsCmd() *cobra.Command {
	c := &generateCertsCmd{}
	cmd := &cobra.Command{
		Use:     "generate-certs",
		Short:   "Creates a self-signed TLS certificate",
		Long:    generateCertsDesc,
		Example: generateCertsExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.dest == "" {
				c.dest = config.MustGetPaths().CertsDir()
			}
			if err := c.validate(); err != nil {
				return err
			}
			return c.run(cmd)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&c.hosts, "hosts", []string{"localhost"}, "DNS names and IPs of the certificate")
	f.StringVar(&c.dest, "dest", "", "output directory, defaults to ~/.liquidated/certs")
	return cmd
}
