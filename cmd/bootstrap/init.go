package bootstrap

import (
	"os"
	"path/filepath"

	"github.com/0xbe1/liquidated/config"
	"github.com/0xbe1/liquidated/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	initDesc = `
'init' command writes a configuration file with every setting at its default,
ready to be edited`
	initExample = `  liquidated init
  liquidated init --dest ./config.yaml --endpoint https://api.thegraph.com/subgraphs/name/messari/compound-ethereum --cache redis`
)

type initCmd struct {
	destination string
	endpoint    string
	cache       string
	force       bool
}

func (c initCmd) validate() error {
	if c.destination == "" {
		return errors.New("--dest is required")
	}
	if filepath.Ext(c.destination) != ".yaml" && filepath.Ext(c.destination) != ".yml" {
		return errors.New("--dest must be a .yaml file")
	}
	return nil
}

func (c initCmd) run() error {
	if _, err := os.Stat(c.destination); err == nil && !c.force {
		return errors.Errorf("%s already exists, use --force to overwrite it", c.destination)
	}
	v := viper.New()
	config.SetDefaults(v)
	if c.endpoint != "" {
		v.Set("upstream.endpoint", c.endpoint)
	}
	if c.cache != "" {
		v.Set("cache.type", c.cache)
	}
	conf := &config.Config{}
	if err := v.Unmarshal(conf); err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	if err := config.EnsureDirs(filepath.Dir(c.destination)); err != nil {
		return err
	}
	if err := v.WriteConfigAs(c.destination); err != nil {
		return errors.Wrapf(err, "failed to write %s", c.destination)
	}
	log.Infof("configuration written to %s", c.destination)
	return nil
}

func NewInitCmd() *cobra.Command {
	c := &initCmd{}
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Writes a default configuration file",
		Long:    initDesc,
		Example: initExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.destination == "" {
				c.destination = config.MustGetPaths().ConfigFile()
			}
			if err := c.validate(); err != nil {
				return err
			}
			return c.run()
		},
	}
	f := cmd.Flags()
	f.StringVar(&c.destination, "dest", "", "destination file, defaults to ~/.liquidated/config.yaml")
	f.StringVar(&c.endpoint, "endpoint", "", "subgraph endpoint")
	f.StringVar(&c.cache, "cache", "", "response cache: memory, file, redis or none")
	f.BoolVar(&c.force, "force", false, "overwrite an existing file")
	return cmd
}
