package common

import (
	"os"

	"github.com/0xbe1/liquidated/config"
	"github.com/0xbe1/liquidated/log"
	"github.com/0xbe1/liquidated/mesh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoadConfig loads the file given with --config, falling back to
// ~/.liquidated/config.yaml when it exists.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if file == "" {
		def := config.MustGetPaths().ConfigFile()
		if _, err := os.Stat(def); err == nil {
			file = def
		}
	}
	if file != "" {
		log.Debugf("loading config from %s", file)
	}
	return config.Load(viper.New(), file)
}

func NewMesh(conf *config.Config) (*mesh.Mesh, error) {
	opts, err := mesh.GetMeshOptions(conf)
	if err != nil {
		return nil, err
	}
	return mesh.New(opts)
}
