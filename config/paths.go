package config

import (
	"os"
	"path/filepath"

	"github.com/0xbe1/liquidated/log"
	"github.com/pkg/errors"
	"k8s.io/client-go/util/homedir"
)

// RootEnv overrides the base directory of the local state.
const RootEnv = "LIQUIDATED_ROOT"

// Paths locates the files the CLI keeps under the user's home.
type Paths struct {
	base string
}

func MustGetPaths() Paths {
	base := filepath.Join(homedir.HomeDir(), ".liquidated")
	if fromEnv := os.Getenv(RootEnv); fromEnv != "" {
		base = fromEnv
		log.Debugf("using environment override %s=%s", RootEnv, fromEnv)
	}
	base, err := filepath.Abs(base)
	if err != nil {
		panic(errors.Wrap(err, "cannot get absolute path"))
	}
	return Paths{base: base}
}

func (p Paths) Base() string {
	return p.base
}

func (p Paths) ConfigFile() string {
	return filepath.Join(p.base, "config.yaml")
}

func (p Paths) CertsDir() string {
	return filepath.Join(p.base, "certs")
}

func (p Paths) ExportsDir() string {
	return filepath.Join(p.base, "exports")
}

// EnsureDirs creates every directory in paths.
func EnsureDirs(paths ...string) error {
	for _, p := range paths {
		log.Debugf("Ensure creating dir: %q", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			return errors.Wrapf(err, "failed to ensure create directory %q", p)
		}
	}
	return nil
}
