package generate_certs

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/0xbe1/liquidated/ca"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCerts(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cmd := NewGenerateCertsCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--hosts", "localhost,127.0.0.2", "--dest", dir})
	require.NoError(t, cmd.Execute())

	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	assert.Contains(t, out.String(), "certFile: "+certPath)
	assert.FileExists(t, keyPath)

	conf, err := ca.TLSConfig(certPath, keyPath, nil)
	require.NoError(t, err)
	assert.Len(t, conf.Certificates, 1)
}

func TestGenerateCertsRequiresHosts(t *testing.T) {
	assert.Error(t, generateCertsCmd{}.validate())
}
