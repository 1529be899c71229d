package ca

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

var DefaultSubject = pkix.Name{
	Organization: []string{"liquidated"},
	CommonName:   "liquidated gateway",
}

// CreateSelfSignedTLS creates a certificate valid for hosts (plus 127.0.0.1)
// that signs itself, for serving the gateway over HTTPS without a CA.
func CreateSelfSignedTLS(hosts []string, subject pkix.Name) (*x509.Certificate, *ecdsa.PrivateKey, error) {
	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate serial number")
	}

	var dnsNames []string
	ips := []net.IP{net.ParseIP("127.0.0.1")}
	for _, host := range hosts {
		addr := net.ParseIP(host)
		if addr == nil {
			dnsNames = append(dnsNames, host)
		} else {
			ips = append(ips, addr)
		}
	}
	privKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	x509Cert := &x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               subject,
		NotBefore:             time.Now().AddDate(0, 0, -1),
		NotAfter:              time.Now().AddDate(1, 0, 0),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		DNSNames:              dnsNames,
		IPAddresses:           ips,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		SubjectKeyId:          computeSKI(privKey),
	}

	certBytes, err := x509.CreateCertificate(rand.Reader, x509Cert, x509Cert, &privKey.PublicKey, privKey)
	if err != nil {
		return nil, nil, err
	}
	crt, err := x509.ParseCertificate(certBytes)
	if err != nil {
		return nil, nil, err
	}
	return crt, privKey, nil
}

// EncodePEM returns the PEM blocks of a certificate and its key.
func EncodePEM(crt *x509.Certificate, key *ecdsa.PrivateKey) ([]byte, []byte, error) {
	keyBytes, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode private key")
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: crt.Raw})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes})
	return certPEM, keyPEM, nil
}

// WriteFiles stores cert.pem and key.pem in dir and returns their paths.
func WriteFiles(dir string, crt *x509.Certificate, key *ecdsa.PrivateKey) (string, string, error) {
	certPEM, keyPEM, err := EncodePEM(crt, key)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", errors.Wrapf(err, "failed to create %s", dir)
	}
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(certPath, certPEM, 0644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return "", "", err
	}
	return certPath, keyPath, nil
}

// TLSConfig loads certFile and keyFile, or generates a self-signed
// certificate for hosts when both are empty.
func TLSConfig(certFile, keyFile string, hosts []string) (*tls.Config, error) {
	var cert tls.Certificate
	var err error
	if certFile != "" || keyFile != "" {
		cert, err = tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load TLS key pair")
		}
	} else {
		crt, key, err := CreateSelfSignedTLS(hosts, DefaultSubject)
		if err != nil {
			return nil, err
		}
		certPEM, keyPEM, err := EncodePEM(crt, key)
		if err != nil {
			return nil, err
		}
		cert, err = tls.X509KeyPair(certPEM, keyPEM)
		if err != nil {
			return nil, err
		}
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// compute Subject Key Identifier
func computeSKI(privKey *ecdsa.PrivateKey) []byte {
	raw := elliptic.Marshal(privKey.Curve, privKey.PublicKey.X, privKey.PublicKey.Y)
	hash := sha256.Sum256(raw)
	return hash[:]
}
