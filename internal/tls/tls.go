// Package tls builds the client TLS configuration used to reach the
// Mailgun API, optionally trusting an extra CA bundle such as the one of
// an intercepting corporate proxy.
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
)

// ClientConfig returns a TLS 1.2+ client configuration. When caFile is set,
// the PEM certificates it contains are trusted in addition to the system
// roots.
func ClientConfig(caFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caFile == "" {
		return cfg, nil
	}

	pemData, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, fmt.Errorf("no PEM certificates found in CA file %s", caFile)
	}

	cfg.RootCAs = pool
	return cfg, nil
}

// Transport returns a clone of http.DefaultTransport using ClientConfig.
func Transport(caFile string) (*http.Transport, error) {
	cfg, err := ClientConfig(caFile)
	if err != nil {
		return nil, err
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = cfg
	return t, nil
}
