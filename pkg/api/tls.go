package api

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// ServerTLSConfig loads the server key pair and, when clientCA is set,
// requires client certificates signed by it.
func ServerTLSConfig(certFile, keyFile, clientCA string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load cert/key: %w", err)
	}
	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	if clientCA == "" {
		return cfg, nil
	}
	caData, err := os.ReadFile(clientCA)
	if err != nil {
		return nil, fmt.Errorf("read client ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caData) {
		return nil, errors.New("invalid client ca")
	}
	cfg.ClientCAs = pool
	cfg.ClientAuth = tls.RequireAndVerifyClientCert
	return cfg, nil
}

// Serve runs srv over HTTPS when a key pair is given and plain HTTP otherwise.
func Serve(srv *http.Server, certFile, keyFile, clientCA string) error {
	if certFile == "" || keyFile == "" {
		return srv.ListenAndServe()
	}
	cfg, err := ServerTLSConfig(certFile, keyFile, clientCA)
	if err != nil {
		return err
	}
	srv.TLSConfig = cfg
	return srv.ListenAndServeTLS("", "")
}
