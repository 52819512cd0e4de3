package utils

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"log"
	"os"
)

func writeDecoded(envVar, destPath string) error {
	b64 := os.Getenv(envVar)
	if b64 == "" {
		return fmt.Errorf("missing env var: %s", envVar)
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", envVar, err)
	}
	return os.WriteFile(destPath, data, 0600)
}

// Decode materializes the base64-encoded Kafka TLS material from the
// environment and returns the keypair and CA pool for the dialer.
func Decode() (tls.Certificate, *x509.CertPool) {
	if err := writeDecoded("SERVICE_CERT_BASE64", "/tmp/service.cert"); err != nil {
		log.Fatalf("cert write error: %v", err)
	}
	if err := writeDecoded("SERVICE_KEY_BASE64", "/tmp/service.key"); err != nil {
		log.Fatalf("key write error: %v", err)
	}
	if err := writeDecoded("CA_PEM_BASE64", "/tmp/ca.pem"); err != nil {
		log.Fatalf("ca write error: %v", err)
	}

	keypair, err := tls.LoadX509KeyPair("/tmp/service.cert", "/tmp/service.key")
	if err != nil {
		log.Fatalf("failed to load TLS keypair: %v", err)
	}

	caCert, err := os.ReadFile("/tmp/ca.pem")
	if err != nil {
		log.Fatalf("failed to read CA cert: %v", err)
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		log.Fatalf("failed to parse CA PEM")
	}
	return keypair, caCertPool
}
