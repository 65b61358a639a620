// работа с TLS сертификатами (когда сервер сам принимает HTTPS, без nginx перед ним)
package config

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// LoadTLSCertificate загружает и проверяет TLS сертификат
func LoadTLSCertificate(certFile, keyFile string) (tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	if _, err := x509.ParseCertificate(cert.Certificate[0]); err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return cert, nil
}

// CheckCertificateValidity проверяет срок действия сертификата
func CheckCertificateValidity(certFile string) error {
	data, err := os.ReadFile(certFile)
	if err != nil {
		return fmt.Errorf("failed to read certificate file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return fmt.Errorf("failed to decode PEM block from certificate")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}

	now := time.Now()

	if now.Before(cert.NotBefore) {
		return fmt.Errorf("certificate is not yet valid (valid from: %s)", cert.NotBefore.Format(time.RFC3339))
	}

	if now.After(cert.NotAfter) {
		return fmt.Errorf("certificate has expired (expired at: %s)", cert.NotAfter.Format(time.RFC3339))
	}

	// Предупреждение, если срок действия истекает в ближайшие 30 дней
	if time.Until(cert.NotAfter) < 30*24*time.Hour {
		daysLeft := int(time.Until(cert.NotAfter).Hours() / 24)
		return fmt.Errorf("certificate expires soon (in %d days)", daysLeft)
	}

	return nil
}

// CreateTLSConfig создает конфигурацию TLS для HTTP сервера
func (c *ServerConfig) CreateTLSConfig(logger *slog.Logger) (*tls.Config, error) {
	if !c.EnableTLS {
		return nil, nil
	}

	if err := c.ValidateTLS(); err != nil {
		return nil, err
	}

	cert, err := LoadTLSCertificate(c.TLSCertFile, c.TLSKeyFile)
	if err != nil {
		return nil, err
	}

	// истекающий сертификат не мешает запуску в development
	if err := CheckCertificateValidity(c.TLSCertFile); err != nil && logger != nil {
		logger.Warn("certificate warning", "error", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
	}, nil
}
