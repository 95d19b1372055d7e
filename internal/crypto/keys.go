package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	apperrors "github.com/durfee/passwords/internal/errors"
)

// LoadPublicKey reads an RSA public key from a PEM file. The file may hold an
// X.509 certificate (the usual case, the same client certificate used for
// mTLS), a PKIX "PUBLIC KEY" block, or a PKCS#1 "RSA PUBLIC KEY" block.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read public key file")
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "no PEM block in public key file")
	}

	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to parse certificate")
		}
		publicKey, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrCrypto, "certificate does not hold an RSA key")
		}
		return publicKey, nil
	case "PUBLIC KEY":
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to parse public key")
		}
		publicKey, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrCrypto, "public key is not an RSA key")
		}
		return publicKey, nil
	case "RSA PUBLIC KEY":
		publicKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to parse public key")
		}
		return publicKey, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "unsupported PEM block "+block.Type)
	}
}

// LoadPrivateKey reads an RSA private key from a PEM file in PKCS#1
// ("RSA PRIVATE KEY") or PKCS#8 ("PRIVATE KEY") form.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read private key file")
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "no PEM block in private key file")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to parse private key")
		}
		return privateKey, nil
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCrypto, "failed to parse private key")
		}
		privateKey, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, apperrors.Wrap(apperrors.ErrCrypto, "private key is not an RSA key")
		}
		return privateKey, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrCrypto, "unsupported PEM block "+block.Type)
	}
}
