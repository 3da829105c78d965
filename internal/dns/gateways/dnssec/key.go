// Package dnssec loads signing keys and produces DNSKEY and RRSIG records
// for a freshly built zone.
package dnssec

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/miekg/dns"
)

// Supported signing algorithm names as they appear in configuration.
const (
	AlgorithmED25519         = "ed25519"
	AlgorithmECDSAP256SHA256 = "ecdsap256sha256"
)

// Key is a zone signing key: a private signer plus the DNSSEC algorithm
// number it signs with.
type Key struct {
	Signer    crypto.Signer
	Algorithm uint8
}

// LoadKey reads a PEM-encoded private key from path and checks that it
// matches the named algorithm.
func LoadKey(path, algorithm string) (*Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	return ParseKey(data, algorithm)
}

// ParseKey parses a PEM-encoded PKCS#8 or SEC 1 private key and checks that
// it matches the named algorithm.
func ParseKey(data []byte, algorithm string) (*Key, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in key data")
	}

	var parsed any
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		// SEC 1 is the other format EC keys commonly ship in.
		parsed, err = x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing private key: %w", err)
		}
	}

	switch algorithm {
	case AlgorithmED25519:
		priv, ok := parsed.(ed25519.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("key is %T, algorithm %s requires an Ed25519 key", parsed, algorithm)
		}
		return &Key{Signer: priv, Algorithm: dns.ED25519}, nil
	case AlgorithmECDSAP256SHA256:
		priv, ok := parsed.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("key is %T, algorithm %s requires an ECDSA key", parsed, algorithm)
		}
		if priv.Curve != elliptic.P256() {
			return nil, fmt.Errorf("algorithm %s requires curve P-256, key uses %s", algorithm, priv.Curve.Params().Name)
		}
		return &Key{Signer: priv, Algorithm: dns.ECDSAP256SHA256}, nil
	default:
		return nil, fmt.Errorf("unsupported DNSSEC algorithm %q", algorithm)
	}
}

// publicKeyBytes returns the DNSKEY wire representation of the public key
// per RFC 8080 (Ed25519) or RFC 6605 (ECDSA P-256).
func (k *Key) publicKeyBytes() ([]byte, error) {
	switch pub := k.Signer.Public().(type) {
	case ed25519.PublicKey:
		return []byte(pub), nil
	case *ecdsa.PublicKey:
		buf := make([]byte, 64)
		pub.X.FillBytes(buf[:32])
		pub.Y.FillBytes(buf[32:])
		return buf, nil
	default:
		return nil, fmt.Errorf("unsupported public key type %T", pub)
	}
}
