package rrdata

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// DNSKEYData holds the decoded fields of a DNSKEY record (RFC 4034 §2.1).
type DNSKEYData struct {
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	PublicKey []byte
}

// EncodeDNSKEYData encodes DNSKEY fields into RDATA.
func EncodeDNSKEYData(d DNSKEYData) ([]byte, error) {
	if len(d.PublicKey) == 0 {
		return nil, fmt.Errorf("DNSKEY public key must not be empty")
	}
	encoded := make([]byte, 4, 4+len(d.PublicKey))
	binary.BigEndian.PutUint16(encoded[0:], d.Flags)
	encoded[2] = d.Protocol
	encoded[3] = d.Algorithm
	encoded = append(encoded, d.PublicKey...)
	return encoded, nil
}

// DecodeDNSKEYData decodes DNSKEY RDATA into its fields.
func DecodeDNSKEYData(b []byte) (DNSKEYData, error) {
	if len(b) < 5 {
		return DNSKEYData{}, fmt.Errorf("invalid DNSKEY data length: %d", len(b))
	}
	return DNSKEYData{
		Flags:     binary.BigEndian.Uint16(b[0:]),
		Protocol:  b[2],
		Algorithm: b[3],
		PublicKey: append([]byte(nil), b[4:]...),
	}, nil
}

// String returns the DNSKEY presentation form.
func (d DNSKEYData) String() string {
	return fmt.Sprintf("%d %d %d %s",
		d.Flags, d.Protocol, d.Algorithm,
		base64.StdEncoding.EncodeToString(d.PublicKey))
}
