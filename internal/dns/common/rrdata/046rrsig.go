package rrdata

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// RRSIGData holds the decoded fields of an RRSIG record (RFC 4034 §3.1).
type RRSIGData struct {
	TypeCovered uint16
	Algorithm   uint8
	Labels      uint8
	OrigTTL     uint32
	Expiration  uint32 // unix seconds
	Inception   uint32 // unix seconds
	KeyTag      uint16
	SignerName  string
	Signature   []byte
}

// EncodeRRSIGData encodes RRSIG fields into RDATA. The signer name is never
// compressed per RFC 4034.
func EncodeRRSIGData(d RRSIGData) ([]byte, error) {
	if len(d.Signature) == 0 {
		return nil, fmt.Errorf("RRSIG signature must not be empty")
	}
	signer, err := encodeDomainName(d.SignerName)
	if err != nil {
		return nil, fmt.Errorf("invalid RRSIG signer name: %w", err)
	}

	fixed := make([]byte, 18)
	binary.BigEndian.PutUint16(fixed[0:], d.TypeCovered)
	fixed[2] = d.Algorithm
	fixed[3] = d.Labels
	binary.BigEndian.PutUint32(fixed[4:], d.OrigTTL)
	binary.BigEndian.PutUint32(fixed[8:], d.Expiration)
	binary.BigEndian.PutUint32(fixed[12:], d.Inception)
	binary.BigEndian.PutUint16(fixed[16:], d.KeyTag)

	var encoded []byte
	encoded = append(encoded, fixed...)
	encoded = append(encoded, signer...)
	encoded = append(encoded, d.Signature...)

	return encoded, nil
}

// DecodeRRSIGData decodes RRSIG RDATA into its fields.
func DecodeRRSIGData(b []byte) (RRSIGData, error) {
	if len(b) < 18 {
		return RRSIGData{}, fmt.Errorf("invalid RRSIG data length: %d", len(b))
	}
	d := RRSIGData{
		TypeCovered: binary.BigEndian.Uint16(b[0:]),
		Algorithm:   b[2],
		Labels:      b[3],
		OrigTTL:     binary.BigEndian.Uint32(b[4:]),
		Expiration:  binary.BigEndian.Uint32(b[8:]),
		Inception:   binary.BigEndian.Uint32(b[12:]),
		KeyTag:      binary.BigEndian.Uint16(b[16:]),
	}
	signer, n, err := decodeDomainName(b[18:])
	if err != nil {
		return RRSIGData{}, fmt.Errorf("invalid RRSIG signer name: %w", err)
	}
	d.SignerName = signer
	sig := b[18+n:]
	if len(sig) == 0 {
		return RRSIGData{}, fmt.Errorf("RRSIG record missing signature")
	}
	d.Signature = append([]byte(nil), sig...)
	return d, nil
}

// String returns the RRSIG presentation form with timestamps as unix
// seconds, which miekg/dns accepts for RRSIG inception and expiration.
func (d RRSIGData) String(typeName string) string {
	return fmt.Sprintf("%s %d %d %d %d %d %d %s. %s",
		typeName, d.Algorithm, d.Labels, d.OrigTTL,
		d.Expiration, d.Inception, d.KeyTag, d.SignerName,
		base64.StdEncoding.EncodeToString(d.Signature))
}
