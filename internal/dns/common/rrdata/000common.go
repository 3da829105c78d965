// Package rrdata provides wire-format encoding and decoding of RDATA for
// the record types the server emits. Owner names and message headers are the
// wire codec's concern; this package deals only in RDATA bytes.
package rrdata

import (
	"fmt"
	"strings"
)

// encodeDomainName encodes a domain name into wire format (length-prefixed
// labels ending in a zero octet). Names inside RDATA are never compressed.
func encodeDomainName(name string) ([]byte, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, ".")
	var encoded []byte
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 {
			continue
		}
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		encoded = append(encoded, byte(len(label)))
		encoded = append(encoded, label...)
	}
	encoded = append(encoded, 0)
	return encoded, nil
}

// decodeDomainName decodes an uncompressed domain name and returns the name
// together with the number of bytes consumed, including the terminator.
func decodeDomainName(b []byte) (string, int, error) {
	var labels []string
	i := 0
	for {
		if i >= len(b) {
			return "", 0, fmt.Errorf("truncated domain name")
		}
		labelLen := int(b[i])
		if labelLen == 0 {
			i++
			break
		}
		if labelLen > 63 {
			return "", 0, fmt.Errorf("invalid label length %d", labelLen)
		}
		i++
		if i+labelLen > len(b) {
			return "", 0, fmt.Errorf("truncated label")
		}
		labels = append(labels, string(b[i:i+labelLen]))
		i += labelLen
	}
	return strings.Join(labels, "."), i, nil
}
