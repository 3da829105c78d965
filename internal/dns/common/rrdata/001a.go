package rrdata

import (
	"fmt"
	"net"
)

// EncodeAData encodes an IPv4 address string into A record RDATA.
func EncodeAData(data string) ([]byte, error) {
	// data = "192.0.2.1"
	ip := net.ParseIP(data)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("invalid A record IP: %s", data)
	}
	return ip.To4(), nil
}

// DecodeAData decodes A record RDATA into an IPv4 address string.
func DecodeAData(b []byte) (string, error) {
	if len(b) != 4 {
		return "", fmt.Errorf("invalid A record data length: %d", len(b))
	}
	return net.IP(b).String(), nil
}
