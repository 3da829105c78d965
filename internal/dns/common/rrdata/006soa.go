package rrdata

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// EncodeSOAData encodes an SOA record presentation string into RDATA.
func EncodeSOAData(data string) ([]byte, error) {
	// data = "mname rname serial refresh retry expire minimum"
	parts := strings.Fields(data)
	if len(parts) != 7 {
		return nil, fmt.Errorf("invalid SOA record format (expected 7 fields): %s", data)
	}

	// mname is the primary name server for the zone
	mname, err := encodeDomainName(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid SOA mname: %w", err)
	}

	// rname is the zone administrator's mailbox with '@' encoded as a label
	// separator, e.g. "hostmaster.example.com"
	rname, err := encodeDomainName(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid SOA rname: %w", err)
	}

	// serial, refresh, retry, expire, minimum
	u32 := make([]byte, 20)
	for i := 0; i < 5; i++ {
		val, err := strconv.ParseUint(parts[i+2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid SOA field %d: %w", i+2, err)
		}
		binary.BigEndian.PutUint32(u32[i*4:], uint32(val))
	}

	var encoded []byte
	encoded = append(encoded, mname...)
	encoded = append(encoded, rname...)
	encoded = append(encoded, u32...)

	return encoded, nil
}

// DecodeSOAData decodes SOA RDATA back into its presentation string.
func DecodeSOAData(b []byte) (string, error) {
	mname, off, err := decodeDomainName(b)
	if err != nil {
		return "", fmt.Errorf("invalid SOA mname: %w", err)
	}

	rname, n, err := decodeDomainName(b[off:])
	if err != nil {
		return "", fmt.Errorf("invalid SOA rname: %w", err)
	}
	off += n

	if len(b[off:]) < 20 {
		return "", fmt.Errorf("SOA record missing integer fields")
	}

	var u32 [5]uint32
	for i := 0; i < 5; i++ {
		u32[i] = binary.BigEndian.Uint32(b[off+i*4 : off+(i+1)*4])
	}

	return fmt.Sprintf("%s %s %d %d %d %d %d", mname, rname, u32[0], u32[1], u32[2], u32[3], u32[4]), nil
}

// SOASerial extracts only the serial field from SOA RDATA.
func SOASerial(b []byte) (uint32, error) {
	_, off, err := decodeDomainName(b)
	if err != nil {
		return 0, fmt.Errorf("invalid SOA mname: %w", err)
	}
	_, n, err := decodeDomainName(b[off:])
	if err != nil {
		return 0, fmt.Errorf("invalid SOA rname: %w", err)
	}
	off += n
	if len(b[off:]) < 4 {
		return 0, fmt.Errorf("SOA record missing serial")
	}
	return binary.BigEndian.Uint32(b[off : off+4]), nil
}
