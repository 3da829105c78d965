// Package wire provides encoding and decoding of DNS messages for UDP
// transport. It handles the DNS wire format as specified in RFC 1035.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/pulsedns/pulse-dns/internal/dns/common/log"
	"github.com/pulsedns/pulse-dns/internal/dns/domain"
)

// Header flag masks.
const (
	flagQR = 0x8000
	flagAA = 0x0400
	flagRD = 0x0100
)

// udpCodec implements the DNSCodec interface for standard DNS over UDP messages.
type udpCodec struct {
	logger log.Logger
}

// NewUDPCodec creates and returns a new instance of udpCodec using the provided logger.
func NewUDPCodec(logger log.Logger) *udpCodec {
	return &udpCodec{
		logger: logger,
	}
}

var _ DNSCodec = (*udpCodec)(nil)

// decodeName decodes a domain name from a DNS message at the specified offset,
// handling label compression as defined in RFC 1035.
func decodeName(data []byte, offset int) (string, int, error) {
	var labels []string
	for {
		if offset >= len(data) {
			return "", 0, errors.New("offset out of bounds")
		}
		length := int(data[offset])
		if length == 0 {
			offset++
			break
		}
		if length&0xC0 == 0xC0 {
			if offset+1 >= len(data) {
				return "", 0, errors.New("compression pointer out of bounds")
			}
			ptr := int(binary.BigEndian.Uint16(data[offset:offset+2]) & 0x3FFF)
			if ptr >= offset {
				return "", 0, errors.New("compression pointer must point backwards")
			}
			suffix, _, err := decodeName(data, ptr)
			if err != nil {
				return "", 0, err
			}
			labels = append(labels, suffix)
			offset += 2
			break
		}
		offset++
		if offset+length > len(data) {
			return "", 0, errors.New("label length out of bounds")
		}
		labels = append(labels, string(data[offset:offset+length]))
		offset += length
	}
	return strings.Join(labels, "."), offset, nil
}

// encodeDomainName encodes a domain name into DNS wire format without compression.
func encodeDomainName(name string) ([]byte, error) {
	var buf bytes.Buffer
	if name == "" {
		buf.WriteByte(0)
		return buf.Bytes(), nil
	}
	labels := strings.Split(name, ".")
	for _, label := range labels {
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		buf.WriteByte(byte(len(label)))
		buf.WriteString(label)
	}
	buf.WriteByte(0)
	return buf.Bytes(), nil
}

// DecodeQuery parses a DNS query message from data. A message whose header
// cannot be read, or that is itself a response, is a decode error and the
// caller drops it. A readable query with a question count other than one
// yields a *QuestionCountError so the caller can answer FORMERR.
func (c *udpCodec) DecodeQuery(data []byte) (domain.Question, error) {
	if len(data) < 12 {
		return domain.Question{}, errors.New("query too short")
	}
	id := binary.BigEndian.Uint16(data[0:2])
	flags := binary.BigEndian.Uint16(data[2:4])
	if flags&flagQR != 0 {
		return domain.Question{}, errors.New("message is a response, not a query")
	}
	rd := flags&flagRD != 0

	qdCount := binary.BigEndian.Uint16(data[4:6])
	if qdCount != 1 {
		return domain.Question{}, &QuestionCountError{
			ID:               id,
			Count:            int(qdCount),
			RecursionDesired: rd,
		}
	}

	name, offset, err := decodeName(data, 12)
	if err != nil {
		return domain.Question{}, err
	}
	if offset+4 > len(data) {
		return domain.Question{}, errors.New("truncated question section")
	}
	qtype := binary.BigEndian.Uint16(data[offset : offset+2])
	qclass := binary.BigEndian.Uint16(data[offset+2 : offset+4])

	// The name keeps its as-transmitted spelling so the question echo and
	// answer owners match the query byte for byte (DNS 0x20 clients check
	// this). Lookups canonicalize on their own.
	return domain.Question{
		ID:               id,
		Name:             name,
		Type:             domain.RRType(qtype),
		Class:            domain.RRClass(qclass),
		RecursionDesired: rd,
	}, nil
}

// EncodeResponse serializes a DNSResponse into a binary format suitable for
// sending via UDP. The question section echoes the query; every response is
// authoritative.
func (c *udpCodec) EncodeResponse(resp domain.DNSResponse) ([]byte, error) {
	var buf bytes.Buffer

	flags := uint16(flagQR | flagAA)
	if resp.RecursionDesired {
		flags |= flagRD
	}
	flags |= uint16(resp.RCode) & 0x000F

	_ = binary.Write(&buf, binary.BigEndian, resp.ID)
	_ = binary.Write(&buf, binary.BigEndian, flags)

	qdCount := len(resp.Questions)
	answerCount := len(resp.Answers)
	if answerCount > 65535 {
		return nil, fmt.Errorf("too many answer records: %d (max 65535)", answerCount)
	}
	_ = binary.Write(&buf, binary.BigEndian, uint16(qdCount))
	_ = binary.Write(&buf, binary.BigEndian, uint16(answerCount))
	_ = binary.Write(&buf, binary.BigEndian, uint16(0)) // NSCOUNT
	_ = binary.Write(&buf, binary.BigEndian, uint16(0)) // ARCOUNT

	c.logger.Debug(map[string]any{
		"step":  "header_written",
		"id":    resp.ID,
		"rcode": resp.RCode.String(),
		"qd":    qdCount,
		"an":    answerCount,
	}, "Wrote DNS response header")

	// Echo the question. A FORMERR for an unreadable question section has
	// no question to echo, so this section can be empty.
	qnameOffset := 12 // QNAME always starts right after the 12-byte header
	var qname string
	for _, q := range resp.Questions {
		name, err := encodeDomainName(q.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		_ = binary.Write(&buf, binary.BigEndian, uint16(q.Type))
		_ = binary.Write(&buf, binary.BigEndian, uint16(q.Class))
		qname = q.Name
	}

	// Answers
	for _, rr := range resp.Answers {
		// Use name compression (pointer to the QNAME offset) when the
		// answer name matches the question. This reduces packet size and
		// avoids repeating the domain name.
		if qdCount > 0 && rr.Name == qname {
			buf.Write([]byte{0xC0 | byte(qnameOffset>>8), byte(qnameOffset & 0xFF)})
		} else {
			name, err := encodeDomainName(rr.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
		}
		_ = binary.Write(&buf, binary.BigEndian, uint16(rr.Type))
		_ = binary.Write(&buf, binary.BigEndian, uint16(rr.Class))
		_ = binary.Write(&buf, binary.BigEndian, rr.TTL)

		dataLen := len(rr.Data)
		if dataLen > 65535 {
			return nil, fmt.Errorf("resource record data too large: %d bytes (max 65535)", dataLen)
		}
		_ = binary.Write(&buf, binary.BigEndian, uint16(dataLen))
		buf.Write(rr.Data)

		c.logger.Debug(map[string]any{
			"step": "answer_written",
			"name": rr.Name,
			"type": rr.Type.String(),
			"ttl":  rr.TTL,
			"dlen": dataLen,
		}, "Wrote answer record")
	}

	return buf.Bytes(), nil
}
