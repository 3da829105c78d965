package domain

import "fmt"

// RRType represents a DNS resource record type.
// See IANA DNS Parameters for assigned codes.
type RRType uint16

// Record types the server emits, plus the query-only ANY pseudo-type.
const (
	RRTypeA      RRType = 1   // A - IPv4 address
	RRTypeNS     RRType = 2   // NS - Name server
	RRTypeSOA    RRType = 6   // SOA - Start of authority
	RRTypeRRSIG  RRType = 46  // RRSIG - Resource record signature
	RRTypeDNSKEY RRType = 48  // DNSKEY - DNS public key
	RRTypeANY    RRType = 255 // ANY - Any type (query only)
)

// IsValid returns true for any assigned type code. Clients may query for
// types the server never emits; those resolve to empty NOERROR answers
// rather than being rejected at parse time.
func (t RRType) IsValid() bool {
	return t != 0
}

// String returns the textual representation of the RRType.
// For types outside the emitted set, it returns "TYPE<value>" per RFC 3597.
func (t RRType) String() string {
	switch t {
	case RRTypeA:
		return "A"
	case RRTypeNS:
		return "NS"
	case RRTypeSOA:
		return "SOA"
	case RRTypeRRSIG:
		return "RRSIG"
	case RRTypeDNSKEY:
		return "DNSKEY"
	case RRTypeANY:
		return "ANY"
	default:
		return fmt.Sprintf("TYPE%d", uint16(t))
	}
}

// RRTypeFromString converts a record type string to its RRType value,
// returning 0 for unknown strings.
func RRTypeFromString(s string) RRType {
	switch s {
	case "A":
		return RRTypeA
	case "NS":
		return RRTypeNS
	case "SOA":
		return RRTypeSOA
	case "RRSIG":
		return RRTypeRRSIG
	case "DNSKEY":
		return RRTypeDNSKEY
	case "ANY":
		return RRTypeANY
	default:
		return 0
	}
}
