package domain

import "fmt"

// RCode represents a DNS response code indicating the result of a query.
type RCode uint8

// Response codes the server produces.
const (
	RCodeNoError  RCode = 0 // NOERROR - query completed successfully
	RCodeFormErr  RCode = 1 // FORMERR - query was malformed
	RCodeNXDomain RCode = 3 // NXDOMAIN - name does not exist
)

// IsValid returns true if the RCode is within the supported response code range.
func (r RCode) IsValid() bool {
	return r <= 10
}

// String returns the textual representation of the RCode.
func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case 2:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case 4:
		return "NOTIMP"
	case 5:
		return "REFUSED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(r))
	}
}
