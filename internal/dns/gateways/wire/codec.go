package wire

import (
	"fmt"

	"github.com/pulsedns/pulse-dns/internal/dns/domain"
)

// DNSCodec encodes and decodes DNS messages for an authoritative server.
// There is no upstream side: the server only ever parses queries and
// serializes its own answers.
type DNSCodec interface {
	DecodeQuery(data []byte) (domain.Question, error)
	EncodeResponse(resp domain.DNSResponse) ([]byte, error)
}

// QuestionCountError reports a structurally valid query whose question
// count is not exactly one. Unlike other decode errors the header was
// readable, so the caller can still answer with FORMERR under the query's
// ID instead of dropping the datagram.
type QuestionCountError struct {
	ID               uint16
	Count            int
	RecursionDesired bool
}

func (e *QuestionCountError) Error() string {
	return fmt.Sprintf("expected exactly one question, got %d", e.Count)
}
