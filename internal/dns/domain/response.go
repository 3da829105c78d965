package domain

import "fmt"

// DNSResponse represents a complete DNS response message. Every response the
// server produces is authoritative; the AA bit is set unconditionally on the
// wire. The question section echoes the client's question when one was
// present (FORMERR responses to question-less queries carry none).
type DNSResponse struct {
	ID               uint16
	RCode            RCode
	Authoritative    bool
	RecursionDesired bool
	Questions        []Question
	Answers          []ResourceRecord
}

// NewDNSResponse constructs an authoritative response answering the given
// question, echoing its ID, name, and RD flag.
func NewDNSResponse(q Question, rcode RCode, answers []ResourceRecord) (DNSResponse, error) {
	resp := DNSResponse{
		ID:               q.ID,
		RCode:            rcode,
		Authoritative:    true,
		RecursionDesired: q.RecursionDesired,
		Questions:        []Question{q},
		Answers:          answers,
	}
	if err := resp.Validate(); err != nil {
		return DNSResponse{}, err
	}
	return resp, nil
}

// NewFormErrResponse creates an authoritative FORMERR response for a query
// whose question section could not be used. No question is echoed.
func NewFormErrResponse(id uint16) DNSResponse {
	return DNSResponse{
		ID:            id,
		RCode:         RCodeFormErr,
		Authoritative: true,
	}
}

// Validate checks whether the DNSResponse fields are structurally valid.
func (resp DNSResponse) Validate() error {
	if !resp.RCode.IsValid() {
		return fmt.Errorf("invalid RCode: %d", resp.RCode)
	}
	if len(resp.Questions) > 1 {
		return fmt.Errorf("at most one question may be echoed, got %d", len(resp.Questions))
	}
	for i, rr := range resp.Answers {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid answer record at index %d: %w", i, err)
		}
	}
	return nil
}

// HasAnswers returns true if the response contains answer records.
func (resp DNSResponse) HasAnswers() bool {
	return len(resp.Answers) > 0
}
