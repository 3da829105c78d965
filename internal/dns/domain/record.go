package domain

import "fmt"

// ResourceRecord represents one authoritative DNS resource record. Records
// are rebuilt wholesale on every zone generation and never expire in place,
// so the TTL is preserved exactly as computed by the timing policy.
type ResourceRecord struct {
	Name  string
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  []byte // wire-encoded RDATA
	Text  string // presentation form of the RDATA
}

// NewResourceRecord constructs a ResourceRecord with a canonicalized owner
// name and validates its fields.
func NewResourceRecord(name string, rrtype RRType, class RRClass, ttl uint32, data []byte, text string) (ResourceRecord, error) {
	rr := ResourceRecord{
		Name:  CanonicalName(name),
		Type:  rrtype,
		Class: class,
		TTL:   ttl,
		Data:  data,
		Text:  text,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// Validate checks whether the ResourceRecord fields are valid.
func (rr ResourceRecord) Validate() error {
	if rr.Name == "" {
		return fmt.Errorf("record name must not be empty")
	}
	if !rr.Type.IsValid() {
		return fmt.Errorf("invalid RRType: %d", rr.Type)
	}
	if !rr.Class.IsValid() {
		return fmt.Errorf("invalid RRClass: %d", rr.Class)
	}
	if len(rr.Data) == 0 {
		return fmt.Errorf("record data must not be empty")
	}
	return nil
}

// WithName returns a copy of the record owned by a different name. Used to
// echo the as-queried owner (which may be an alias origin) in answers.
func (rr ResourceRecord) WithName(name string) ResourceRecord {
	rr.Name = name
	return rr
}
