package dnssec

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/pulsedns/pulse-dns/internal/dns/common/rrdata"
	"github.com/pulsedns/pulse-dns/internal/dns/domain"
)

// DNSKEY constants for a zone signing key (RFC 4034 §2.1).
const (
	dnskeyFlagsZSK = 256
	dnskeyProtocol = 3
)

// Signer appends DNSKEY and RRSIG records to a zone built from health-check
// results. Every rebuild is signed in full with a fresh validity window.
type Signer struct {
	key *Key
}

func NewSigner(key *Key) *Signer {
	return &Signer{key: key}
}

// Sign returns the zone records plus a DNSKEY record at the origin and one
// RRSIG per RRset (the DNSKEY RRset included). Inception and expiration
// bound the signature validity window.
func (s *Signer) Sign(origin string, dnskeyTTL uint32, inception, expiration time.Time, records []domain.ResourceRecord) ([]domain.ResourceRecord, error) {
	dnskeyRec, keyTag, err := s.dnskeyRecord(origin, dnskeyTTL)
	if err != nil {
		return nil, err
	}

	signed := make([]domain.ResourceRecord, 0, len(records)+1)
	signed = append(signed, records...)
	signed = append(signed, dnskeyRec)

	rrsets, order := groupRRSets(signed)

	signerName := dns.Fqdn(origin)
	for _, key := range order {
		rrset, err := toWireRRs(rrsets[key])
		if err != nil {
			return nil, err
		}

		rrsig := &dns.RRSIG{
			Algorithm:  s.key.Algorithm,
			Inception:  uint32(inception.Unix()),
			Expiration: uint32(expiration.Unix()),
			KeyTag:     keyTag,
			SignerName: signerName,
		}
		if err := rrsig.Sign(s.key.Signer, rrset); err != nil {
			return nil, fmt.Errorf("signing %s RRset at %s: %w", rrsets[key][0].Type, rrsets[key][0].Name, err)
		}

		rec, err := rrsigToRecord(rrsig, rrsets[key][0])
		if err != nil {
			return nil, err
		}
		signed = append(signed, rec)
	}

	return signed, nil
}

// dnskeyRecord builds the zone's DNSKEY record and returns it together with
// the key tag the RRSIGs must reference.
func (s *Signer) dnskeyRecord(origin string, ttl uint32) (domain.ResourceRecord, uint16, error) {
	pub, err := s.key.publicKeyBytes()
	if err != nil {
		return domain.ResourceRecord{}, 0, err
	}

	wire := &dns.DNSKEY{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(origin),
			Rrtype: dns.TypeDNSKEY,
			Class:  dns.ClassINET,
			Ttl:    ttl,
		},
		Flags:     dnskeyFlagsZSK,
		Protocol:  dnskeyProtocol,
		Algorithm: s.key.Algorithm,
		PublicKey: base64.StdEncoding.EncodeToString(pub),
	}

	rdata := rrdata.DNSKEYData{
		Flags:     dnskeyFlagsZSK,
		Protocol:  dnskeyProtocol,
		Algorithm: s.key.Algorithm,
		PublicKey: pub,
	}
	encoded, err := rrdata.EncodeDNSKEYData(rdata)
	if err != nil {
		return domain.ResourceRecord{}, 0, err
	}

	rec, err := domain.NewResourceRecord(origin, domain.RRTypeDNSKEY, domain.RRClassIN, ttl, encoded, rdata.String())
	if err != nil {
		return domain.ResourceRecord{}, 0, err
	}
	return rec, wire.KeyTag(), nil
}

// groupRRSets buckets records by owner and type, preserving a deterministic
// signing order.
func groupRRSets(records []domain.ResourceRecord) (map[string][]domain.ResourceRecord, []string) {
	rrsets := make(map[string][]domain.ResourceRecord)
	var order []string
	for _, rec := range records {
		key := rec.Name + "/" + rec.Type.String()
		if _, ok := rrsets[key]; !ok {
			order = append(order, key)
		}
		rrsets[key] = append(rrsets[key], rec)
	}
	slices.Sort(order)
	return rrsets, order
}

// toWireRRs converts records to miekg RRs through their presentation form.
func toWireRRs(records []domain.ResourceRecord) ([]dns.RR, error) {
	rrs := make([]dns.RR, 0, len(records))
	for _, rec := range records {
		if rec.Text == "" {
			return nil, fmt.Errorf("record %s %s has no presentation form", rec.Name, rec.Type)
		}
		rr, err := dns.NewRR(fmt.Sprintf("%s. %d IN %s %s", rec.Name, rec.TTL, rec.Type, rec.Text))
		if err != nil {
			return nil, fmt.Errorf("converting %s %s to wire form: %w", rec.Name, rec.Type, err)
		}
		rrs = append(rrs, rr)
	}
	return rrs, nil
}

// rrsigToRecord converts a signed miekg RRSIG back into a ResourceRecord
// owned by the covered RRset's name.
func rrsigToRecord(rrsig *dns.RRSIG, covered domain.ResourceRecord) (domain.ResourceRecord, error) {
	sig, err := base64.StdEncoding.DecodeString(rrsig.Signature)
	if err != nil {
		return domain.ResourceRecord{}, fmt.Errorf("decoding signature: %w", err)
	}

	rdata := rrdata.RRSIGData{
		TypeCovered: rrsig.TypeCovered,
		Algorithm:   rrsig.Algorithm,
		Labels:      rrsig.Labels,
		OrigTTL:     rrsig.OrigTtl,
		Expiration:  rrsig.Expiration,
		Inception:   rrsig.Inception,
		KeyTag:      rrsig.KeyTag,
		SignerName:  strings.TrimSuffix(rrsig.SignerName, "."),
		Signature:   sig,
	}
	encoded, err := rrdata.EncodeRRSIGData(rdata)
	if err != nil {
		return domain.ResourceRecord{}, err
	}

	return domain.NewResourceRecord(covered.Name, domain.RRTypeRRSIG, domain.RRClassIN, covered.TTL, encoded, rdata.String(covered.Type.String()))
}
