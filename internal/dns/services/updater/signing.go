package updater

import (
	"time"

	"github.com/pulsedns/pulse-dns/internal/dns/common/clock"
	"github.com/pulsedns/pulse-dns/internal/dns/domain"
	"github.com/pulsedns/pulse-dns/internal/dns/gateways/dnssec"
)

// signingPlan tracks the signature schedule across rebuilds. Every rebuild
// signs the whole zone with a fresh window; the plan remembers when the
// current signatures need refreshing even if nothing else changes.
type signingPlan struct {
	signer    *dnssec.Signer
	clock     clock.Clock
	dnskeyTTL uint32
	lifetime  SignatureLifetime
	resignAt  time.Time // zero until the first signing pass
}

func newSigningPlan(key *dnssec.Key, c clock.Clock, maxInterval time.Duration) *signingPlan {
	if key == nil {
		return nil
	}
	return &signingPlan{
		signer:    dnssec.NewSigner(key),
		clock:     c,
		dnskeyTTL: DNSKEYRecordTTL(maxInterval),
		lifetime:  RRSIGLifetime(maxInterval),
	}
}

// nearExpiry reports whether the zone must be re-signed even without record
// changes. A nil plan (unsigned zone) never forces a rebuild.
func (p *signingPlan) nearExpiry() bool {
	if p == nil {
		return false
	}
	if p.resignAt.IsZero() {
		return true
	}
	return !p.clock.Now().Before(p.resignAt)
}

// sign appends DNSKEY and RRSIG records with a validity window anchored at
// the current time, and advances the resign deadline. A nil plan returns
// the records unchanged.
func (p *signingPlan) sign(origin string, records []domain.ResourceRecord) ([]domain.ResourceRecord, error) {
	if p == nil {
		return records, nil
	}
	inception := p.clock.Now()
	expiration := inception.Add(p.lifetime.Expiration)

	signed, err := p.signer.Sign(origin, p.dnskeyTTL, inception, expiration, records)
	if err != nil {
		return nil, err
	}

	p.resignAt = inception.Add(p.lifetime.Resign)
	return signed, nil
}
