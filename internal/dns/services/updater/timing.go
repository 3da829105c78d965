package updater

import (
	"time"

	"github.com/pulsedns/pulse-dns/internal/dns/domain"
)

// Per-endpoint overhead added to the worst-case cycle duration, in seconds:
// bookkeeping for every record, plus signature work when the zone is signed.
const (
	deltaPerRecordManagement = 1
	deltaPerRecordSign       = 2
)

// MaxInterval returns the effective refresh interval: the configured minimum,
// or the worst-case duration of one full probe cycle when that is longer.
// Every TTL in the zone derives from this value, so records are never cached
// longer than the data behind them stays fresh.
func MaxInterval(minInterval, probeTimeout time.Duration, sets []domain.EndpointSet, signing bool) time.Duration {
	delta := time.Duration(deltaPerRecordManagement) * time.Second
	if signing {
		delta += time.Duration(deltaPerRecordSign) * time.Second
	}

	var worstCase time.Duration
	for _, set := range sets {
		worstCase += time.Duration(len(set.Endpoints))*probeTimeout + delta
	}

	if worstCase > minInterval {
		return worstCase
	}
	return minInterval
}

// ARecordTTL is twice the refresh interval, keeping answers reasonably fresh
// while limiting query pressure on the server.
func ARecordTTL(maxInterval time.Duration) uint32 {
	return uint32(maxInterval/time.Second) * 2
}

// NSRecordTTL is 30x the A record TTL; name servers change far less often
// than backend health.
func NSRecordTTL(maxInterval time.Duration) uint32 {
	return ARecordTTL(maxInterval) * 30
}

// SOARecordTTL matches the NS TTL since the SOA names the primary server.
func SOARecordTTL(maxInterval time.Duration) uint32 {
	return NSRecordTTL(maxInterval)
}

// SOARefresh matches the DNSKEY TTL so secondaries pick up manually rotated
// keys within one refresh.
func SOARefresh(maxInterval time.Duration) uint32 {
	return DNSKEYRecordTTL(maxInterval)
}

// SOARetry matches the A record TTL for frequent retry attempts.
func SOARetry(maxInterval time.Duration) uint32 {
	return ARecordTTL(maxInterval)
}

// SOAExpire is 5x the retry interval, riding out extended connectivity
// issues between primary and secondaries.
func SOAExpire(maxInterval time.Duration) uint32 {
	return SOARetry(maxInterval) * 5
}

// SOAMinimumTTL bounds negative caching at the A record TTL.
func SOAMinimumTTL(maxInterval time.Duration) uint32 {
	return ARecordTTL(maxInterval)
}

// DNSKEYRecordTTL is 10x the A record TTL, leaving a few minutes for manual
// key rotation and redeployment.
func DNSKEYRecordTTL(maxInterval time.Duration) uint32 {
	return ARecordTTL(maxInterval) * 10
}

// SignatureLifetime is the validity schedule for one signing pass.
type SignatureLifetime struct {
	// Resign is how long after inception the zone must be re-signed.
	Resign time.Duration
	// Expiration is how long after inception the signatures stay valid. It
	// covers the worst case of a secondary that keeps retrying through the
	// full expire window before its copy lapses.
	Expiration time.Duration
}

// RRSIGLifetime derives the signature schedule from the refresh interval.
func RRSIGLifetime(maxInterval time.Duration) SignatureLifetime {
	refresh := time.Duration(SOARefresh(maxInterval)) * time.Second
	retry := time.Duration(SOARetry(maxInterval)) * time.Second
	expire := time.Duration(SOAExpire(maxInterval)) * time.Second
	return SignatureLifetime{
		Resign:     refresh,
		Expiration: 2*refresh + expire + retry,
	}
}
