package updater

import (
	"fmt"
	"time"

	"github.com/pulsedns/pulse-dns/internal/dns/common/rrdata"
	"github.com/pulsedns/pulse-dns/internal/dns/domain"
)

// buildARecords returns one A record per healthy endpoint of the set. A set
// with no healthy endpoints yields no records at all, so its subdomain
// disappears from the zone until an endpoint recovers.
func buildARecords(origin string, ttl uint32, set domain.EndpointSet) ([]domain.ResourceRecord, error) {
	owner := set.Subdomain + "." + origin
	ips := set.HealthyAddresses()

	records := make([]domain.ResourceRecord, 0, len(ips))
	for _, ip := range ips {
		data, err := rrdata.EncodeAData(ip)
		if err != nil {
			return nil, fmt.Errorf("building A record for %s: %w", owner, err)
		}
		rec, err := domain.NewResourceRecord(owner, domain.RRTypeA, domain.RRClassIN, ttl, data, ip)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// buildNSRecords returns one NS record per name server, owned by the origin.
func buildNSRecords(origin string, ttl uint32, servers []string) ([]domain.ResourceRecord, error) {
	records := make([]domain.ResourceRecord, 0, len(servers))
	for _, server := range servers {
		data, err := rrdata.EncodeNSData(server)
		if err != nil {
			return nil, fmt.Errorf("building NS record for %s: %w", server, err)
		}
		rec, err := domain.NewResourceRecord(origin, domain.RRTypeNS, domain.RRClassIN, ttl, data, server+".")
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// buildSOARecord returns the zone's SOA record. The RNAME is always
// hostmaster at the origin; the timing fields all derive from the refresh
// interval.
func buildSOARecord(origin, primaryNS string, serial uint32, maxInterval time.Duration) (domain.ResourceRecord, error) {
	text := fmt.Sprintf("%s. hostmaster.%s. %d %d %d %d %d",
		primaryNS, origin, serial,
		SOARefresh(maxInterval), SOARetry(maxInterval),
		SOAExpire(maxInterval), SOAMinimumTTL(maxInterval))

	data, err := rrdata.EncodeSOAData(text)
	if err != nil {
		return domain.ResourceRecord{}, fmt.Errorf("building SOA record: %w", err)
	}
	return domain.NewResourceRecord(origin, domain.RRTypeSOA, domain.RRClassIN, SOARecordTTL(maxInterval), data, text)
}
