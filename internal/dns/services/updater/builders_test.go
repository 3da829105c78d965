package updater

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsedns/pulse-dns/internal/dns/common/rrdata"
	"github.com/pulsedns/pulse-dns/internal/dns/domain"
)

func endpoint(t *testing.T, addr string, healthy bool) domain.Endpoint {
	t.Helper()
	ep, err := domain.NewEndpoint(addr, 8080, healthy)
	require.NoError(t, err)
	return ep
}

func TestBuildARecords(t *testing.T) {
	set, err := domain.NewEndpointSet("www", []domain.Endpoint{
		endpoint(t, "192.0.2.1", true),
		endpoint(t, "192.0.2.2", false),
		endpoint(t, "192.0.2.3", true),
	})
	require.NoError(t, err)

	records, err := buildARecords("example.com", 60, set)
	require.NoError(t, err)
	require.Len(t, records, 2, "only healthy endpoints produce records")

	for _, rr := range records {
		assert.Equal(t, "www.example.com", rr.Name)
		assert.Equal(t, domain.RRTypeA, rr.Type)
		assert.Equal(t, uint32(60), rr.TTL)
	}

	ip, err := rrdata.DecodeAData(records[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", ip)
	assert.Equal(t, "192.0.2.1", records[0].Text)
}

func TestBuildARecords_AllUnhealthy(t *testing.T) {
	set, err := domain.NewEndpointSet("www", []domain.Endpoint{
		endpoint(t, "192.0.2.1", false),
	})
	require.NoError(t, err)

	records, err := buildARecords("example.com", 60, set)
	require.NoError(t, err)
	assert.Empty(t, records, "a fully unhealthy set drops out of the zone")
}

func TestBuildNSRecords(t *testing.T) {
	records, err := buildNSRecords("example.com", 1800, []string{"ns1.example.com", "ns2.example.com"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, rr := range records {
		assert.Equal(t, "example.com", rr.Name, "NS records are owned by the apex")
		assert.Equal(t, domain.RRTypeNS, rr.Type)
		assert.Equal(t, uint32(1800), rr.TTL)
	}

	host, err := rrdata.DecodeNSData(records[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "ns1.example.com", host)
	assert.Equal(t, "ns1.example.com.", records[0].Text)
}

func TestBuildSOARecord(t *testing.T) {
	interval := 30 * time.Second
	rr, err := buildSOARecord("example.com", "ns1.example.com", 1700000042, interval)
	require.NoError(t, err)

	assert.Equal(t, "example.com", rr.Name)
	assert.Equal(t, domain.RRTypeSOA, rr.Type)
	assert.Equal(t, SOARecordTTL(interval), rr.TTL)

	text, err := rrdata.DecodeSOAData(rr.Data)
	require.NoError(t, err)
	assert.Equal(t, "ns1.example.com hostmaster.example.com 1700000042 600 60 300 60", text)

	serial, err := rrdata.SOASerial(rr.Data)
	require.NoError(t, err)
	assert.Equal(t, uint32(1700000042), serial)
}
