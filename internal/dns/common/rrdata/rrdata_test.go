package rrdata

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAData(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"valid IPv4", "192.0.2.1", []byte{192, 0, 2, 1}, false},
		{"another IPv4", "10.0.0.255", []byte{10, 0, 0, 255}, false},
		{"IPv6 rejected", "2001:db8::1", nil, true},
		{"hostname rejected", "example.com", nil, true},
		{"empty rejected", "", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeAData(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeAData(t *testing.T) {
	got, err := DecodeAData([]byte{192, 0, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", got)

	_, err = DecodeAData([]byte{192, 0, 2})
	assert.Error(t, err)
}

func TestNSDataRoundTrip(t *testing.T) {
	data, err := EncodeNSData("ns1.example.com.")
	require.NoError(t, err)

	name, err := DecodeNSData(data)
	require.NoError(t, err)
	assert.Equal(t, "ns1.example.com", name)
}

func TestEncodeSOAData(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", "ns1.example.com. hostmaster.example.com. 1700000000 1200 120 600 120", false},
		{"missing fields", "ns1.example.com. hostmaster.example.com. 1700000000", true},
		{"non-numeric serial", "ns1.example.com. hostmaster.example.com. abc 1200 120 600 120", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeSOAData(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSOADataRoundTrip(t *testing.T) {
	in := "ns1.example.com hostmaster.example.com 1700000000 1200 120 600 120"
	data, err := EncodeSOAData(in)
	require.NoError(t, err)

	out, err := DecodeSOAData(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSOASerial(t *testing.T) {
	data, err := EncodeSOAData("ns1.example.com hostmaster.example.com 1700000042 1200 120 600 120")
	require.NoError(t, err)

	serial, err := SOASerial(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(1700000042), serial)

	_, err = SOASerial([]byte{0})
	assert.Error(t, err)
}

func TestRRSIGDataRoundTrip(t *testing.T) {
	in := RRSIGData{
		TypeCovered: 1,
		Algorithm:   15,
		Labels:      3,
		OrigTTL:     120,
		Expiration:  1700003600,
		Inception:   1700000000,
		KeyTag:      31589,
		SignerName:  "example.com",
		Signature:   []byte{0xde, 0xad, 0xbe, 0xef},
	}
	data, err := EncodeRRSIGData(in)
	require.NoError(t, err)

	out, err := DecodeRRSIGData(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRRSIGData_Errors(t *testing.T) {
	_, err := EncodeRRSIGData(RRSIGData{SignerName: "example.com"})
	assert.Error(t, err, "empty signature must be rejected")

	_, err = DecodeRRSIGData([]byte{0, 1, 2})
	assert.Error(t, err, "truncated rdata must be rejected")
}

func TestRRSIGData_String(t *testing.T) {
	d := RRSIGData{
		TypeCovered: 1,
		Algorithm:   15,
		Labels:      3,
		OrigTTL:     120,
		Expiration:  1700003600,
		Inception:   1700000000,
		KeyTag:      31589,
		SignerName:  "example.com",
		Signature:   []byte{0xde, 0xad, 0xbe, 0xef},
	}
	want := "A 15 3 120 1700003600 1700000000 31589 example.com. " +
		base64.StdEncoding.EncodeToString(d.Signature)
	assert.Equal(t, want, d.String("A"))
}

func TestDNSKEYDataRoundTrip(t *testing.T) {
	in := DNSKEYData{
		Flags:     256,
		Protocol:  3,
		Algorithm: 15,
		PublicKey: []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
	data, err := EncodeDNSKEYData(in)
	require.NoError(t, err)

	out, err := DecodeDNSKEYData(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDNSKEYData_Errors(t *testing.T) {
	_, err := EncodeDNSKEYData(DNSKEYData{Flags: 256, Protocol: 3, Algorithm: 15})
	assert.Error(t, err, "empty public key must be rejected")

	_, err = DecodeDNSKEYData([]byte{1, 0, 3, 15})
	assert.Error(t, err, "rdata without key material must be rejected")
}
