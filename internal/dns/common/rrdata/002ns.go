package rrdata

// EncodeNSData encodes a name server name into NS record RDATA.
func EncodeNSData(data string) ([]byte, error) {
	// data = "ns1.example.com."
	return encodeDomainName(data)
}

// DecodeNSData decodes NS record RDATA into a name server name.
func DecodeNSData(b []byte) (string, error) {
	name, _, err := decodeDomainName(b)
	return name, err
}
