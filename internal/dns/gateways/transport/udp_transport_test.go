package transport

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsedns/pulse-dns/internal/dns/common/log"
	"github.com/pulsedns/pulse-dns/internal/dns/common/rrdata"
	"github.com/pulsedns/pulse-dns/internal/dns/domain"
	"github.com/pulsedns/pulse-dns/internal/dns/gateways/wire"
	"github.com/pulsedns/pulse-dns/internal/dns/services/responder"
)

// stubResponder answers every question with a fixed A record.
type stubResponder struct{}

func (s *stubResponder) HandleQuery(_ context.Context, q domain.Question, _ net.Addr) domain.DNSResponse {
	data, _ := rrdata.EncodeAData("192.0.2.1")
	rec, _ := domain.NewResourceRecord(q.Name, domain.RRTypeA, domain.RRClassIN, 120, data, "192.0.2.1")
	resp, _ := domain.NewDNSResponse(q, domain.RCodeNoError, []domain.ResourceRecord{rec})
	return resp
}

var _ responder.DNSResponder = (*stubResponder)(nil)

func startTransport(t *testing.T) *UDPTransport {
	t.Helper()
	logger := log.NewNoopLogger()
	tr := NewUDPTransport("127.0.0.1:0", wire.NewUDPCodec(logger), logger)
	require.NoError(t, tr.Start(context.Background(), &stubResponder{}))
	t.Cleanup(func() { _ = tr.Stop() })
	return tr
}

// exchange sends raw bytes to the transport and returns the reply, or nil
// when no reply arrives before the deadline.
func exchange(t *testing.T, addr string, packet []byte, wait time.Duration) []byte {
	t.Helper()
	conn, err := net.Dial("udp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write(packet)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(wait)))
	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	if err != nil {
		return nil
	}
	return buf[:n]
}

func packQuery(t *testing.T, name string, qtype uint16) []byte {
	t.Helper()
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.Id = 0xBEEF
	packed, err := m.Pack()
	require.NoError(t, err)
	return packed
}

func TestUDPTransport_AnswersQuery(t *testing.T) {
	tr := startTransport(t)

	reply := exchange(t, tr.Address(), packQuery(t, "www.example.com", dns.TypeA), 2*time.Second)
	require.NotNil(t, reply, "expected a reply")

	var msg dns.Msg
	require.NoError(t, msg.Unpack(reply))
	assert.Equal(t, uint16(0xBEEF), msg.Id)
	assert.True(t, msg.Response)
	assert.True(t, msg.Authoritative)
	assert.Equal(t, dns.RcodeSuccess, msg.Rcode)
	require.Len(t, msg.Answer, 1)
	a, ok := msg.Answer[0].(*dns.A)
	require.True(t, ok)
	assert.Equal(t, "192.0.2.1", a.A.String())
}

func TestUDPTransport_DropsUnparseablePacket(t *testing.T) {
	tr := startTransport(t)

	// Too short to carry a DNS header.
	reply := exchange(t, tr.Address(), []byte{0x01, 0x02, 0x03}, 300*time.Millisecond)
	assert.Nil(t, reply, "expected short packet to be dropped silently")

	// QR bit set: a response, not a query.
	var msg dns.Msg
	msg.Response = true
	msg.SetQuestion("www.example.com.", dns.TypeA)
	packed, err := msg.Pack()
	require.NoError(t, err)
	reply = exchange(t, tr.Address(), packed, 300*time.Millisecond)
	assert.Nil(t, reply, "expected response-bit packet to be dropped silently")

	// The transport keeps serving after dropped packets.
	reply = exchange(t, tr.Address(), packQuery(t, "www.example.com", dns.TypeA), 2*time.Second)
	assert.NotNil(t, reply)
}

func TestUDPTransport_ZeroQuestionsGetsFormErr(t *testing.T) {
	tr := startTransport(t)

	// A bare header with QDCOUNT=0 parses but cannot be answered.
	packet := make([]byte, 12)
	binary.BigEndian.PutUint16(packet[0:2], 0xABCD)

	reply := exchange(t, tr.Address(), packet, 2*time.Second)
	require.NotNil(t, reply, "expected FORMERR reply")

	var msg dns.Msg
	require.NoError(t, msg.Unpack(reply))
	assert.Equal(t, uint16(0xABCD), msg.Id)
	assert.Equal(t, dns.RcodeFormatError, msg.Rcode)
	assert.Empty(t, msg.Question)
	assert.Empty(t, msg.Answer)
}

func TestUDPTransport_MultipleQuestionsGetsFormErr(t *testing.T) {
	tr := startTransport(t)

	m := new(dns.Msg)
	m.Id = 0x0101
	m.Question = []dns.Question{
		{Name: "a.example.com.", Qtype: dns.TypeA, Qclass: dns.ClassINET},
		{Name: "b.example.com.", Qtype: dns.TypeA, Qclass: dns.ClassINET},
	}
	packed, err := m.Pack()
	require.NoError(t, err)

	reply := exchange(t, tr.Address(), packed, 2*time.Second)
	require.NotNil(t, reply, "expected FORMERR reply")

	var msg dns.Msg
	require.NoError(t, msg.Unpack(reply))
	assert.Equal(t, uint16(0x0101), msg.Id)
	assert.Equal(t, dns.RcodeFormatError, msg.Rcode)
}

func TestUDPTransport_StartTwiceFails(t *testing.T) {
	tr := startTransport(t)
	assert.Error(t, tr.Start(context.Background(), &stubResponder{}))
}

func TestUDPTransport_StopIdempotent(t *testing.T) {
	logger := log.NewNoopLogger()
	tr := NewUDPTransport("127.0.0.1:0", wire.NewUDPCodec(logger), logger)

	assert.NoError(t, tr.Stop(), "stopping a never-started transport")

	require.NoError(t, tr.Start(context.Background(), &stubResponder{}))
	assert.NoError(t, tr.Stop())
	assert.NoError(t, tr.Stop())
}

func TestUDPTransport_AddressBeforeStart(t *testing.T) {
	logger := log.NewNoopLogger()
	tr := NewUDPTransport("127.0.0.1:5300", wire.NewUDPCodec(logger), logger)
	assert.Equal(t, "127.0.0.1:5300", tr.Address())
}
