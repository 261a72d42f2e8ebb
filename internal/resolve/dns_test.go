package resolve_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/fanout/internal/log"
	"github.com/slok/fanout/internal/resolve"
)

// fakeDNSClient is a DNS client that answers with a handler.
type fakeDNSClient struct {
	handler func(m *dns.Msg) (*dns.Msg, error)
}

func (f *fakeDNSClient) ExchangeContext(_ context.Context, m *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
	resp, err := f.handler(m)
	return resp, time.Millisecond, err
}

func answer(m *dns.Msg, rcode int, rrs ...dns.RR) *dns.Msg {
	resp := new(dns.Msg)
	resp.SetRcode(m, rcode)
	resp.Answer = rrs
	return resp
}

func TestDNSResolverResolve(t *testing.T) {
	tests := map[string]struct {
		handler  func(m *dns.Msg) (*dns.Msg, error)
		expFound bool
		expErr   bool
	}{
		"A name with an A record should resolve.": {
			handler: func(m *dns.Msg) (*dns.Msg, error) {
				rr, _ := dns.NewRR(m.Question[0].Name + " 60 IN A 10.0.0.1")
				return answer(m, dns.RcodeSuccess, rr), nil
			},
			expFound: true,
		},

		"A name with only an AAAA record should resolve.": {
			handler: func(m *dns.Msg) (*dns.Msg, error) {
				if m.Question[0].Qtype == dns.TypeA {
					return answer(m, dns.RcodeSuccess), nil
				}
				rr, _ := dns.NewRR(m.Question[0].Name + " 60 IN AAAA ::1")
				return answer(m, dns.RcodeSuccess, rr), nil
			},
			expFound: true,
		},

		"A name with only a CNAME should not resolve.": {
			handler: func(m *dns.Msg) (*dns.Msg, error) {
				rr, _ := dns.NewRR(m.Question[0].Name + " 60 IN CNAME other.dev.")
				return answer(m, dns.RcodeSuccess, rr), nil
			},
			expFound: false,
		},

		"A NXDOMAIN answer should not resolve without error.": {
			handler: func(m *dns.Msg) (*dns.Msg, error) {
				return answer(m, dns.RcodeNameError), nil
			},
			expFound: false,
		},

		"A SERVFAIL answer should fail.": {
			handler: func(m *dns.Msg) (*dns.Msg, error) {
				return answer(m, dns.RcodeServerFailure), nil
			},
			expErr: true,
		},

		"A failed query should fail.": {
			handler: func(m *dns.Msg) (*dns.Msg, error) {
				return nil, errors.New("i/o timeout")
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			r, err := resolve.NewDNSResolver(resolve.DNSResolverConfig{
				Upstream: "127.0.0.1",
				Client:   &fakeDNSClient{handler: test.handler},
				Logger:   log.Noop,
			})
			require.NoError(err)

			found, err := r.Resolve(context.Background(), "if.dev")
			if test.expErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(test.expFound, found)
		})
	}
}

// startDNSServer starts an in-process DNS server that answers A queries for
// the known names and NXDOMAIN for the rest.
func startDNSServer(t *testing.T, known map[string]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, r *dns.Msg) {
		q := r.Question[0]
		ip, ok := known[q.Name]
		if !ok {
			_ = w.WriteMsg(answer(r, dns.RcodeNameError))
			return
		}
		if q.Qtype != dns.TypeA {
			_ = w.WriteMsg(answer(r, dns.RcodeSuccess))
			return
		}
		rr, _ := dns.NewRR(q.Name + " 60 IN A " + ip)
		_ = w.WriteMsg(answer(r, dns.RcodeSuccess, rr))
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: mux, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for DNS server")
	}

	return pc.LocalAddr().String()
}

func TestDNSResolverWithServer(t *testing.T) {
	addr := startDNSServer(t, map[string]string{"if.dev.": "10.0.0.1"})

	r, err := resolve.NewDNSResolver(resolve.DNSResolverConfig{Upstream: addr})
	require.NoError(t, err)

	found, err := r.Resolve(context.Background(), "if.dev")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = r.Resolve(context.Background(), "zoo.dev")
	require.NoError(t, err)
	assert.False(t, found)
}
