package resolver

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
)

// System resolves through the operating system resolver.
type System struct{}

// LookupIPv4 implements Lookup.
func (System) LookupIPv4(ctx context.Context, domain string) ([]netip.Addr, error) {
	return net.DefaultResolver.LookupNetIP(ctx, "ip4", domain)
}

// DNS resolves by querying explicit DNS servers for A records, trying each
// server in order until one answers.
type DNS struct {
	servers []string
	client  *dns.Client
}

// NewDNS returns a lookup against servers. Servers without a port use 53.
func NewDNS(servers []string) *DNS {
	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		normalized = append(normalized, s)
	}
	return &DNS{
		servers: normalized,
		client:  &dns.Client{Net: "udp", Timeout: 5 * time.Second},
	}
}

// LookupIPv4 implements Lookup.
func (d *DNS) LookupIPv4(ctx context.Context, domain string) ([]netip.Addr, error) {
	if len(d.servers) == 0 {
		return nil, errors.New("no DNS servers configured")
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range d.servers {
		resp, _, err := d.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = errors.Wrapf(err, "query %s", server)
			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
			var addrs []netip.Addr
			for _, rr := range resp.Answer {
				if a, ok := rr.(*dns.A); ok {
					if addr, ok := netip.AddrFromSlice(a.A); ok {
						addrs = append(addrs, addr.Unmap())
					}
				}
			}
			if len(addrs) == 0 {
				return nil, &net.DNSError{Err: "no A records", Name: domain, Server: server, IsNotFound: true}
			}
			return addrs, nil
		case dns.RcodeNameError:
			return nil, &net.DNSError{Err: "no such host", Name: domain, Server: server, IsNotFound: true}
		default:
			lastErr = errors.Wrapf(errServerFailure, "%s answered %s", server, dns.RcodeToString[resp.Rcode])
		}
	}
	return nil, lastErr
}

// ForServers returns a DNS lookup against servers, or the system resolver
// when none are given.
func ForServers(servers []string) Lookup {
	if len(servers) == 0 {
		return System{}
	}
	return NewDNS(servers)
}
