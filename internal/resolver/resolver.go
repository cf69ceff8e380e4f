// Package resolver turns the blocked domain names into IPv4 addresses.
package resolver

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/user/oculus-guard/internal/logger"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultAttempts = 3
)

var (
	errNoIPv4        = errors.New("no IPv4 address")
	errServerFailure = errors.New("DNS server failure")
)

// ResolutionFailedError names the first domain that could not be resolved.
type ResolutionFailedError struct {
	Domain string
	Err    error
}

func (e *ResolutionFailedError) Error() string {
	return fmt.Sprintf("could not resolve %s: %v", e.Domain, e.Err)
}

func (e *ResolutionFailedError) Unwrap() error {
	return e.Err
}

// Lookup queries the IPv4 addresses of a single domain.
type Lookup interface {
	LookupIPv4(ctx context.Context, domain string) ([]netip.Addr, error)
}

// Resolver resolves domains one at a time, retrying transient failures.
type Resolver struct {
	lookup     Lookup
	timeout    time.Duration
	attempts   int
	newBackOff func() backoff.BackOff
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout bounds each lookup attempt.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

// WithAttempts sets how many times a domain is tried before giving up.
func WithAttempts(n int) Option {
	return func(r *Resolver) { r.attempts = n }
}

// WithBackOff sets the policy used between attempts.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(r *Resolver) { r.newBackOff = fn }
}

// New returns a resolver that queries through lookup.
func New(lookup Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:     lookup,
		timeout:    defaultTimeout,
		attempts:   defaultAttempts,
		newBackOff: defaultBackOff,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.attempts < 1 {
		r.attempts = 1
	}
	return r
}

func defaultBackOff() backoff.BackOff {
	eback := backoff.NewExponentialBackOff()
	eback.InitialInterval = 250 * time.Millisecond
	eback.MaxElapsedTime = 15 * time.Second
	return eback
}

// Resolve returns the first IPv4 address of each domain, in input order.
// The first domain without one fails the whole call.
func (r *Resolver) Resolve(ctx context.Context, domains []string) ([]netip.Addr, error) {
	addrs := make([]netip.Addr, 0, len(domains))
	for _, domain := range domains {
		addr, err := r.resolveOne(ctx, domain)
		if err != nil {
			return nil, &ResolutionFailedError{Domain: domain, Err: err}
		}
		logger.Debug("Resolved %s to %s", domain, addr)
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func (r *Resolver) resolveOne(ctx context.Context, domain string) (netip.Addr, error) {
	var (
		addr    netip.Addr
		attempt int
	)

	retry := func() error {
		attempt++
		actx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		found, err := r.lookup.LookupIPv4(actx, domain)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if !isTransient(err) {
				return backoff.Permanent(err)
			}
			logger.Warning("DNS lookup of %s failed (attempt %d of %d): %v", domain, attempt, r.attempts, err)
			return err
		}

		for _, a := range found {
			if a = a.Unmap(); a.Is4() {
				addr = a
				return nil
			}
		}
		return backoff.Permanent(errNoIPv4)
	}

	boff := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.attempts-1)), ctx)
	if err := backoff.Retry(retry, boff); err != nil {
		return netip.Addr{}, err
	}
	return addr, nil
}

// isTransient reports whether a failed lookup is worth repeating.
func isTransient(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTimeout || dnsErr.IsTemporary
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, errServerFailure)
}
