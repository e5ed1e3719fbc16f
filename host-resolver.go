package main

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"
)

// HostResolver does best-effort reverse lookups. A nil result is the only
// failure signal.
type HostResolver interface {
	ResolveHost(ctx context.Context, ip string) *string
}

type dnsHostResolver struct {
	resolver *net.Resolver
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string]*string
}

func NewDNSHostResolver(timeout time.Duration) *dnsHostResolver {
	return &dnsHostResolver{
		resolver: net.DefaultResolver,
		timeout:  timeout,
		cache:    make(map[string]*string),
	}
}

func (d *dnsHostResolver) ResolveHost(ctx context.Context, ip string) *string {

	d.mu.Lock()
	host, found := d.cache[ip]
	d.mu.Unlock()
	if found {
		return host
	}

	lookupCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	names, err := d.resolver.LookupAddr(lookupCtx, ip)
	if err != nil || len(names) == 0 {
		Debug.Printf("Reverse lookup failed for %s: %v", ip, err)
	} else {
		host = stringPtr(strings.TrimSuffix(names[0], "."))
	}

	// Lookups cut short by a cancelled run are not cached
	if ctx.Err() == nil {
		d.mu.Lock()
		d.cache[ip] = host
		d.mu.Unlock()
	}
	return host
}

// noHostResolver is used when lookups are switched off
type noHostResolver struct{}

func (noHostResolver) ResolveHost(context.Context, string) *string {
	return nil
}
