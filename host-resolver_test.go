package main

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDNSHostResolverFailureIsAbsence(t *testing.T) {

	var dials int32
	resolver := NewDNSHostResolver(time.Second)
	resolver.resolver = &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			atomic.AddInt32(&dials, 1)
			return nil, errors.New("network unreachable")
		},
	}

	assert.Nil(t, resolver.ResolveHost(context.Background(), "192.0.2.1"))
	seen := atomic.LoadInt32(&dials)
	assert.NotZero(t, seen)

	// a failed lookup is remembered for the rest of the run
	assert.Nil(t, resolver.ResolveHost(context.Background(), "192.0.2.1"))
	assert.Equal(t, seen, atomic.LoadInt32(&dials))
}

func TestDNSHostResolverCancelledRun(t *testing.T) {

	resolver := NewDNSHostResolver(time.Second)
	resolver.resolver = &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			return nil, errors.New("network unreachable")
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, resolver.ResolveHost(ctx, "192.0.2.1"))
	assert.Empty(t, resolver.cache)
}

func TestNoHostResolver(t *testing.T) {
	assert.Nil(t, noHostResolver{}.ResolveHost(context.Background(), "192.0.2.1"))
}
