package listener

import (
	"net"
	"testing"
)

type fakeAddr struct{ s string }

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return a.s }

type fakeConn struct {
	net.Conn
	remote net.Addr
	closed bool
}

func (c *fakeConn) RemoteAddr() net.Addr { return c.remote }
func (c *fakeConn) Close() error         { c.closed = true; return nil }

type fakeListener struct {
	conns []net.Conn
	i     int
}

func (l *fakeListener) Accept() (net.Conn, error) {
	if l.i >= len(l.conns) {
		return nil, net.ErrClosed
	}
	c := l.conns[l.i]
	l.i++
	return c, nil
}
func (l *fakeListener) Close() error   { return nil }
func (l *fakeListener) Addr() net.Addr { return fakeAddr{"test"} }

func TestConnLimiter_PerIPLimit(t *testing.T) {
	conns := []net.Conn{
		&fakeConn{remote: &net.TCPAddr{IP: net.ParseIP("10.0.0.1")}},
		&fakeConn{remote: &net.TCPAddr{IP: net.ParseIP("10.0.0.1")}},
		&fakeConn{remote: &net.TCPAddr{IP: net.ParseIP("10.0.0.1")}},
	}
	base := &fakeListener{conns: conns}
	limiter := NewConnLimiter(base, ConnLimiterConfig{MaxConnsPerIP: 2, MaxTotalConns: 100})

	accepted := 0
	for {
		_, err := limiter.Accept()
		if err != nil {
			break
		}
		accepted++
	}

	if accepted != 2 {
		t.Fatalf("accepted = %d, want 2 (per-IP limit)", accepted)
	}
	if !conns[2].(*fakeConn).closed {
		t.Fatal("expected the third connection to be closed as rejected")
	}
}

func TestConnLimiter_ReleasesOnClose(t *testing.T) {
	conn := &fakeConn{remote: &net.TCPAddr{IP: net.ParseIP("10.0.0.2")}}
	base := &fakeListener{conns: []net.Conn{conn}}
	limiter := NewConnLimiter(base, ConnLimiterConfig{MaxConnsPerIP: 1, MaxTotalConns: 100})

	accepted, err := limiter.Accept()
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	total, ips := limiter.Stats()
	if total != 1 || ips != 1 {
		t.Fatalf("Stats() = (%d, %d), want (1, 1)", total, ips)
	}

	accepted.Close()
	total, ips = limiter.Stats()
	if total != 0 || ips != 0 {
		t.Fatalf("Stats() after close = (%d, %d), want (0, 0)", total, ips)
	}
}
