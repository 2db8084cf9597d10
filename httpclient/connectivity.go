package httpclient

import (
	"net"
	"time"
)

// Connectivity reports whether the network is usable right now. The
// client asks once per call, before building the request.
type Connectivity interface {
	Connected() bool
}

// ConnectivityFunc adapts a function to Connectivity.
type ConnectivityFunc func() bool

func (f ConnectivityFunc) Connected() bool { return f() }

// AlwaysConnected never blocks a call.
var AlwaysConnected Connectivity = ConnectivityFunc(func() bool { return true })

// DialConnectivity probes reachability by opening a TCP connection.
type DialConnectivity struct {
	// Address is host:port.
	Address string
	// Timeout defaults to 2s.
	Timeout time.Duration
}

func (d DialConnectivity) Connected() bool {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	conn, err := net.DialTimeout("tcp", d.Address, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
