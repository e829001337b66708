package network

import (
	"fmt"
	"net"
	"time"
)

// UDPSocket wraps a bound UDP socket with deadline-based reads, so a
// receive loop can wake up periodically and check for shutdown instead of
// blocking forever.
type UDPSocket struct {
	conn          *net.UDPConn
	listenAddress string
}

// NewUDPSocket creates a UDP socket bound to the given "host:port"
// address once opened. Port 0 asks the OS for an ephemeral port.
func NewUDPSocket(listenAddress string) *UDPSocket {
	return &UDPSocket{
		listenAddress: listenAddress,
	}
}

// Open binds the socket
func (s *UDPSocket) Open() error {
	addr, err := net.ResolveUDPAddr("udp", s.listenAddress)
	if err != nil {
		return fmt.Errorf("invalid listen address %s: %w", s.listenAddress, err)
	}

	s.conn, err = net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.listenAddress, err)
	}

	return nil
}

// Read waits up to timeout for a datagram.
// Returns: bytes read (>0), or 0 with a nil error when the timeout
// expired with no data.
func (s *UDPSocket) Read(buffer []byte, timeout time.Duration) (int, *net.UDPAddr, error) {
	if s.conn == nil {
		return 0, nil, fmt.Errorf("socket not open")
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, nil, err
	}

	n, addr, err := s.conn.ReadFromUDP(buffer)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return 0, nil, nil // no data available
		}
		return 0, nil, err
	}

	return n, addr, nil
}

// Write sends data to the specified address
func (s *UDPSocket) Write(buffer []byte, addr *net.UDPAddr) error {
	if s.conn == nil {
		return fmt.Errorf("socket not open")
	}

	_, err := s.conn.WriteToUDP(buffer, addr)
	return err
}

// LocalAddr returns the bound address, nil before Open
func (s *UDPSocket) LocalAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Close closes the socket
func (s *UDPSocket) Close() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
