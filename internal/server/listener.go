package server

import "net"

// bufferedListener sets the kernel socket buffers on every accepted TCP
// connection. This keeps socket tuning in the transport layer; the
// streaming core never touches a real socket.
type bufferedListener struct {
	net.Listener
	size int
}

func newBufferedListener(ln net.Listener, size int) net.Listener {
	if size <= 0 {
		return ln
	}
	return &bufferedListener{Listener: ln, size: size}
}

func (l *bufferedListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		// Best effort: some platforms clamp or refuse these.
		tc.SetReadBuffer(l.size)
		tc.SetWriteBuffer(l.size)
	}
	return conn, nil
}
