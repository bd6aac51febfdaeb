package evhttpd

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// listenReusePort creates a non-blocking, listening TCP socket with
// SO_REUSEPORT and SO_REUSEADDR set, so multiple worker processes can share
// one (address, port) pair with kernel-level connection load balancing
// (spec.md §4.6 / §6). Grounded on the SO_REUSEPORT setsockopt dance used
// for UDP listeners across the retrieval pack; TCP needs the same two
// options set before bind, nothing more.
func listenReusePort(address string, port int) (int, error) {
	ip, err := resolveBindIP(address)
	if err != nil {
		return -1, err
	}

	domain := unix.AF_INET
	var sa unix.Sockaddr
	if ip4 := ip.To4(); ip4 != nil {
		var addr [4]byte
		copy(addr[:], ip4)
		sa = &unix.SockaddrInet4{Port: port, Addr: addr}
	} else {
		domain = unix.AF_INET6
		var addr [16]byte
		copy(addr[:], ip.To16())
		sa = &unix.SockaddrInet6{Port: port, Addr: addr}
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, fmt.Errorf("socket: %w", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("setsockopt SO_REUSEPORT: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("set nonblocking: %w", err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("bind: %w", err)
	}
	if err := unix.Listen(fd, 1024); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listen: %w", err)
	}
	return fd, nil
}

func resolveBindIP(address string) (net.IP, error) {
	if ip := net.ParseIP(address); ip != nil {
		return ip, nil
	}
	ips, err := net.LookupIP(address)
	if err != nil || len(ips) == 0 {
		return nil, fmt.Errorf("resolve address %q: %w", address, err)
	}
	return ips[0], nil
}

// acceptNonblock accepts one pending connection from a non-blocking
// listening socket, returning a non-blocking client fd. It returns
// ErrWouldBlock when nothing is pending, the signal the reactor's accept
// retry loop watches for (spec.md §4.1).
func acceptNonblock(listenFD int) (int, error) {
	fd, _, err := unix.Accept(listenFD)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return -1, ErrWouldBlock
		}
		return -1, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

// recvNonblock performs one bounded, non-blocking receive. A zero-length
// result with a nil error means the peer has performed an orderly shutdown
// (spec.md §4.2).
func recvNonblock(fd int, buf []byte) (int, error) {
	n, err := unix.Read(fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, ErrWouldBlock
		}
		return 0, err
	}
	return n, nil
}

// sendNonblock performs one bounded, non-blocking send.
func sendNonblock(fd int, buf []byte) (int, error) {
	n, err := unix.Write(fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, ErrWouldBlock
		}
		return 0, err
	}
	return n, nil
}

// shutdownAndClose shuts down both directions then closes fd, swallowing
// errors from a socket that may already be half torn down by the peer
// (spec.md §7: "all closures shut down the socket, then close the fd").
func shutdownAndClose(fd int) {
	_ = unix.Shutdown(fd, unix.SHUT_RDWR)
	_ = unix.Close(fd)
}

func closeFD(fd int) {
	_ = unix.Close(fd)
}
