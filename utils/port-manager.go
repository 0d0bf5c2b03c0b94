package utils

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

func IsPortAvailable(host string, port int) bool {
	Verbose("Checking if port %d is available on %s", port, host)
	listener, err := net.ListenTCP("tcp4", &net.TCPAddr{IP: net.ParseIP(host), Port: port})
	if err != nil {
		Verbose("error: %v", err)
		return false
	}

	defer listener.Close()
	return true
}

// SplitListenAddr parses "host:port", ":port" or a bare port. An empty host
// and "localhost" both map to 127.0.0.1.
func SplitListenAddr(addr string) (string, int, error) {
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen address '%s': %w", addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port '%s'", portStr)
	}

	if host == "" || host == "localhost" {
		host = "127.0.0.1"
	}
	return host, port, nil
}

// CheckListenAddr fails when addr cannot be listened on.
func CheckListenAddr(addr string) error {
	host, port, err := SplitListenAddr(addr)
	if err != nil {
		return err
	}
	if !IsPortAvailable(host, port) {
		return fmt.Errorf("port %d is already in use on %s", port, host)
	}
	return nil
}
