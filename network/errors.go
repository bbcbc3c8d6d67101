package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrStreamTerminated is returned once the relay closes the message stream.
var ErrStreamTerminated = errors.New("relay stream terminated")

// ErrNotConnected is returned by sends before Connect succeeds or after Close.
var ErrNotConnected = errors.New("not connected")

// Reason classifies why a connection attempt failed.
type Reason int

const (
	ReasonOther Reason = iota
	ReasonRefused
	ReasonTimeout
	ReasonUnresolvable
	ReasonRejected
)

func (r Reason) String() string {
	switch r {
	case ReasonRefused:
		return "refused"
	case ReasonTimeout:
		return "timeout"
	case ReasonUnresolvable:
		return "unresolvable"
	case ReasonRejected:
		return "rejected"
	default:
		return "other"
	}
}

// ConnectionError is returned by Connect. It is never fatal; callers may
// prompt for another address and retry.
type ConnectionError struct {
	Reason Reason
	Addr   string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %s: %v", e.Addr, e.Reason, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Hint is a short user-facing suggestion for the failure.
func (e *ConnectionError) Hint() string {
	switch e.Reason {
	case ReasonRefused:
		return "nothing is listening there; is the relay running?"
	case ReasonTimeout:
		return "the relay did not answer in time"
	case ReasonUnresolvable:
		return "that host name could not be resolved"
	case ReasonRejected:
		return "the relay turned the join down"
	default:
		return "check the address and try again"
	}
}

// classify wraps err in a ConnectionError for addr.
func classify(addr string, err error) *ConnectionError {
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return ce
	}

	reason := ReasonOther
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		reason = ReasonRefused
	case errors.As(err, &dnsErr):
		reason = ReasonUnresolvable
	case errors.Is(err, context.DeadlineExceeded):
		reason = ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		reason = ReasonTimeout
	}
	return &ConnectionError{Reason: reason, Addr: addr, Err: err}
}
