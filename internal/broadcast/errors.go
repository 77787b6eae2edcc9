// Package broadcast publishes finished chat turns over NATS so other
// processes can follow a session as it happens.
package broadcast

import "errors"

var (
	ErrNotConnected     = errors.New("not connected to NATS")
	ErrConnectionFailed = errors.New("failed to connect to NATS")
	ErrPublishFailed    = errors.New("failed to publish turn")
	ErrInvalidRecord    = errors.New("invalid turn record")
)

// ConnectionState represents the current connection state.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
