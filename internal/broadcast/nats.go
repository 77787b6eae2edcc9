package broadcast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/simonyos/reactchat/internal/logging"
)

// Config contains NATS connection configuration.
type Config struct {
	URL            string        `json:"url" yaml:"url"`
	Name           string        `json:"name,omitempty" yaml:"name,omitempty"`
	CredsFile      string        `json:"creds_file,omitempty" yaml:"creds_file,omitempty"`
	Token          string        `json:"token,omitempty" yaml:"token,omitempty"`
	ConnectTimeout time.Duration `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`
	ReconnectWait  time.Duration `json:"reconnect_wait,omitempty" yaml:"reconnect_wait,omitempty"`
	MaxReconnects  int           `json:"max_reconnects,omitempty" yaml:"max_reconnects,omitempty"`
	// FlushTimeout bounds how long Publish waits for the server when the
	// caller's context has no deadline.
	FlushTimeout time.Duration `json:"flush_timeout,omitempty" yaml:"flush_timeout,omitempty"`
}

// DefaultConfig returns the default configuration for url, or for the local
// server when url is empty.
func DefaultConfig(url string) Config {
	if url == "" {
		url = nats.DefaultURL
	}
	return Config{
		URL:            url,
		Name:           "reactchat",
		ConnectTimeout: 5 * time.Second,
		ReconnectWait:  2 * time.Second,
		MaxReconnects:  60,
		FlushTimeout:   defaultFlushTimeout,
	}
}

const defaultFlushTimeout = 500 * time.Millisecond

// subscriptionBuffer is the number of records a subscriber may fall behind
// before new ones are dropped.
const subscriptionBuffer = 64

// NATS publishes and receives turn records over a NATS connection.
type NATS struct {
	conn   *nats.Conn
	config Config
	logger *zap.Logger

	mu    sync.RWMutex
	state ConnectionState
	subs  []*subscription
}

// NewNATS creates an unconnected client.
func NewNATS(config Config, logger *zap.Logger) *NATS {
	return &NATS{
		config: config,
		logger: logging.OrNop(logger).Named("broadcast"),
		state:  StateDisconnected,
	}
}

// Connect establishes a connection to the NATS server.
func (n *NATS) Connect() error {
	n.setState(StateConnecting)

	opts := []nats.Option{
		nats.Name(n.config.Name),
		nats.Timeout(n.config.ConnectTimeout),
		nats.ReconnectWait(n.config.ReconnectWait),
		nats.MaxReconnects(n.config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			n.setState(StateReconnecting)
			n.logger.Warn("connection lost, attempting to reconnect", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			n.setState(StateConnected)
			n.logger.Info("reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			n.setState(StateClosed)
			if err := nc.LastError(); err != nil {
				n.logger.Warn("connection closed", zap.Error(err))
			}
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			fields := []zap.Field{zap.Error(err)}
			if sub != nil {
				fields = append(fields, zap.String("subject", sub.Subject))
			}
			n.logger.Error("nats error", fields...)
		}),
	}

	if n.config.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(n.config.CredsFile))
	}

	if n.config.Token != "" {
		opts = append(opts, nats.Token(n.config.Token))
	}

	conn, err := nats.Connect(n.config.URL, opts...)
	if err != nil {
		n.setState(StateDisconnected)
		return fmt.Errorf("%w: %s", ErrConnectionFailed, err)
	}

	n.mu.Lock()
	n.conn = conn
	n.state = StateConnected
	n.mu.Unlock()
	n.logger.Info("connected", zap.String("url", n.config.URL))
	return nil
}

// Dial creates a client and connects it.
func Dial(config Config, logger *zap.Logger) (*NATS, error) {
	n := NewNATS(config, logger)
	if err := n.Connect(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *NATS) setState(state ConnectionState) {
	n.mu.Lock()
	n.state = state
	n.mu.Unlock()
}

// State returns the current connection state.
func (n *NATS) State() ConnectionState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// IsConnected returns true if connected to NATS.
func (n *NATS) IsConnected() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.conn != nil && n.conn.IsConnected()
}

func (n *NATS) connection() (*nats.Conn, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.conn == nil {
		return nil, ErrNotConnected
	}
	return n.conn, nil
}

// Publish sends rec on its session's subject and waits for the server to
// acknowledge the flush. While the connection is down it fails at once
// instead of buffering, so a lost server never delays a turn.
func (n *NATS) Publish(ctx context.Context, rec *TurnRecord) error {
	conn, err := n.connection()
	if err != nil {
		return err
	}
	if !conn.IsConnected() {
		return fmt.Errorf("%w: %s", ErrNotConnected, conn.Status())
	}

	data, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode turn: %w", err)
	}

	subject := Subject(rec.SessionID)
	if err := conn.Publish(subject, data); err != nil {
		return fmt.Errorf("%w: %s", ErrPublishFailed, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		timeout := n.config.FlushTimeout
		if timeout <= 0 {
			timeout = defaultFlushTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("%w: %s", ErrPublishFailed, err)
	}

	n.logger.Debug("turn published", zap.String("subject", subject), zap.String("turn_id", rec.ID))
	return nil
}

// Subscribe delivers the records published on subject until ctx is done,
// then closes the returned channel. Records that cannot be decoded, or that
// arrive while the channel is full, are logged and dropped.
func (n *NATS) Subscribe(ctx context.Context, subject string) (<-chan *TurnRecord, error) {
	conn, err := n.connection()
	if err != nil {
		return nil, err
	}

	s := &subscription{records: make(chan *TurnRecord, subscriptionBuffer)}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		rec, err := DecodeTurnRecord(msg.Data)
		if err != nil {
			n.logger.Warn("dropping undecodable turn", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}
		if !s.deliver(rec) {
			n.logger.Warn("subscriber channel full, dropping turn", zap.String("turn_id", rec.ID))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	s.sub = sub

	n.mu.Lock()
	n.subs = append(n.subs, s)
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.stop()
	}()

	return s.records, nil
}

// Close unsubscribes everything and closes the connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	subs := n.subs
	n.subs = nil
	conn := n.conn
	n.conn = nil
	n.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
	if conn != nil {
		conn.Close()
	}
	n.setState(StateClosed)
	return nil
}

type subscription struct {
	sub     *nats.Subscription
	mu      sync.Mutex
	closed  bool
	records chan *TurnRecord
}

func (s *subscription) deliver(rec *TurnRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.records <- rec:
		return true
	default:
		return false
	}
}

func (s *subscription) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	close(s.records)
}
