package export

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	// Register transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
)

// TopicPrefix starts every published message. Subscribers filter on
// TopicPrefix alone for all results, or on Topic(category) for one.
const TopicPrefix = "textnet/"

// PubSink publishes each result on a PUB socket as "topic\n" + payload.
type PubSink struct {
	mu       sync.Mutex
	sock     mangos.Socket
	compress bool
	logger   logging.Logger
	closed   bool
}

// NewPubSink listens on address, e.g. tcp://*:9190.
func NewPubSink(address string, compress bool, logger logging.Logger) (*PubSink, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if err := sock.Listen(address); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to bind PUB socket: %w", err)
	}
	logger = logging.OrDefault(logger)
	logger.Info("result publisher bound", logging.String("address", address))
	return &PubSink{sock: sock, compress: compress, logger: logger}, nil
}

// Topic is the subscription prefix for one category; the overall result
// uses the empty category.
func Topic(category string) string {
	return TopicPrefix + category + "\n"
}

// Frame builds a published message.
func Frame(category string, payload []byte) []byte {
	topic := Topic(category)
	msg := make([]byte, 0, len(topic)+len(payload))
	msg = append(msg, topic...)
	return append(msg, payload...)
}

// Unframe splits a published message into category and payload.
func Unframe(msg []byte) (string, []byte, error) {
	if !bytes.HasPrefix(msg, []byte(TopicPrefix)) {
		return "", nil, fmt.Errorf("message lacks topic prefix")
	}
	rest := msg[len(TopicPrefix):]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		return "", nil, fmt.Errorf("message lacks topic terminator")
	}
	return string(rest[:i]), rest[i+1:], nil
}

func (s *PubSink) Name() string { return KindPubSub }

func (s *PubSink) Write(ctx context.Context, results []*network.Result) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSinkClosed
	}

	total := 0
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		data, err := Encode(r, s.compress)
		if err != nil {
			return total, err
		}
		if err := s.sock.Send(Frame(r.Category, data)); err != nil {
			return total, fmt.Errorf("publish result %s: %w", r.ID, err)
		}
		total += len(data)
	}
	s.logger.Debug("results published", logging.Count(len(results)))
	return total, nil
}

func (s *PubSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.sock.Close()
}
