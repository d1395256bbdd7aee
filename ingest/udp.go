// ingest/udp.go
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/kallerwest/trackfusion/plot"
)

// maxDatagramBytes bounds a single UDP receive buffer at the maximum
// theoretical UDP payload size.
const maxDatagramBytes = 65507

// readDeadline bounds each recvfrom call so the ingest task notices
// cancellation promptly even while idle.
const readDeadline = 500 * time.Millisecond

// Listener is the ingest task: it owns a UDP socket, decodes each datagram
// into plots, and pushes the resulting batch onto a bounded queue for the
// update task to consume. It never retains application state across
// datagrams beyond the decoder's own drop counters.
type Listener struct {
	conn    *net.UDPConn
	decoder *plot.Decoder
	logger  *slog.Logger
	out     chan<- []*plot.Plot
}

// NewListener binds a UDP socket at host:port and returns a Listener that
// will push decoded plot batches onto out.
func NewListener(host string, port int, decoder *plot.Decoder, out chan<- []*plot.Plot, logger *slog.Logger) (*Listener, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(host), Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("ingest: listen udp %s:%d: %w", host, port, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{conn: conn, decoder: decoder, logger: logger, out: out}, nil
}

// Close releases the underlying socket. Safe to call on all exit paths.
func (l *Listener) Close() error {
	return l.conn.Close()
}

// Run blocks, reading and decoding datagrams until ctx is cancelled. Each
// recvfrom is bounded by readDeadline so cancellation is noticed within one
// socket timeout, per the pipeline's suspension-point contract. Pushing a
// decoded batch onto the bounded queue applies backpressure to this task
// when the update task falls behind.
func (l *Listener) Run(ctx context.Context) error {
	buf := make([]byte, maxDatagramBytes)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		l.conn.SetReadDeadline(time.Now().Add(readDeadline))
		n, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return fmt.Errorf("ingest: read udp: %w", err)
		}

		plots, err := l.decoder.Decode(buf[:n])
		if err != nil {
			l.logger.Warn("dropped malformed datagram", "error", err)
			continue
		}
		if len(plots) == 0 {
			continue
		}

		select {
		case l.out <- plots:
		case <-ctx.Done():
			return nil
		}
	}
}
