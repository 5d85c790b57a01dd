package agent

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/empower-ran/enbagent/internal/observability"
	"github.com/empower-ran/enbagent/internal/protocol"
)

// ControllerConn owns the single TCP session to the controller. Every
// blocking operation is bounded by the poll interval. I/O failures are
// absorbed, never returned: they collapse the session, which is
// observable only through Closed().
type ControllerConn struct {
	addr     string
	interval time.Duration
	log      zerolog.Logger

	conn   net.Conn
	reader *bufio.Reader
}

func NewControllerConn(addr string, interval time.Duration, log zerolog.Logger) *ControllerConn {
	return &ControllerConn{addr: addr, interval: interval, log: log}
}

// Closed reports the session state without blocking.
func (c *ControllerConn) Closed() bool {
	return c.conn == nil
}

// Open dials the controller. Failure is not reported: Closed() stays
// true and the session loop retries on its next iteration. Calling Open
// on an established session is a no-op.
func (c *ControllerConn) Open() {
	if c.conn != nil {
		return
	}
	dialer := net.Dialer{Timeout: c.interval}
	conn, err := dialer.Dial("tcp", c.addr)
	if err != nil {
		observability.RecordConnectAttempt(false)
		c.log.Debug().Err(err).Str("controller", c.addr).Msg("connect failed")
		return
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	observability.RecordConnectAttempt(true)
	c.log.Info().Str("controller", c.addr).Msg("connected")
}

// Close tears the session down; safe to call when already closed.
func (c *ControllerConn) Close() {
	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.reader = nil
	observability.RecordDisconnected()
	c.log.Info().Str("controller", c.addr).Msg("disconnected")
}

// DataAvailable blocks up to the poll interval waiting for inbound
// bytes; false on timeout. A fatal read error collapses the session.
func (c *ControllerConn) DataAvailable() bool {
	if c.conn == nil {
		return false
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(c.interval))
	if _, err := c.reader.Peek(1); err != nil {
		if isTimeout(err) {
			return false
		}
		c.log.Debug().Err(err).Msg("session lost while polling")
		c.Close()
		return false
	}
	return true
}

// ReadMessage returns the next complete wire message (header plus
// payload), or nil when the session dropped mid-read or framing was
// lost. Validating the payload is the codec's job, not ours.
func (c *ControllerConn) ReadMessage() []byte {
	if c.conn == nil {
		return nil
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(c.interval))
	header := make([]byte, protocol.HeaderSize)
	if _, err := io.ReadFull(c.reader, header); err != nil {
		c.log.Debug().Err(err).Msg("read header failed")
		c.Close()
		return nil
	}
	head, err := protocol.DecodeHeader(header)
	if err != nil {
		// An unreadable header means framing is lost on the stream; the
		// only recovery is a fresh session.
		c.log.Warn().Err(err).Msg("unreadable header, dropping session")
		c.Close()
		return nil
	}
	buf := make([]byte, int(protocol.HeaderSize)+int(head.PayloadLen))
	copy(buf, header)
	if head.PayloadLen > 0 {
		if _, err := io.ReadFull(c.reader, buf[protocol.HeaderSize:]); err != nil {
			c.log.Debug().Err(err).Msg("read payload failed")
			c.Close()
			return nil
		}
	}
	return buf
}

// WriteMessage sends one encoded message and returns the bytes written.
func (c *ControllerConn) WriteMessage(b []byte) int {
	if c.conn == nil {
		return 0
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.interval))
	n, err := c.conn.Write(b)
	if err != nil {
		c.log.Debug().Err(err).Msg("write failed")
		c.Close()
	}
	return n
}

// Sleep blocks for the poll interval; used on the disconnected path so
// the loop does not busy-spin. Returns early on ctx cancellation.
func (c *ControllerConn) Sleep(ctx context.Context) {
	timer := time.NewTimer(c.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
