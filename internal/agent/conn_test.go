package agent

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/empower-ran/enbagent/internal/protocol"
	"github.com/empower-ran/enbagent/internal/testutil/testlog"
)

const testInterval = 100 * time.Millisecond

func listenLoopback(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	return ln
}

func acceptOne(t *testing.T, ln net.Listener) net.Conn {
	t.Helper()
	_ = ln.(*net.TCPListener).SetDeadline(time.Now().Add(2 * time.Second))
	conn, err := ln.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn net.Conn, r *bufio.Reader) *protocol.Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msg, err := protocol.Decode(r)
	if err != nil {
		t.Fatalf("decode inbound message: %v", err)
	}
	return msg
}

func writeMessage(t *testing.T, conn net.Conn, msg *protocol.Message) {
	t.Helper()
	buf, err := protocol.EncodeBytes(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := conn.Write(buf); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestOpenAbsorbsConnectFailure(t *testing.T) {
	ln := listenLoopback(t)
	addr := ln.Addr().String()
	_ = ln.Close()

	c := NewControllerConn(addr, testInterval, testlog.Logger(t))
	c.Open()
	if !c.Closed() {
		t.Fatal("expected session to stay closed after failed dial")
	}
}

func TestOpenIsNoOpWhenEstablished(t *testing.T) {
	ln := listenLoopback(t)
	c := NewControllerConn(ln.Addr().String(), testInterval, testlog.Logger(t))
	c.Open()
	t.Cleanup(c.Close)
	acceptOne(t, ln)
	if c.Closed() {
		t.Fatal("expected open session")
	}

	established := c.conn
	c.Open()
	if c.conn != established {
		t.Fatal("reopen replaced an established session")
	}
}

func TestDataAvailableTimesOut(t *testing.T) {
	ln := listenLoopback(t)
	c := NewControllerConn(ln.Addr().String(), testInterval, testlog.Logger(t))
	c.Open()
	t.Cleanup(c.Close)
	acceptOne(t, ln)

	start := time.Now()
	if c.DataAvailable() {
		t.Fatal("expected timeout with no inbound data")
	}
	if elapsed := time.Since(start); elapsed < testInterval-20*time.Millisecond {
		t.Fatalf("poll returned before the interval: %v", elapsed)
	}
	if c.Closed() {
		t.Fatal("timeout must not collapse the session")
	}
}

func TestDataAvailableThenReadMessage(t *testing.T) {
	ln := listenLoopback(t)
	c := NewControllerConn(ln.Addr().String(), testInterval, testlog.Logger(t))
	c.Open()
	t.Cleanup(c.Close)
	controller := acceptOne(t, ln)

	writeMessage(t, controller, &protocol.Message{Header: protocol.Header{
		MessageClass: protocol.RequestGet,
		EntityClass:  protocol.EntityCapabilities,
		Sequence:     3,
	}})

	if !c.DataAvailable() {
		t.Fatal("expected inbound data")
	}
	raw := c.ReadMessage()
	if len(raw) == 0 {
		t.Fatal("expected one complete message")
	}
	msg, err := protocol.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Header.EntityClass != protocol.EntityCapabilities || msg.Header.Sequence != 3 {
		t.Fatalf("unexpected message: %+v", msg.Header)
	}
}

func TestReadMessageUnreadableHeaderDropsSession(t *testing.T) {
	ln := listenLoopback(t)
	c := NewControllerConn(ln.Addr().String(), testInterval, testlog.Logger(t))
	c.Open()
	t.Cleanup(c.Close)
	controller := acceptOne(t, ln)

	garbage := bytes.Repeat([]byte{0xFF}, int(protocol.HeaderSize))
	if _, err := controller.Write(garbage); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	if !c.DataAvailable() {
		t.Fatal("expected inbound bytes")
	}
	if raw := c.ReadMessage(); raw != nil {
		t.Fatalf("expected nil for unreadable header, got %d bytes", len(raw))
	}
	if !c.Closed() {
		t.Fatal("framing loss must collapse the session")
	}
}

func TestWriteMessageRoundTrip(t *testing.T) {
	ln := listenLoopback(t)
	c := NewControllerConn(ln.Addr().String(), testInterval, testlog.Logger(t))
	c.Open()
	t.Cleanup(c.Close)
	controller := acceptOne(t, ln)

	buf, err := protocol.EncodeBytes(&protocol.Message{
		Header: protocol.Header{
			MessageClass: protocol.RequestSet,
			EntityClass:  protocol.EntityHello,
			ElementID:    0x19B,
			Sequence:     1,
		},
		Fields: protocol.Periodicity{Milliseconds: 100}.Fields(),
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if n := c.WriteMessage(buf); n != len(buf) {
		t.Fatalf("short write: %d of %d", n, len(buf))
	}

	msg := readMessage(t, controller, bufio.NewReader(controller))
	if msg.Header.EntityClass != protocol.EntityHello {
		t.Fatalf("unexpected entity: %v", msg.Header.EntityClass)
	}
}

func TestSleepHonorsCancellation(t *testing.T) {
	c := NewControllerConn("127.0.0.1:1", time.Hour, testlog.Logger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		c.Sleep(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sleep ignored cancellation")
	}
}
