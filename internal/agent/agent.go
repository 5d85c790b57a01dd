package agent

import (
	"bytes"
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/empower-ran/enbagent/internal/config"
	"github.com/empower-ran/enbagent/internal/observability"
	"github.com/empower-ran/enbagent/internal/protocol"
)

var ErrAlreadyStarted = errors.New("agent: already started")

// Agent keeps one outbound session to the controller, announces liveness
// every poll interval, and answers capability queries about the cell it
// represents.
type Agent struct {
	cfg config.AgentConfig
	log zerolog.Logger

	conn     *ControllerConn
	seq      *Sequencer
	dispatch *Dispatcher

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// New validates cfg and assembles an agent; nothing runs until Start. A
// malformed controller address is the documented construction failure.
func New(cfg config.AgentConfig, log zerolog.Logger) (*Agent, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seq := NewSequencer(uint64(cfg.EnbID))
	caps := protocol.CellCapabilities{
		PCI:      cfg.PCI,
		NPrb:     cfg.NPrb,
		DlEarfcn: cfg.DlEarfcn,
		UlEarfcn: cfg.UlEarfcn,
	}
	return &Agent{
		cfg:      cfg,
		log:      log,
		conn:     NewControllerConn(cfg.ControllerEndpoint(), cfg.PollInterval(), log.With().Str("component", "conn").Logger()),
		seq:      seq,
		dispatch: NewDispatcher(caps, seq, log.With().Str("component", "dispatch").Logger()),
		done:     make(chan struct{}),
	}, nil
}

// Start spawns the session-loop goroutine.
//
// A panic escaping the loop body is recovered, logged, and ends all
// protocol activity without restart; the agent stays dead until the host
// process exits. This mirrors the original behavior and is flagged in
// DESIGN.md rather than silently changed.
func (a *Agent) Start() error {
	if a.started {
		return ErrAlreadyStarted
	}
	a.started = true
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.run(ctx)
	return nil
}

// Stop asks the loop to exit at its next iteration boundary and waits
// for it. Safe to call on a never-started agent.
func (a *Agent) Stop() {
	if !a.started {
		return
	}
	a.cancel()
	<-a.done
}

// Done is closed when the session loop has exited.
func (a *Agent) Done() <-chan struct{} {
	return a.done
}

func (a *Agent) run(ctx context.Context) {
	defer close(a.done)
	defer a.conn.Close()
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Msg("session loop terminated")
		}
	}()

	a.log.Info().
		Str("controller", a.cfg.ControllerEndpoint()).
		Uint32("delay_ms", a.cfg.DelayMs).
		Msg("session loop starting")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		a.iterate(ctx)
	}
}

// iterate runs one cycle of the state machine: reconnect while the
// session is down, otherwise one bounded wait that becomes either a data
// iteration or a periodic keepalive iteration. The single wait doubles
// as read timeout and keepalive timer.
func (a *Agent) iterate(ctx context.Context) {
	periodic := false
	dataAvailable := false

	if a.conn.Closed() {
		a.conn.Open()
	}
	if a.conn.Closed() {
		a.conn.Sleep(ctx)
		periodic = true
	} else {
		dataAvailable = a.conn.DataAvailable()
		if !dataAvailable {
			periodic = true
		}
	}

	if dataAvailable {
		raw := a.conn.ReadMessage()
		if len(raw) == 0 {
			return
		}
		msg, err := protocol.Decode(bytes.NewReader(raw))
		if err != nil {
			observability.RecordMessageDropped()
			a.log.Debug().Err(err).Msg("dropping undecodable message")
			return
		}
		if resp := a.dispatch.Dispatch(msg); resp != nil {
			a.send(resp)
		}
		return
	}

	if periodic && !a.conn.Closed() {
		a.sendHello()
	}
}

// sendHello announces liveness, carrying the poll interval as the
// periodicity the controller should expect.
func (a *Agent) sendHello() {
	msg := &protocol.Message{
		Fields: protocol.Periodicity{Milliseconds: a.cfg.DelayMs}.Fields(),
	}
	a.seq.FillHeader(&msg.Header)
	msg.Header.MessageClass = protocol.RequestSet
	msg.Header.EntityClass = protocol.EntityHello
	a.send(msg)
}

func (a *Agent) send(msg *protocol.Message) {
	buf, err := protocol.EncodeBytes(msg)
	if err != nil {
		a.log.Error().Err(err).Msg("encode failed")
		return
	}
	n := a.conn.WriteMessage(buf)
	if n > 0 {
		observability.RecordMessageSent(msg.Header.EntityClass.String())
		a.log.Debug().
			Uint32("sequence", msg.Header.Sequence).
			Str("entity", msg.Header.EntityClass.String()).
			Int("bytes", n).
			Msg("sent")
	}
}
