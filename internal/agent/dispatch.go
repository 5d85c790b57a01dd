package agent

import (
	"github.com/rs/zerolog"

	"github.com/empower-ran/enbagent/internal/observability"
	"github.com/empower-ran/enbagent/internal/protocol"
)

// responseBuilder maps one decoded inbound message to an optional
// response.
type responseBuilder func(msg *protocol.Message) *protocol.Message

// Dispatcher is the reactive half of the agent: a finite table from
// entity class to response builder. New services are new table entries,
// not session-loop changes.
type Dispatcher struct {
	log      zerolog.Logger
	builders map[protocol.EntityClass]responseBuilder
}

func NewDispatcher(caps protocol.CellCapabilities, seq *Sequencer, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		log:      log,
		builders: make(map[protocol.EntityClass]responseBuilder),
	}
	d.builders[protocol.EntityHello] = d.helloReply
	d.builders[protocol.EntityCapabilities] = capabilitiesResponse(caps, seq)
	return d
}

// Dispatch decides the response for one decoded inbound message. A nil
// result means no protocol action.
func (d *Dispatcher) Dispatch(msg *protocol.Message) *protocol.Message {
	observability.RecordMessageReceived(msg.Header.EntityClass.String())
	builder, ok := d.builders[msg.Header.EntityClass]
	if !ok {
		observability.RecordUnexpectedEntity()
		d.log.Warn().
			Uint8("entity", uint8(msg.Header.EntityClass)).
			Uint32("sequence", msg.Header.Sequence).
			Msg("unexpected entity class")
		return nil
	}
	return builder(msg)
}

// helloReply handles the controller's answer to our own keepalive; there
// is nothing to send back.
func (d *Dispatcher) helloReply(msg *protocol.Message) *protocol.Message {
	d.log.Debug().Uint32("sequence", msg.Header.Sequence).Msg("hello reply from controller")
	return nil
}

// capabilitiesResponse answers a controller query with the cell
// attributes captured at startup. The request class is not inspected;
// both REQUEST_SET and REQUEST_GET get RESPONSE_SUCCESS.
func capabilitiesResponse(caps protocol.CellCapabilities, seq *Sequencer) responseBuilder {
	return func(_ *protocol.Message) *protocol.Message {
		resp := &protocol.Message{Fields: caps.Fields()}
		seq.FillHeader(&resp.Header)
		resp.Header.MessageClass = protocol.ResponseSuccess
		resp.Header.EntityClass = protocol.EntityCapabilities
		return resp
	}
}
