package agent

import "github.com/empower-ran/enbagent/internal/protocol"

// Sequencer produces correctly numbered outbound headers. The sequence
// starts at 1 and advances exactly once per outbound message for the
// lifetime of the agent; the element id is the configured eNodeB id and
// never changes.
type Sequencer struct {
	next      uint32
	elementID uint64
}

func NewSequencer(elementID uint64) *Sequencer {
	return &Sequencer{next: 1, elementID: elementID}
}

// FillHeader stamps sequence and element id, then advances the counter.
// Call exactly once per outbound message, before the caller sets the
// message and entity classes.
func (s *Sequencer) FillHeader(h *protocol.Header) {
	h.Sequence = s.next
	h.ElementID = s.elementID
	s.next++
}
