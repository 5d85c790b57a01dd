package protocol

const (
	Magic      uint32 = 0xE5A6E001
	Version    uint16 = 1
	HeaderSize uint16 = 24

	// MaxPayloadBytes bounds decode memory use for one message.
	MaxPayloadBytes uint32 = 64 * 1024
)

// MessageClass is the role of a message (request/response).
type MessageClass uint8

const (
	RequestSet      MessageClass = 1
	RequestGet      MessageClass = 2
	ResponseSuccess MessageClass = 3
	ResponseFailure MessageClass = 4
)

// EntityClass is the logical service a message concerns.
type EntityClass uint8

const (
	EntityHello        EntityClass = 1
	EntityCapabilities EntityClass = 2
)

func (e EntityClass) String() string {
	switch e {
	case EntityHello:
		return "hello"
	case EntityCapabilities:
		return "capabilities"
	default:
		return "unknown"
	}
}

// Header is the fixed wire header. Sequence and ElementID are stamped by
// the agent's sequencer; Magic, Version and PayloadLen are owned by the
// codec and filled on encode.
type Header struct {
	Magic        uint32
	Version      uint16
	MessageClass MessageClass
	EntityClass  EntityClass
	ElementID    uint64
	Sequence     uint32
	PayloadLen   uint32
}

// FieldType tags the encoding of one TLV value.
type FieldType uint8

const (
	FieldUint8  FieldType = 1
	FieldUint16 FieldType = 2
	FieldUint32 FieldType = 3
	FieldUint64 FieldType = 4
)

// TLV field IDs.
const (
	FieldIDPeriodicityMs uint16 = 1
	FieldIDCellPCI       uint16 = 2
	FieldIDCellNPrb      uint16 = 3
	FieldIDCellDlEarfcn  uint16 = 4
	FieldIDCellUlEarfcn  uint16 = 5
)

// Field is one TLV field.
type Field struct {
	ID    uint16
	Type  FieldType
	Value []byte
}

// Message is one complete decoded wire message.
type Message struct {
	Header Header
	Fields []Field
}
