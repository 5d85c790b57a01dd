package protocol

import (
	"encoding/binary"
	"io"
)

// Decode reads a single message from r using the protocol wire format.
func Decode(r io.Reader) (*Message, error) {
	headerBytes := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, ErrTruncated
	}

	head, err := DecodeHeader(headerBytes)
	if err != nil {
		return nil, err
	}

	msg := &Message{Header: head}
	if head.PayloadLen == 0 {
		return msg, nil
	}

	payload := make([]byte, head.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, ErrTruncated
	}

	fields, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	msg.Fields = fields
	return msg, nil
}

// DecodeHeader parses and validates the fixed header. The connection
// manager uses it to learn the payload length before reading the rest of
// a message.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) != int(HeaderSize) {
		return Header{}, ErrTruncated
	}
	h := Header{
		Magic:        binary.BigEndian.Uint32(buf[0:4]),
		Version:      binary.BigEndian.Uint16(buf[4:6]),
		MessageClass: MessageClass(buf[6]),
		EntityClass:  EntityClass(buf[7]),
		ElementID:    binary.BigEndian.Uint64(buf[8:16]),
		Sequence:     binary.BigEndian.Uint32(buf[16:20]),
		PayloadLen:   binary.BigEndian.Uint32(buf[20:24]),
	}
	if h.Magic != Magic {
		return Header{}, ErrInvalidMagic
	}
	if h.Version != Version {
		return Header{}, ErrUnsupportedVersion
	}
	if h.PayloadLen > MaxPayloadBytes {
		return Header{}, ErrPayloadTooLarge
	}
	return h, nil
}

func parseFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0, 4)
	for offset := 0; offset < len(payload); {
		remaining := len(payload) - offset
		if remaining < fieldHeaderSize {
			return nil, ErrTruncated
		}
		id := binary.BigEndian.Uint16(payload[offset : offset+2])
		ft := FieldType(payload[offset+2])
		length := binary.BigEndian.Uint32(payload[offset+3 : offset+7])
		offset += fieldHeaderSize
		if length > uint32(len(payload)-offset) {
			return nil, ErrInvalidLength
		}
		value := make([]byte, length)
		copy(value, payload[offset:offset+int(length)])
		fields = append(fields, Field{ID: id, Type: ft, Value: value})
		offset += int(length)
	}
	return fields, nil
}
