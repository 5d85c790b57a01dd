package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
)

const fieldHeaderSize = 2 + 1 + 4

// Encode writes msg to w using the protocol wire format. Magic, Version
// and PayloadLen in the header are overwritten with codec-owned values.
func Encode(w io.Writer, msg *Message) error {
	if msg == nil {
		return ErrInvalidLength
	}
	payloadLen, err := payloadLength(msg.Fields)
	if err != nil {
		return err
	}
	if payloadLen > uint64(MaxPayloadBytes) {
		return ErrPayloadTooLarge
	}

	head := msg.Header
	head.Magic = Magic
	head.Version = Version
	head.PayloadLen = uint32(payloadLen)

	if _, err := w.Write(EncodeHeader(head)); err != nil {
		return err
	}
	for _, field := range msg.Fields {
		if err := writeField(w, field); err != nil {
			return err
		}
	}
	return nil
}

// EncodeBytes encodes msg into a fresh buffer.
func EncodeBytes(msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func payloadLength(fields []Field) (uint64, error) {
	var total uint64
	for _, field := range fields {
		if len(field.Value) > int(^uint32(0)) {
			return 0, ErrInvalidLength
		}
		total += uint64(fieldHeaderSize + len(field.Value))
	}
	return total, nil
}

// EncodeHeader serializes the fixed header.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	binary.BigEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = byte(h.MessageClass)
	buf[7] = byte(h.EntityClass)
	binary.BigEndian.PutUint64(buf[8:16], h.ElementID)
	binary.BigEndian.PutUint32(buf[16:20], h.Sequence)
	binary.BigEndian.PutUint32(buf[20:24], h.PayloadLen)
	return buf
}

func writeField(w io.Writer, field Field) error {
	buf := make([]byte, fieldHeaderSize)
	binary.BigEndian.PutUint16(buf[0:2], field.ID)
	buf[2] = byte(field.Type)
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(field.Value)))
	if _, err := w.Write(buf); err != nil {
		return err
	}
	if len(field.Value) == 0 {
		return nil
	}
	_, err := w.Write(field.Value)
	return err
}
