package protocol

import "fmt"

// Periodicity is the HELLO request payload: the interval at which the
// agent announces itself.
type Periodicity struct {
	Milliseconds uint32
}

// Fields returns the TLV encoding of p.
func (p Periodicity) Fields() []Field {
	return []Field{NewFieldUint32(FieldIDPeriodicityMs, p.Milliseconds)}
}

// PeriodicityFromFields extracts a Periodicity payload.
func PeriodicityFromFields(fields []Field) (Periodicity, error) {
	f, ok := GetField(fields, FieldIDPeriodicityMs)
	if !ok {
		return Periodicity{}, MissingFieldError{FieldID: FieldIDPeriodicityMs}
	}
	ms, err := f.Uint32()
	if err != nil {
		return Periodicity{}, err
	}
	return Periodicity{Milliseconds: ms}, nil
}

// CellCapabilities is the CAPABILITIES response payload describing the
// cell this agent represents.
type CellCapabilities struct {
	PCI      uint16
	NPrb     uint8
	DlEarfcn uint32
	UlEarfcn uint32
}

// Fields returns the TLV encoding of c.
func (c CellCapabilities) Fields() []Field {
	return []Field{
		NewFieldUint16(FieldIDCellPCI, c.PCI),
		NewFieldUint8(FieldIDCellNPrb, c.NPrb),
		NewFieldUint32(FieldIDCellDlEarfcn, c.DlEarfcn),
		NewFieldUint32(FieldIDCellUlEarfcn, c.UlEarfcn),
	}
}

// CellCapabilitiesFromFields extracts a CellCapabilities payload.
func CellCapabilitiesFromFields(fields []Field) (CellCapabilities, error) {
	var caps CellCapabilities
	var err error

	pci, ok := GetField(fields, FieldIDCellPCI)
	if !ok {
		return CellCapabilities{}, MissingFieldError{FieldID: FieldIDCellPCI}
	}
	if caps.PCI, err = pci.Uint16(); err != nil {
		return CellCapabilities{}, err
	}

	nPrb, ok := GetField(fields, FieldIDCellNPrb)
	if !ok {
		return CellCapabilities{}, MissingFieldError{FieldID: FieldIDCellNPrb}
	}
	if caps.NPrb, err = nPrb.Uint8(); err != nil {
		return CellCapabilities{}, err
	}

	dl, ok := GetField(fields, FieldIDCellDlEarfcn)
	if !ok {
		return CellCapabilities{}, MissingFieldError{FieldID: FieldIDCellDlEarfcn}
	}
	if caps.DlEarfcn, err = dl.Uint32(); err != nil {
		return CellCapabilities{}, err
	}

	ul, ok := GetField(fields, FieldIDCellUlEarfcn)
	if !ok {
		return CellCapabilities{}, MissingFieldError{FieldID: FieldIDCellUlEarfcn}
	}
	if caps.UlEarfcn, err = ul.Uint32(); err != nil {
		return CellCapabilities{}, err
	}

	return caps, nil
}

// MissingFieldError indicates a required field was not present.
type MissingFieldError struct {
	FieldID uint16
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("protocol: missing required field %d", e.FieldID)
}
