package advertising

import (
	"encoding/binary"
	"errors"

	"github.com/htp-ble/htp-go/pkg/ble"
)

// AD structure types.
const (
	ADFlags             byte = 0x01
	ADServiceUUIDs16    byte = 0x03
	ADShortenedName     byte = 0x08
	ADCompleteName      byte = 0x09
	ADTxPower           byte = 0x0A
	ADAppearance        byte = 0x19
	flagsGeneralNoBREDR byte = 0x06
)

const (
	// MaxDataLength is the payload ceiling of an advertisement or scan
	// response.
	MaxDataLength = 31

	// ShortenedNameLength is the size of a shortened name structure's type
	// and data, excluding the length octet.
	ShortenedNameLength = 8
)

// Payload build errors.
var (
	ErrDataFull         = errors.New("advertising: advertising data full")
	ErrScanResponseFull = errors.New("advertising: scan response data full")
)

// Payload is the encoded advertisement and scan response.
type Payload struct {
	Data         []byte
	ScanResponse []byte
}

// NamePlacement records where the device name ended up.
type NamePlacement uint8

const (
	NameOmitted NamePlacement = iota
	NameCompleteInData
	NameCompleteInScanResponse
	NameShortenedInData
	NameShortenedInScanResponse
)

// String returns the placement name.
func (p NamePlacement) String() string {
	switch p {
	case NameOmitted:
		return "OMITTED"
	case NameCompleteInData:
		return "COMPLETE_DATA"
	case NameCompleteInScanResponse:
		return "COMPLETE_SCAN_RSP"
	case NameShortenedInData:
		return "SHORT_DATA"
	case NameShortenedInScanResponse:
		return "SHORT_SCAN_RSP"
	default:
		return "UNKNOWN"
	}
}

// PayloadSpec lists the content of a payload.
type PayloadSpec struct {
	Services   []ble.UUID16
	Appearance uint16
	TxPower    int8
	Name       []byte
}

type adBuffer struct {
	b []byte
}

func (a *adBuffer) remaining() int {
	return MaxDataLength - len(a.b)
}

func (a *adBuffer) add(typ byte, data []byte) bool {
	if 2+len(data) > a.remaining() {
		return false
	}
	a.b = append(a.b, byte(1+len(data)), typ)
	a.b = append(a.b, data...)
	return true
}

// Build encodes spec. Flags, the service list, appearance and transmit power
// always go in the advertisement.
func Build(spec PayloadSpec) (Payload, NamePlacement, error) {
	var data, scan adBuffer

	uuids := make([]byte, 0, 2*len(spec.Services))
	for _, u := range spec.Services {
		b := u.Bytes()
		uuids = append(uuids, b[:]...)
	}
	ok := data.add(ADFlags, []byte{flagsGeneralNoBREDR}) &&
		data.add(ADServiceUUIDs16, uuids) &&
		data.add(ADAppearance, binary.LittleEndian.AppendUint16(nil, spec.Appearance)) &&
		data.add(ADTxPower, []byte{byte(spec.TxPower)})
	if !ok {
		return Payload{}, NameOmitted, ErrDataFull
	}

	placement, err := placeName(&data, &scan, spec.Name)
	if err != nil {
		return Payload{}, NameOmitted, err
	}
	return Payload{Data: data.b, ScanResponse: scan.b}, placement, nil
}

func placeName(data, scan *adBuffer, name []byte) (NamePlacement, error) {
	if len(name) == 0 {
		return NameOmitted, nil
	}
	switch {
	case data.add(ADCompleteName, name):
		return NameCompleteInData, nil
	case scan.add(ADCompleteName, name):
		return NameCompleteInScanResponse, nil
	case data.remaining() >= ShortenedNameLength+2:
		data.add(ADShortenedName, name[:ShortenedNameLength-1])
		return NameShortenedInData, nil
	}

	n := scan.remaining() - 2
	if n <= 0 {
		return NameOmitted, ErrScanResponseFull
	}
	scan.add(ADShortenedName, name[:min(n, len(name))])
	return NameShortenedInScanResponse, nil
}
