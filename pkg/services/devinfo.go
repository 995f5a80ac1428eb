package services

import (
	"github.com/htp-ble/htp-go/pkg/ble"
	"github.com/htp-ble/htp-go/pkg/gatt"
	"github.com/htp-ble/htp-go/pkg/nvm"
)

// systemIDConstant is inserted between the manufacturer and organizational
// parts of the system ID.
const systemIDConstant = 0xFFFE

// DeviceInfo holds the Device Information strings.
type DeviceInfo struct {
	Manufacturer     string `yaml:"manufacturer"`
	ModelNumber      string `yaml:"model"`
	SerialNumber     string `yaml:"serial"`
	HardwareRevision string `yaml:"hardware_revision"`
	FirmwareRevision string `yaml:"firmware_revision"`
	SoftwareRevision string `yaml:"software_revision"`
}

// DeviceInformation is the read-only Device Information service.
type DeviceInformation struct {
	local ble.MAC
	info  DeviceInfo
}

// NewDeviceInformation creates the service for the local address.
func NewDeviceInformation(local ble.MAC, info DeviceInfo) *DeviceInformation {
	return &DeviceInformation{local: local, info: info}
}

// Name implements Service.
func (d *DeviceInformation) Name() string { return "devinfo" }

// StorageWords implements Service.
func (d *DeviceInformation) StorageWords() uint16 { return 0 }

// Restore implements Service.
func (d *DeviceInformation) Restore(nvm.Region, bool) error { return nil }

// BondingNotify implements Service.
func (d *DeviceInformation) BondingNotify() error { return nil }

// DataInit implements Service.
func (d *DeviceInformation) DataInit() {}

// SystemID derives the 8-octet system ID from the local address. It fails
// for the zero address.
func (d *DeviceInformation) SystemID() ([]byte, bool) {
	if d.local == (ble.MAC{}) {
		return nil, false
	}
	m := d.local
	return []byte{
		systemIDConstant >> 8, systemIDConstant & 0xFF,
		m[2], m[1], m[0],
		m[5], m[4],
		m[3],
	}, true
}

// Registration implements gatt.Service. There is no write handler.
func (d *DeviceInformation) Registration() gatt.Registration {
	return gatt.Registration{
		Name: d.Name(),
		Low:  gatt.HandleDeviceInfoService,
		High: gatt.HandleDeviceInfoEnd,
		Read: d.read,
	}
}

func (d *DeviceInformation) read(req gatt.Request) gatt.Response {
	var s string
	switch req.Handle {
	case gatt.HandleSystemID:
		id, ok := d.SystemID()
		if !ok {
			return gatt.Reply(ble.StatusUnlikelyError, nil)
		}
		return gatt.Reply(ble.StatusSuccess, id)
	case gatt.HandleManufacturerName:
		s = d.info.Manufacturer
	case gatt.HandleModelNumber:
		s = d.info.ModelNumber
	case gatt.HandleSerialNumber:
		s = d.info.SerialNumber
	case gatt.HandleHardwareRevision:
		s = d.info.HardwareRevision
	case gatt.HandleFirmwareRevision:
		s = d.info.FirmwareRevision
	case gatt.HandleSoftwareRevision:
		s = d.info.SoftwareRevision
	default:
		return gatt.Reply(ble.StatusProceed, nil)
	}
	return gatt.Reply(ble.StatusSuccess, []byte(s))
}
