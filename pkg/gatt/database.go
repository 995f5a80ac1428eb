package gatt

// Attribute handles of the device database.
const (
	HandleGAPService         uint16 = 0x0001
	HandleDeviceName         uint16 = 0x0003
	HandleAppearance         uint16 = 0x0005
	HandlePreferredConnParam uint16 = 0x0007
	HandleGAPEnd             uint16 = 0x0007

	HandleThermometerService     uint16 = 0x0008
	HandleTemperatureMeasurement uint16 = 0x000A
	HandleTemperatureConfig      uint16 = 0x000B
	HandleTemperatureType        uint16 = 0x000D
	HandleThermometerEnd         uint16 = 0x000D

	HandleBatteryService     uint16 = 0x000E
	HandleBatteryLevel       uint16 = 0x0010
	HandleBatteryLevelConfig uint16 = 0x0011
	HandleBatteryEnd         uint16 = 0x0011

	HandleDeviceInfoService uint16 = 0x0012
	HandleSystemID          uint16 = 0x0014
	HandleManufacturerName  uint16 = 0x0016
	HandleModelNumber       uint16 = 0x0018
	HandleSerialNumber      uint16 = 0x001A
	HandleHardwareRevision  uint16 = 0x001C
	HandleFirmwareRevision  uint16 = 0x001E
	HandleSoftwareRevision  uint16 = 0x0020
	HandleDeviceInfoEnd     uint16 = 0x0020
)

// ClientConfig is a client characteristic configuration descriptor value.
type ClientConfig uint16

const (
	ConfigNone         ClientConfig = 0x0000
	ConfigNotification ClientConfig = 0x0001
	ConfigIndication   ClientConfig = 0x0002
)

// String returns the configuration name.
func (c ClientConfig) String() string {
	switch c {
	case ConfigNone:
		return "NONE"
	case ConfigNotification:
		return "NOTIFICATION"
	case ConfigIndication:
		return "INDICATION"
	default:
		return "UNKNOWN"
	}
}

// ParseClientConfig decodes a two-octet little-endian descriptor value.
func ParseClientConfig(value []byte) (ClientConfig, bool) {
	if len(value) != 2 {
		return 0, false
	}
	return ClientConfig(uint16(value[0]) | uint16(value[1])<<8), true
}

// Bytes encodes c as carried over the air.
func (c ClientConfig) Bytes() []byte {
	return []byte{byte(c), byte(c >> 8)}
}
