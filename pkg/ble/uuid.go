package ble

import "fmt"

// UUID16 is a 16-bit Bluetooth SIG assigned number.
type UUID16 uint16

// Service UUIDs.
const (
	ServiceGenericAccess     UUID16 = 0x1800
	ServiceGenericAttribute  UUID16 = 0x1801
	ServiceHealthThermometer UUID16 = 0x1809
	ServiceDeviceInformation UUID16 = 0x180A
	ServiceBattery           UUID16 = 0x180F
)

// Characteristic UUIDs.
const (
	CharDeviceName          UUID16 = 0x2A00
	CharAppearance          UUID16 = 0x2A01
	CharPeripheralPreferred UUID16 = 0x2A04
	CharBatteryLevel        UUID16 = 0x2A19
	CharTemperatureMeasure  UUID16 = 0x2A1C
	CharTemperatureType     UUID16 = 0x2A1D
	CharSystemID            UUID16 = 0x2A23
	CharModelNumber         UUID16 = 0x2A24
	CharSerialNumber        UUID16 = 0x2A25
	CharFirmwareRevision    UUID16 = 0x2A26
	CharHardwareRevision    UUID16 = 0x2A27
	CharSoftwareRevision    UUID16 = 0x2A28
	CharManufacturerName    UUID16 = 0x2A29
)

// DescClientConfig is the client characteristic configuration descriptor.
const DescClientConfig UUID16 = 0x2902

// AppearanceThermometer is the generic thermometer appearance value.
const AppearanceThermometer uint16 = 0x0300

// Bytes returns u in little-endian order, as carried over the air.
func (u UUID16) Bytes() [2]byte {
	return [2]byte{byte(u), byte(u >> 8)}
}

// String returns u as 0xXXXX.
func (u UUID16) String() string {
	return fmt.Sprintf("0x%04X", uint16(u))
}
