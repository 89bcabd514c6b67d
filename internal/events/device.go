package events

import "strings"

// Device classes derived from a record's device descriptor.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
)

// ClassifyDevice maps a device-info descriptor to a device class. Any string
// containing "mobile", regardless of case, is mobile; everything else is
// desktop. The classifier is total: it never fails, including on "".
func ClassifyDevice(deviceInfo string) string {
	if strings.Contains(strings.ToLower(deviceInfo), "mobile") {
		return DeviceMobile
	}
	return DeviceDesktop
}
