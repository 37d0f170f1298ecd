package core

import (
	"context"
	"fmt"

	"github.com/danielpaulus/go-ios/ios"
	"github.com/tilaunch/tilaunch/internal/logging"
)

// UsbmuxDevices lists devices attached over USB through usbmuxd, for hosts where
// `ti info` does not report them.
type UsbmuxDevices struct{}

func (UsbmuxDevices) Name() string { return "usbmux" }

func (UsbmuxDevices) Devices(ctx context.Context) ([]TiDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	list, err := ios.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("list usbmux devices: %w", err)
	}
	out := make([]TiDevice, 0, len(list.DeviceList))
	for _, entry := range list.DeviceList {
		udid := entry.Properties.SerialNumber
		values, err := ios.GetValuesPlist(entry)
		if err != nil {
			logging.LogWarn("usbmux", fmt.Sprintf("Could not read lockdown values for %s - %v", udid, err))
			continue
		}
		out = append(out, deviceFromLockdown(udid, values))
	}
	return out, nil
}

func deviceFromLockdown(udid string, values map[string]interface{}) TiDevice {
	str := func(key string) string {
		s, _ := values[key].(string)
		return s
	}
	return TiDevice{
		UDID:           udid,
		Name:           str("DeviceName"),
		DeviceClass:    str("DeviceClass"),
		ProductVersion: str("ProductVersion"),
		ProductType:    str("ProductType"),
	}
}
