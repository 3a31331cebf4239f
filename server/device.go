package server

import (
	"strings"

	auth "github.com/studiolane/campus-auth"
)

// ParseDeviceClass buckets a User-Agent header into the coarse device
// classes recorded on session entries. Tablet is checked before mobile
// because tablet agents usually carry both markers.
func ParseDeviceClass(userAgent string) auth.DeviceClass {
	if strings.TrimSpace(userAgent) == "" {
		return auth.DeviceUnknown
	}

	ua := strings.ToLower(userAgent)

	if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") {
		return auth.DeviceTablet
	}

	if strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone") {
		return auth.DeviceMobile
	}

	return auth.DeviceDesktop
}
