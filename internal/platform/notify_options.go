package platform

import "time"

// DefaultTimeout is how long a notification stays visible when Options
// leaves Timeout unset.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender. Empty means "PixelPad".
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is honoured where the platform supports expiry.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "PixelPad"
	}
	return o.AppName
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
