// Package platform delivers desktop notifications through the host's
// native notification service.
package platform

import "time"

// AppName identifies photomark to notification services.
const AppName = "photomark"

// DefaultTimeout is how long a notification stays visible when the caller
// does not choose.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown with the
	// notification where supported.
	IconPath string
	// Timeout overrides DefaultTimeout where the platform honours it.
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}
