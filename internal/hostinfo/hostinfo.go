// Package hostinfo provides the default device/environment metadata baseline
// merged under caller-supplied event metadata.
package hostinfo

import (
	"os"
	"runtime"
)

// Provider collects host metadata from the Go runtime.
type Provider struct{}

// DeviceInfo returns the baseline metadata mapping for captured events.
func (Provider) DeviceInfo() map[string]any {
	info := map[string]any{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
	}
	if host, err := os.Hostname(); err == nil {
		info["hostname"] = host
	}
	return info
}

// Noop provides no baseline metadata. Useful in tests and in hosts that
// must not report device details.
type Noop struct{}

// DeviceInfo returns nil.
func (Noop) DeviceInfo() map[string]any { return nil }
