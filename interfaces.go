package noroshi

import (
	"github.com/ashita-ai/noroshi/internal/transport"
)

// Transport is the external collaborator responsible for the actual network
// send. Implementations receive the exact signed body and the signature
// headers; they must not retry. Errors are swallowed by the dispatcher.
type Transport = transport.Transport

// DeviceInfoProvider supplies the baseline metadata merged under
// caller-supplied event metadata. Host-platform-specific; the default
// reports Go runtime and host details.
type DeviceInfoProvider interface {
	DeviceInfo() map[string]any
}

// LifecycleHooks are the callbacks a LifecycleSource invokes on
// host-platform transitions.
type LifecycleHooks struct {
	// OnBackground should be called when the host app moves to the
	// background; it triggers an async flush.
	OnBackground func()

	// OnTerminate should be called when the process is about to exit;
	// it triggers a blocking flush bounded by the sync timeout.
	OnTerminate func()
}

// LifecycleSource is the host-platform lifecycle collaborator. The core
// calls Notify once at construction and Detach once at Close.
type LifecycleSource interface {
	Notify(hooks LifecycleHooks)
	Detach()
}

// NoopLifecycle is the default LifecycleSource for hosts without platform
// lifecycle notifications.
type NoopLifecycle struct{}

// Notify is a no-op.
func (NoopLifecycle) Notify(LifecycleHooks) {}

// Detach is a no-op.
func (NoopLifecycle) Detach() {}
