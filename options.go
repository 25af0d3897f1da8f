package noroshi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/ashita-ai/noroshi/internal/config"
	"github.com/ashita-ai/noroshi/internal/transport"
)

// Option configures a Client.
type Option func(*resolvedOptions)

// resolvedOptions holds all settings after applying options.
// Unexported; callers use the With* functions.
type resolvedOptions struct {
	endpoint      string
	secret        string
	projectKey    string
	source        string
	environment   string
	release       string
	appVersion    string
	buildNumber   string
	maxBufferSize int
	flushInterval time.Duration
	syncTimeout   time.Duration
	debug         bool

	logger     *slog.Logger
	httpClient *http.Client
	transport  transport.Transport
	clock      clockz.Clock
	device     DeviceInfoProvider
	lifecycle  LifecycleSource
}

// applyTo overlays non-zero option values onto the env-loaded config.
func (o *resolvedOptions) applyTo(cfg *config.Config) {
	if o.endpoint != "" {
		cfg.Endpoint = o.endpoint
	}
	if o.secret != "" {
		cfg.Secret = o.secret
	}
	if o.projectKey != "" {
		cfg.ProjectKey = o.projectKey
	}
	if o.source != "" {
		cfg.Source = o.source
	}
	if o.environment != "" {
		cfg.Environment = o.environment
	}
	if o.release != "" {
		cfg.Release = o.release
	}
	if o.appVersion != "" {
		cfg.AppVersion = o.appVersion
	}
	if o.buildNumber != "" {
		cfg.BuildNumber = o.buildNumber
	}
	if o.maxBufferSize != 0 {
		cfg.MaxBufferSize = o.maxBufferSize
	}
	if o.flushInterval != 0 {
		cfg.FlushInterval = o.flushInterval
	}
	if o.syncTimeout != 0 {
		cfg.SyncTimeout = o.syncTimeout
	}
	if o.debug {
		cfg.Debug = true
	}
}

// WithEndpoint overrides the collector base URL (NOROSHI_ENDPOINT env var).
func WithEndpoint(url string) Option {
	return func(o *resolvedOptions) { o.endpoint = url }
}

// WithSecret overrides the pre-shared signing secret (NOROSHI_SECRET env var).
func WithSecret(secret string) Option {
	return func(o *resolvedOptions) { o.secret = secret }
}

// WithProjectKey sets the optional project identifier sent with every batch.
func WithProjectKey(key string) Option {
	return func(o *resolvedOptions) { o.projectKey = key }
}

// WithSource sets the source tag stamped on every event.
func WithSource(source string) Option {
	return func(o *resolvedOptions) { o.source = source }
}

// WithEnvironment sets the environment stamped on every event.
func WithEnvironment(env string) Option {
	return func(o *resolvedOptions) { o.environment = env }
}

// WithRelease sets the release stamped on every event.
func WithRelease(release string) Option {
	return func(o *resolvedOptions) { o.release = release }
}

// WithAppVersion sets the optional app version stamped on every event.
func WithAppVersion(version string) Option {
	return func(o *resolvedOptions) { o.appVersion = version }
}

// WithBuildNumber sets the optional build number stamped on every event.
func WithBuildNumber(build string) Option {
	return func(o *resolvedOptions) { o.buildNumber = build }
}

// WithMaxBufferSize overrides the size threshold that triggers an immediate
// flush. Default 20.
func WithMaxBufferSize(n int) Option {
	return func(o *resolvedOptions) { o.maxBufferSize = n }
}

// WithFlushInterval overrides the period of the background flush timer.
// Default 5s.
func WithFlushInterval(d time.Duration) Option {
	return func(o *resolvedOptions) { o.flushInterval = d }
}

// WithSyncTimeout overrides the upper bound on blocking flushes. Default 3s.
func WithSyncTimeout(d time.Duration) Option {
	return func(o *resolvedOptions) { o.syncTimeout = d }
}

// WithDebug enables debug logging of swallowed transport failures.
func WithDebug() Option {
	return func(o *resolvedOptions) { o.debug = true }
}

// WithLogger sets the structured logger. If not set, the default slog
// logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithHTTPClient sets a custom HTTP client for the default transport.
// Ignored when WithTransport is also given.
func WithHTTPClient(client *http.Client) Option {
	return func(o *resolvedOptions) { o.httpClient = client }
}

// WithTransport replaces the default HTTP transport entirely.
func WithTransport(t Transport) Option {
	return func(o *resolvedOptions) { o.transport = t }
}

// WithClock injects the clock driving timestamps and the flush scheduler.
// Enables deterministic testing with a fake clock.
func WithClock(clock clockz.Clock) Option {
	return func(o *resolvedOptions) { o.clock = clock }
}

// WithDeviceInfo replaces the default host metadata provider.
func WithDeviceInfo(p DeviceInfoProvider) Option {
	return func(o *resolvedOptions) { o.device = p }
}

// WithLifecycle attaches a host-platform lifecycle source. Background
// notifications trigger an async flush, terminate notifications a blocking
// one. Close detaches it.
func WithLifecycle(ls LifecycleSource) Option {
	return func(o *resolvedOptions) { o.lifecycle = ls }
}
