package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds server settings.
type Config struct {
	// Address is the listen address.
	// Default: ":7070".
	Address string

	// MetricsPath is where Prometheus metrics are served.
	// Default: "/metrics".
	MetricsPath string

	// AllowedOrigins lists origins allowed to open the WebSocket in
	// addition to same-origin requests. "*" allows every origin.
	AllowedOrigins []string

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	// Default: 4096.
	ReadBufferSize  int
	WriteBufferSize int

	// ReadTimeout is the maximum time to wait for a message from the
	// client, including heartbeat pongs.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a frame.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between WebSocket pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 4KB.
	MaxMessageSize int64

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// Loop restarts playback when the scenario finishes instead of closing
	// the session.
	Loop bool

	// Realtime paces playback with a ticker. When false frames are played
	// back to back, which tests rely on.
	// Default: true.
	Realtime bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":7070",
		MetricsPath:       "/metrics",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    4 * 1024,
		ShutdownTimeout:   10 * time.Second,
		Realtime:          true,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.MetricsPath == "" {
		out.MetricsPath = defaults.MetricsPath
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.HeartbeatInterval == 0 {
		out.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return &out
}

// checkOrigin returns the WebSocket origin check for the config.
func (c *Config) checkOrigin() func(r *http.Request) bool {
	allowed := make(map[string]bool, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		allowed[strings.TrimSuffix(o, "/")] = true
	}
	return func(r *http.Request) bool {
		if allowed["*"] || SameOriginCheck(r) {
			return true
		}
		return allowed[r.Header.Get("Origin")]
	}
}

// SameOriginCheck reports whether the request's Origin header matches its
// Host. Requests without an Origin header are allowed.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No Origin header (e.g., curl or a native client)
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}
