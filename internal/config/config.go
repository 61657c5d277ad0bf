package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/animation"
	"github.com/vango-dev/motion/pkg/projection"
	"github.com/vango-dev/motion/pkg/telemetry"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "motion.json"

	// DefaultAddr is the default devtools server address.
	DefaultAddr = ":7070"

	// DefaultMetricsPath is where the server exposes Prometheus metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultFrameRate is the default frames per second.
	DefaultFrameRate = 60

	// DefaultNamespace prefixes every metric name.
	DefaultNamespace = "motion"
)

// Config represents the complete motion.json configuration.
type Config struct {
	// Transition is the default layout transition.
	Transition TransitionConfig `json:"transition"`

	// ResizeDebounce is how long layout updates stay blocked after the
	// last viewport resize.
	ResizeDebounce Duration `json:"resizeDebounce,omitempty"`

	// FrameRate is the scheduler frame rate.
	FrameRate float64 `json:"frameRate,omitempty"`

	// RoundToDevicePixels rounds measured boxes to whole pixels.
	RoundToDevicePixels bool `json:"roundToDevicePixels,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// Server contains devtools server configuration.
	Server ServerConfig `json:"server"`

	// Telemetry contains metrics and tracing configuration.
	Telemetry TelemetryConfig `json:"telemetry"`

	// Archive contains recording storage configuration.
	Archive ArchiveConfig `json:"archive"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// TransitionConfig is the JSON form of an animation.Transition.
type TransitionConfig struct {
	Type      string    `json:"type,omitempty"`
	Duration  Duration  `json:"duration,omitempty"`
	Delay     Duration  `json:"delay,omitempty"`
	Ease      []float64 `json:"ease,omitempty"`
	Stiffness float64   `json:"stiffness,omitempty"`
	Damping   float64   `json:"damping,omitempty"`
	Mass      float64   `json:"mass,omitempty"`
	RestDelta float64   `json:"restDelta,omitempty"`
}

// ServerConfig contains devtools server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// MetricsPath is the Prometheus scrape path.
	MetricsPath string `json:"metricsPath,omitempty"`

	// AllowedOrigins lists origins allowed to open the WebSocket. Empty
	// allows same-origin requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// TelemetryConfig contains metrics and tracing settings.
type TelemetryConfig struct {
	// Enabled turns on the Prometheus recorder.
	Enabled bool `json:"enabled"`

	// Namespace prefixes metric names.
	Namespace string `json:"namespace,omitempty"`

	// TracerName is the OpenTelemetry tracer name.
	TracerName string `json:"tracerName,omitempty"`
}

// ArchiveConfig contains S3 recording storage settings.
type ArchiveConfig struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads motion.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads configuration from path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No motion.json found in " + filepath.Dir(path)).
				WithSuggestion("Create motion.json or pass --config")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{Telemetry: TelemetryConfig{Enabled: true}}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse motion.json: " + err.Error()).
			WithSuggestion("Check that motion.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the config to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Transition.Type == "" {
		c.Transition.Type = animation.KindTween.String()
	}
	def := animation.DefaultLayoutTransition()
	if c.Transition.Duration == 0 && c.Transition.Type == animation.KindTween.String() {
		c.Transition.Duration = Duration(def.Duration)
	}
	if c.Transition.Ease == nil && c.Transition.Type == animation.KindTween.String() {
		c.Transition.Ease = def.Ease[:]
	}
	if c.ResizeDebounce == 0 {
		c.ResizeDebounce = Duration(projection.DefaultResizeDebounce)
	}
	if c.FrameRate == 0 {
		c.FrameRate = DefaultFrameRate
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}
	if c.Telemetry.Namespace == "" {
		c.Telemetry.Namespace = DefaultNamespace
	}
	if c.Telemetry.TracerName == "" {
		c.Telemetry.TracerName = "github.com/vango-dev/motion"
	}
	if c.Archive.Prefix == "" {
		c.Archive.Prefix = "recordings/"
	}
	if c.Archive.Region == "" {
		c.Archive.Region = "us-east-1"
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.FrameRate <= 0 || c.FrameRate > 240 {
		return errors.New("E122").WithDetailf("frameRate must be in (0, 240], got %v", c.FrameRate)
	}
	if c.ResizeDebounce < 0 {
		return errors.New("E122").WithDetail("resizeDebounce must not be negative")
	}
	if _, err := c.Transition.Transition(); err != nil {
		return err
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("E122").WithDetailf("unknown logLevel %q", c.LogLevel)
	}
	if !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return errors.New("E122").WithDetail("server.metricsPath must start with /")
	}
	return nil
}

// Transition converts the config into an animation.Transition.
func (tc TransitionConfig) Transition() (animation.Transition, error) {
	switch tc.Type {
	case "", "tween", "spring", "instant":
	default:
		return animation.Transition{}, errors.New("E122").
			WithDetailf("unknown transition type %q", tc.Type).
			WithSuggestion("Use tween, spring or instant")
	}
	tr := animation.Transition{
		Kind:      animation.ParseKind(tc.Type),
		Delay:     tc.Delay.Std(),
		Duration:  tc.Duration.Std(),
		Stiffness: tc.Stiffness,
		Damping:   tc.Damping,
		Mass:      tc.Mass,
		RestDelta: tc.RestDelta,
	}
	if tc.Duration < 0 || tc.Delay < 0 {
		return tr, errors.New("E122").WithDetail("transition durations must not be negative")
	}
	switch len(tc.Ease) {
	case 0:
	case 4:
		copy(tr.Ease[:], tc.Ease)
	default:
		return tr, errors.New("E122").
			WithDetailf("transition ease needs 4 control points, got %d", len(tc.Ease))
	}
	if tr.Kind == animation.KindSpring {
		spring := animation.DefaultSpring()
		if tr.Stiffness == 0 {
			tr.Stiffness = spring.Stiffness
		}
		if tr.Damping == 0 {
			tr.Damping = spring.Damping
		}
		if tr.Mass == 0 {
			tr.Mass = spring.Mass
		}
	}
	return tr, nil
}

// TreeOptions converts the config into projection tree options.
func (c *Config) TreeOptions() []projection.TreeOption {
	opts := []projection.TreeOption{
		projection.WithResizeDebounce(c.ResizeDebounce.Std()),
		projection.WithDeviceRounding(c.RoundToDevicePixels),
		projection.WithTracer(telemetry.Tracer(c.Telemetry.TracerName)),
	}
	if tr, err := c.Transition.Transition(); err == nil {
		opts = append(opts, projection.WithDefaultTransition(tr))
	}
	return opts
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Exists reports whether dir contains motion.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing motion.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No motion.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadOrDefault loads motion.json from the nearest project root, falling
// back to defaults when none exists.
func LoadOrDefault(startDir string) (*Config, error) {
	root, err := FindProjectRoot(startDir)
	if err != nil {
		if errors.Code(err) == "E141" {
			return New(), nil
		}
		return nil, err
	}
	return Load(root)
}
